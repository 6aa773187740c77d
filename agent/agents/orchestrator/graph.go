package orchestrator

import (
	"context"
	"fmt"

	nodex "github.com/Hrhcoolshegs/openai-realtime-agents/agent/nodes"
	"github.com/cloudwego/eino/compose"
)

func (s *Service) compileInvokeToolGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, s.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_conversation",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadConversation(ctx, in, s.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_conversation: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch_tool",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DispatchTool(ctx, in, s.scenario, s.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node dispatch_tool: %w", err)
	}

	if err := graph.AddLambdaNode("record_invocation",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RecordInvocation(ctx, in, s.store, s.journal)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_invocation: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_result",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeResult(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_result: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_conversation"},
		{"load_conversation", "dispatch_tool"},
		{"dispatch_tool", "record_invocation"},
		{"record_invocation", "finalize_result"},
		{"finalize_result", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.invoke_tool"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
