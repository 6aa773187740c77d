package orchestratornode

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
	statex "github.com/Hrhcoolshegs/openai-realtime-agents/agent/state"
)

type GraphInput = contractx.ToolCall

type GraphOutput = contractx.ToolResult

// GraphState flows through every node of the tool dispatch graph.
type GraphState struct {
	Call contractx.ToolCall
	Now  time.Time

	Conversation *statex.Conversation
	Agent        contractx.AgentName

	Result   contractx.ToolResult
	Duration time.Duration
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	call := in
	call.Tool = strings.TrimSpace(call.Tool)
	call.ConversationID = strings.TrimSpace(call.ConversationID)
	call.Agent = contractx.AgentName(strings.TrimSpace(string(call.Agent)))

	if call.Tool == "" {
		return nil, fmt.Errorf("%w: tool name is empty", contractx.ErrValidation)
	}
	if call.ConversationID == "" && call.Agent == "" {
		return nil, fmt.Errorf("%w: agent or conversation id is required", contractx.ErrValidation)
	}
	if call.Args == nil {
		call.Args = map[string]any{}
	}

	return &GraphState{
		Call: call,
		Now:  nowFn().UTC(),
	}, nil
}
