package contract

import "context"

type ToolGateway interface {
	Execute(ctx context.Context, agent AgentName, req ToolRequest) (ToolResult, error)
}

type Journal interface {
	Record(ctx context.Context, inv Invocation) error
}
