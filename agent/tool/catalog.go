package tool

import (
	"context"
	"fmt"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
	"github.com/cloudwego/eino/schema"
)

type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

func BuildForAgent(reg *Registry) ([]*schema.ToolInfo, Executor) {
	return Infos(reg), NewExecutor(reg)
}

// NewExecutor folds dispatch and validation failures into the returned
// ToolResult. The error return is reserved for a cancelled context.
func NewExecutor(reg *Registry) Executor {
	if reg == nil {
		return DefaultExecutor("")
	}
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		if err := ctx.Err(); err != nil {
			return contractx.ToolResult{}, err
		}
		out, err := reg.Invoke(ctx, tool, args)
		if err != nil {
			return contractx.ToolResult{
				Tool:      tool,
				Error:     err.Error(),
				ErrorKind: contractx.ErrorKind(err),
			}, nil
		}
		return contractx.ToolResult{
			Tool:   tool,
			Result: out,
		}, nil
	}
}

func DefaultExecutor(agent contractx.AgentName) Executor {
	return func(ctx context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		err := fmt.Errorf("%w: tool=%s is unavailable for agent=%s", contractx.ErrToolNotFound, tool, agent)
		return contractx.ToolResult{
			Tool:      tool,
			Error:     err.Error(),
			ErrorKind: contractx.ErrorKind(err),
		}, nil
	}
}

func Infos(reg *Registry) []*schema.ToolInfo {
	if reg == nil {
		return nil
	}
	tools := reg.Tools()
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, t := range tools {
		infos = append(infos, &schema.ToolInfo{
			Name:        t.Name,
			Desc:        t.Description,
			ParamsOneOf: t.Schema.ParamsOneOf(),
		})
	}
	return infos
}

// Definition is the function-tool declaration sent to the realtime transport.
type Definition struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

func Definitions(reg *Registry) []Definition {
	if reg == nil {
		return nil
	}
	tools := reg.Tools()
	out := make([]Definition, 0, len(tools))
	for _, t := range tools {
		out = append(out, Definition{
			Type:        "function",
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Schema.JSONSchema(),
		})
	}
	return out
}
