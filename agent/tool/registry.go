package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
)

// Handler computes a tool result from validated arguments. Handlers must not
// mutate shared state.
type Handler func(ctx context.Context, args Args) (any, error)

type Tool struct {
	Name        string
	Description string
	Schema      Schema
	Handler     Handler
}

// Registry is the named tool set owned by one agent.
type Registry struct {
	owner contractx.AgentName
	order []string
	tools map[string]Tool
}

func NewRegistry(owner contractx.AgentName, tools ...Tool) (*Registry, error) {
	r := &Registry{
		owner: owner,
		tools: make(map[string]Tool, len(tools)),
	}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func MustNewRegistry(owner contractx.AgentName, tools ...Tool) *Registry {
	r, err := NewRegistry(owner, tools...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Register(t Tool) error {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return fmt.Errorf("%w: tool name is empty", contractx.ErrValidation)
	}
	if t.Handler == nil {
		return fmt.Errorf("%w: tool=%s has no handler", contractx.ErrValidation, name)
	}
	seen := make(map[string]struct{}, len(t.Schema.Params))
	for _, p := range t.Schema.Params {
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: tool=%s declares parameter %s twice", contractx.ErrValidation, name, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: tool=%s agent=%s", contractx.ErrDuplicateTool, name, r.owner)
	}
	t.Name = name
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) Owner() contractx.AgentName {
	return r.owner
}

func (r *Registry) Lookup(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return Tool{}, fmt.Errorf("%w: tool=%s agent=%s", contractx.ErrToolNotFound, name, r.owner)
	}
	return t, nil
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Invoke resolves name, validates args against its schema and runs the
// handler.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := t.Schema.Validate(args); err != nil {
		return nil, fmt.Errorf("tool=%s: %w", name, err)
	}
	return t.Handler(ctx, Args(args))
}
