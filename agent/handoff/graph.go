// Package handoff models which agents may transfer an active conversation
// to which other agents. Graphs are built in two phases: every agent is
// declared first, then edges are wired between declared names.
package handoff

import (
	"fmt"
	"slices"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
)

type Edge struct {
	From contractx.AgentName `json:"from"`
	To   contractx.AgentName `json:"to"`
}

// Builder collects declarations and edges. It is not safe for concurrent use.
type Builder struct {
	order   []contractx.AgentName
	targets map[contractx.AgentName][]contractx.AgentName
}

func NewBuilder() *Builder {
	return &Builder{targets: make(map[contractx.AgentName][]contractx.AgentName)}
}

func (b *Builder) Declare(name contractx.AgentName) error {
	if name == "" {
		return fmt.Errorf("%w: empty agent name", contractx.ErrValidation)
	}
	if _, ok := b.targets[name]; ok {
		return fmt.Errorf("%w: %s", contractx.ErrDuplicateAgent, name)
	}
	b.order = append(b.order, name)
	b.targets[name] = nil
	return nil
}

// AddHandoff appends to to the target set of from. Repeating an edge is a
// no-op.
func (b *Builder) AddHandoff(from, to contractx.AgentName) error {
	if from == to {
		return fmt.Errorf("%w: %s cannot hand off to itself", contractx.ErrInvalidHandoff, from)
	}
	targets, ok := b.targets[from]
	if !ok {
		return fmt.Errorf("%w: %s", contractx.ErrAgentNotFound, from)
	}
	if _, ok := b.targets[to]; !ok {
		return fmt.Errorf("%w: %s", contractx.ErrAgentNotFound, to)
	}
	if slices.Contains(targets, to) {
		return nil
	}
	b.targets[from] = append(targets, to)
	return nil
}

func (b *Builder) Build() *Graph {
	g := &Graph{
		order:   slices.Clone(b.order),
		targets: make(map[contractx.AgentName][]contractx.AgentName, len(b.targets)),
	}
	for name, targets := range b.targets {
		g.targets[name] = slices.Clone(targets)
	}
	return g
}

// Graph is an immutable handoff graph and is safe for concurrent use.
type Graph struct {
	order   []contractx.AgentName
	targets map[contractx.AgentName][]contractx.AgentName
}

// FullyConnected declares names in order and wires every ordered pair of
// distinct agents.
func FullyConnected(names ...contractx.AgentName) (*Graph, error) {
	b := NewBuilder()
	for _, n := range names {
		if err := b.Declare(n); err != nil {
			return nil, err
		}
	}
	for _, from := range names {
		for _, to := range names {
			if from == to {
				continue
			}
			if err := b.AddHandoff(from, to); err != nil {
				return nil, err
			}
		}
	}
	return b.Build(), nil
}

func (g *Graph) Agents() []contractx.AgentName {
	return slices.Clone(g.order)
}

func (g *Graph) Has(name contractx.AgentName) bool {
	_, ok := g.targets[name]
	return ok
}

func (g *Graph) Targets(from contractx.AgentName) []contractx.AgentName {
	return slices.Clone(g.targets[from])
}

func (g *Graph) CanHandoff(from, to contractx.AgentName) bool {
	return g.Handoff(from, to) == nil
}

// Handoff checks that control may pass from one agent to another.
func (g *Graph) Handoff(from, to contractx.AgentName) error {
	targets, ok := g.targets[from]
	if !ok {
		return fmt.Errorf("%w: %s", contractx.ErrAgentNotFound, from)
	}
	if from == to {
		return fmt.Errorf("%w: %s cannot hand off to itself", contractx.ErrInvalidHandoff, from)
	}
	if !slices.Contains(targets, to) {
		return fmt.Errorf("%w: %s -> %s", contractx.ErrHandoffNotAllowed, from, to)
	}
	return nil
}

// Edges lists every edge, grouped by source in declaration order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, from := range g.order {
		for _, to := range g.targets[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}
