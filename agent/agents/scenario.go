// Package agents holds the agent and scenario model shared by every
// deployment: named personas, their tool registries and the handoff graph
// that connects them.
package agents

import (
	"context"
	"fmt"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
	handoffx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/handoff"
	toolx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/tool"
	"github.com/cloudwego/eino/schema"
)

const DefaultVoice = "sage"

// Agent is a persona bound to an instruction script and a tool registry.
// Handoff targets live in the scenario graph and are resolved by name.
type Agent struct {
	Name               contractx.AgentName
	Voice              string
	HandoffDescription string
	Instructions       string
	Tools              *toolx.Registry
}

type member struct {
	agent    Agent
	infos    []*schema.ToolInfo
	executor toolx.Executor
}

// Scenario is an immutable set of agents plus their handoff graph. The
// first agent is the one a new conversation starts with.
type Scenario struct {
	name        string
	companyName string
	order       []contractx.AgentName
	members     map[contractx.AgentName]member
	graph       *handoffx.Graph
}

// NewScenario checks that graph declares exactly the given agents and that
// each registry is owned by its agent.
func NewScenario(name, companyName string, graph *handoffx.Graph, list ...Agent) (*Scenario, error) {
	if graph == nil {
		return nil, fmt.Errorf("%w: scenario %s has no handoff graph", contractx.ErrValidation, name)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: scenario %s has no agents", contractx.ErrValidation, name)
	}
	s := &Scenario{
		name:        name,
		companyName: companyName,
		members:     make(map[contractx.AgentName]member, len(list)),
		graph:       graph,
	}
	for _, a := range list {
		if _, ok := s.members[a.Name]; ok {
			return nil, fmt.Errorf("%w: %s", contractx.ErrDuplicateAgent, a.Name)
		}
		if !graph.Has(a.Name) {
			return nil, fmt.Errorf("%w: %s is not declared in the handoff graph", contractx.ErrAgentNotFound, a.Name)
		}
		if a.Tools == nil {
			a.Tools = toolx.MustNewRegistry(a.Name)
		}
		if a.Tools.Owner() != a.Name {
			return nil, fmt.Errorf("%w: registry of %s belongs to %s", contractx.ErrValidation, a.Name, a.Tools.Owner())
		}
		if a.Voice == "" {
			a.Voice = DefaultVoice
		}
		infos, exec := toolx.BuildForAgent(a.Tools)
		s.members[a.Name] = member{agent: a, infos: infos, executor: exec}
		s.order = append(s.order, a.Name)
	}
	if got := len(graph.Agents()); got != len(list) {
		return nil, fmt.Errorf("%w: graph declares %d agents, scenario has %d", contractx.ErrValidation, got, len(list))
	}
	return s, nil
}

func (s *Scenario) Name() string {
	return s.name
}

func (s *Scenario) CompanyName() string {
	return s.companyName
}

func (s *Scenario) Graph() *handoffx.Graph {
	return s.graph
}

func (s *Scenario) DefaultAgent() contractx.AgentName {
	return s.order[0]
}

func (s *Scenario) Agents() []Agent {
	out := make([]Agent, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.members[name].agent)
	}
	return out
}

func (s *Scenario) Agent(name contractx.AgentName) (Agent, error) {
	m, ok := s.members[name]
	if !ok {
		return Agent{}, fmt.Errorf("%w: %s", contractx.ErrAgentNotFound, name)
	}
	return m.agent, nil
}

// Handoffs returns the agents name may hand the conversation to.
func (s *Scenario) Handoffs(name contractx.AgentName) ([]Agent, error) {
	if _, ok := s.members[name]; !ok {
		return nil, fmt.Errorf("%w: %s", contractx.ErrAgentNotFound, name)
	}
	targets := s.graph.Targets(name)
	out := make([]Agent, 0, len(targets))
	for _, t := range targets {
		out = append(out, s.members[t].agent)
	}
	return out, nil
}

func (s *Scenario) ToolInfos(name contractx.AgentName) ([]*schema.ToolInfo, error) {
	m, ok := s.members[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", contractx.ErrAgentNotFound, name)
	}
	return m.infos, nil
}

// Invoke validates and runs a tool, returning dispatch and validation
// failures as errors.
func (s *Scenario) Invoke(ctx context.Context, agent contractx.AgentName, tool string, args map[string]any) (any, error) {
	m, ok := s.members[agent]
	if !ok {
		return nil, fmt.Errorf("%w: %s", contractx.ErrAgentNotFound, agent)
	}
	return m.agent.Tools.Invoke(ctx, tool, args)
}

// Execute implements contract.ToolGateway. Tool failures are folded into the
// result; only an unknown agent or a cancelled context is returned as error.
func (s *Scenario) Execute(ctx context.Context, agent contractx.AgentName, req contractx.ToolRequest) (contractx.ToolResult, error) {
	m, ok := s.members[agent]
	if !ok {
		return contractx.ToolResult{}, fmt.Errorf("%w: %s", contractx.ErrAgentNotFound, agent)
	}
	return m.executor(ctx, req.Tool, req.Args)
}

type AgentDescriptor struct {
	Name               contractx.AgentName   `json:"name"`
	Voice              string                `json:"voice"`
	HandoffDescription string                `json:"handoff_description"`
	Instructions       string                `json:"instructions"`
	Tools              []toolx.Definition    `json:"tools"`
	Handoffs           []contractx.AgentName `json:"handoffs"`
}

type Descriptor struct {
	Name         string              `json:"name"`
	CompanyName  string              `json:"company_name"`
	DefaultAgent contractx.AgentName `json:"default_agent"`
	Agents       []AgentDescriptor   `json:"agents"`
}

// Describe renders the scenario as the realtime transport consumes it.
func (s *Scenario) Describe() Descriptor {
	d := Descriptor{
		Name:         s.name,
		CompanyName:  s.companyName,
		DefaultAgent: s.DefaultAgent(),
		Agents:       make([]AgentDescriptor, 0, len(s.order)),
	}
	for _, name := range s.order {
		a := s.members[name].agent
		d.Agents = append(d.Agents, AgentDescriptor{
			Name:               a.Name,
			Voice:              a.Voice,
			HandoffDescription: a.HandoffDescription,
			Instructions:       a.Instructions,
			Tools:              toolx.Definitions(a.Tools),
			Handoffs:           s.graph.Targets(name),
		})
	}
	return d
}

var _ contractx.ToolGateway = (*Scenario)(nil)
