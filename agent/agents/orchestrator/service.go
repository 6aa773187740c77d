package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	agentsx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/agents"
	"github.com/Hrhcoolshegs/openai-realtime-agents/agent/audit"
	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
	nodex "github.com/Hrhcoolshegs/openai-realtime-agents/agent/nodes"
	statex "github.com/Hrhcoolshegs/openai-realtime-agents/agent/state"
	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
)

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// Service scopes tool calls and handoffs to conversations of one scenario.
type Service struct {
	scenario *agentsx.Scenario
	store    statex.Store
	journal  contractx.Journal

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	locks keyedMutex

	now   func() time.Time
	newID func() string
}

func New(
	scenario *agentsx.Scenario,
	store statex.Store,
	journal contractx.Journal,
	opts ...Option,
) (*Service, error) {
	if scenario == nil {
		return nil, errors.New("scenario is required")
	}
	if store == nil {
		return nil, errors.New("conversation store is required")
	}
	if journal == nil {
		journal = audit.Nop{}
	}

	s := &Service{
		scenario: scenario,
		store:    store,
		journal:  journal,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	graphRunner, err := s.compileInvokeToolGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

func (s *Service) Scenario() *agentsx.Scenario {
	return s.scenario
}

// Start opens a conversation held by agent, or by the scenario's default
// agent when agent is empty.
func (s *Service) Start(ctx context.Context, agent contractx.AgentName) (*statex.Conversation, error) {
	agent = contractx.AgentName(strings.TrimSpace(string(agent)))
	if agent == "" {
		agent = s.scenario.DefaultAgent()
	}
	if _, err := s.scenario.Agent(agent); err != nil {
		return nil, err
	}

	conv := statex.NewConversation(s.newID(), s.scenario.Name(), agent, s.now())
	if err := s.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}
	return conv, nil
}

func (s *Service) Get(ctx context.Context, id string) (*statex.Conversation, error) {
	return s.store.Load(ctx, strings.TrimSpace(id))
}

func (s *Service) Handoff(ctx context.Context, id string, to contractx.AgentName) (*statex.Conversation, error) {
	id = strings.TrimSpace(id)
	unlock := s.locks.Lock(id)
	defer unlock()

	conv, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := conv.Transition(s.scenario.Graph(), to, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}
	return conv, nil
}

// InvokeTool runs a tool call through the dispatch graph. Tool failures are
// reported in the result; the error return covers unknown agents and
// conversations, inactive agents and store failures.
func (s *Service) InvokeTool(ctx context.Context, call contractx.ToolCall) (contractx.ToolResult, error) {
	if id := strings.TrimSpace(call.ConversationID); id != "" {
		unlock := s.locks.Lock(id)
		defer unlock()
	}
	return s.graphRunner.Invoke(ctx, call)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	unlock := s.locks.Lock(id)
	defer unlock()
	return s.store.Delete(ctx, id)
}
