package state

import (
	"errors"
	"fmt"
	"time"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
)

// Conversation tracks which agent currently holds a realtime conversation
// and how control moved between agents. Tool results are never stored here.
type Conversation struct {
	ID          string              `json:"id"`
	Scenario    string              `json:"scenario"`
	ActiveAgent contractx.AgentName `json:"active_agent"`
	Handoffs    []HandoffRecord     `json:"handoffs,omitempty"`
	Invocations int                 `json:"invocations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HandoffRecord struct {
	From contractx.AgentName `json:"from"`
	To   contractx.AgentName `json:"to"`
	At   time.Time           `json:"at"`
}

// HandoffChecker reports whether control may pass between two agents.
type HandoffChecker interface {
	Handoff(from, to contractx.AgentName) error
}

var (
	ErrNilConversation     = fmt.Errorf("%w: conversation is nil", contractx.ErrValidation)
	ErrInvalidConversation = fmt.Errorf("%w: conversation id is empty", contractx.ErrValidation)
	ErrCorruptConversation = errors.New("conversation state corrupt")
)

func NewConversation(id, scenario string, agent contractx.AgentName, now time.Time) *Conversation {
	return &Conversation{
		ID:          id,
		Scenario:    scenario,
		ActiveAgent: agent,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
}

func (c *Conversation) Touch(now time.Time) {
	c.UpdatedAt = now.UTC()
}

// Transition hands the conversation to another agent if the graph allows
// it. On failure the conversation is left unchanged.
func (c *Conversation) Transition(graph HandoffChecker, to contractx.AgentName, now time.Time) error {
	if c == nil {
		return ErrNilConversation
	}
	if err := graph.Handoff(c.ActiveAgent, to); err != nil {
		return err
	}
	c.Handoffs = append(c.Handoffs, HandoffRecord{From: c.ActiveAgent, To: to, At: now.UTC()})
	c.ActiveAgent = to
	c.Touch(now)
	return nil
}

func (c *Conversation) RecordInvocation(now time.Time) {
	c.Invocations++
	c.Touch(now)
}

func (c *Conversation) Validate() error {
	if c == nil {
		return ErrNilConversation
	}
	if c.ID == "" {
		return ErrInvalidConversation
	}
	if c.ActiveAgent == "" {
		return fmt.Errorf("%w: no active agent", ErrCorruptConversation)
	}
	if c.Invocations < 0 {
		return fmt.Errorf("%w: negative invocation count", ErrCorruptConversation)
	}
	for i, h := range c.Handoffs {
		if h.From == h.To {
			return fmt.Errorf("%w: handoff %d is a self-loop", ErrCorruptConversation, i)
		}
		if i > 0 && c.Handoffs[i-1].To != h.From {
			return fmt.Errorf("%w: handoff %d does not start at %s", ErrCorruptConversation, i, c.Handoffs[i-1].To)
		}
	}
	if n := len(c.Handoffs); n > 0 && c.Handoffs[n-1].To != c.ActiveAgent {
		return fmt.Errorf("%w: active agent %s differs from last handoff target %s",
			ErrCorruptConversation, c.ActiveAgent, c.Handoffs[n-1].To)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	out := *c
	if c.Handoffs != nil {
		out.Handoffs = append([]HandoffRecord(nil), c.Handoffs...)
	}
	return &out
}
