// Package audit records tool invocations to an append-only journal. The
// clinic tools stay pure; the journal observes calls from the outside.
package audit

import (
	"context"
	"sync"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
)

type Config struct {
	DSN string `envconfig:"DSN"`
}

func (c Config) Enabled() bool {
	return c.DSN != ""
}

// Nop discards every invocation.
type Nop struct{}

func (Nop) Record(context.Context, contractx.Invocation) error {
	return nil
}

// Memory keeps invocations in process memory in arrival order.
type Memory struct {
	mu      sync.Mutex
	entries []contractx.Invocation
}

func (m *Memory) Record(_ context.Context, inv contractx.Invocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, inv)
	return nil
}

func (m *Memory) Entries() []contractx.Invocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]contractx.Invocation(nil), m.entries...)
}

var (
	_ contractx.Journal = Nop{}
	_ contractx.Journal = (*Memory)(nil)
	_ contractx.Journal = (*BunJournal)(nil)
)
