package state

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps conversations in process memory. It is used when no
// Redis endpoint is configured and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Conversation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*Conversation)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Conversation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidConversation
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.items[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return c.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, c *Conversation) error {
	if c == nil {
		return ErrNilConversation
	}
	if strings.TrimSpace(c.ID) == "" {
		return ErrInvalidConversation
	}
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[c.ID] = c.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidConversation
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*UpstashRedisStore)(nil)
)
