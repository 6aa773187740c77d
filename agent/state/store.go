package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
)

// ErrConversationNotFound is returned by Load for unknown or expired ids.
var ErrConversationNotFound = contractx.ErrConversationNotFound

// ErrStoreUnavailable matches every failure reported by the Redis endpoint
// that is not a problem with the stored conversation itself.
var ErrStoreUnavailable = errors.New("conversation store unavailable")

const (
	defaultStoreKeyPrefix = "rt:conversation:"
	defaultStoreTTL       = 24 * time.Hour
	maxResponseSizeBytes  = 2 << 20
)

// Hash fields of a stored conversation. The id is the key suffix.
const (
	fieldScenario    = "scenario"
	fieldActiveAgent = "active_agent"
	fieldInvocations = "invocations"
	fieldHandoffs    = "handoffs"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
)

// Store is the persistence contract used by the orchestrator.
type Store interface {
	Load(ctx context.Context, id string) (*Conversation, error)
	Save(ctx context.Context, c *Conversation) error
	Delete(ctx context.Context, id string) error
}

// StoreOption customizes UpstashRedisStore.
type StoreOption func(*UpstashRedisStore)

func WithKeyPrefix(prefix string) StoreOption {
	return func(s *UpstashRedisStore) {
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			s.keyPrefix = trimmed
		}
	}
}

// WithTTL sets the idle lifetime of a conversation. Every Load and Save
// pushes expiry forward; zero keeps conversations until deleted.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *UpstashRedisStore) {
		s.ttl = ttl
	}
}

func WithHTTPClient(client *http.Client) StoreOption {
	return func(s *UpstashRedisStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

type UpstashRedisConfig struct {
	URL     string        `envconfig:"URL" split_words:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (c UpstashRedisConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

// UpstashRedisStore keeps each conversation as a Redis hash behind the
// Upstash REST API. Writes replace the hash in one MULTI/EXEC; reads fetch it
// and refresh its TTL in one pipeline, so a conversation expires only after
// it has been idle for the configured TTL.
type UpstashRedisStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
	keyPrefix  string
	ttl        time.Duration
}

func NewUpstashRedisStore(cfg UpstashRedisConfig, opts ...StoreOption) (*UpstashRedisStore, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	store := &UpstashRedisStore{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		keyPrefix:  defaultStoreKeyPrefix,
		ttl:        defaultStoreTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	if store.ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}
	return store, nil
}

func (s *UpstashRedisStore) Load(ctx context.Context, id string) (*Conversation, error) {
	key, err := s.key(id)
	if err != nil {
		return nil, err
	}

	cmds := [][]any{{"HGETALL", key}}
	if s.ttl > 0 {
		cmds = append(cmds, []any{"EXPIRE", key, ttlSeconds(s.ttl)})
	}
	results, err := s.batch(ctx, "/pipeline", cmds)
	if err != nil {
		return nil, fmt.Errorf("load conversation=%s: %w", id, err)
	}

	var flat []string
	if err := json.Unmarshal(results[0], &flat); err != nil {
		return nil, fmt.Errorf("%w: conversation=%s: hash reply: %v", ErrCorruptConversation, id, err)
	}
	if len(flat) == 0 {
		return nil, ErrConversationNotFound
	}
	return decodeConversation(id, flat)
}

func (s *UpstashRedisStore) Save(ctx context.Context, c *Conversation) error {
	if c == nil {
		return ErrNilConversation
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now()
	}
	c.UpdatedAt = c.UpdatedAt.UTC()
	if err := c.Validate(); err != nil {
		return err
	}
	key, err := s.key(c.ID)
	if err != nil {
		return err
	}
	hset, err := encodeConversation(key, c)
	if err != nil {
		return err
	}

	// DEL first so fields dropped from the record do not linger.
	cmds := [][]any{{"DEL", key}, hset}
	if s.ttl > 0 {
		cmds = append(cmds, []any{"EXPIRE", key, ttlSeconds(s.ttl)})
	}
	if _, err := s.batch(ctx, "/multi-exec", cmds); err != nil {
		return fmt.Errorf("save conversation=%s: %w", c.ID, err)
	}
	return nil
}

func (s *UpstashRedisStore) Delete(ctx context.Context, id string) error {
	key, err := s.key(id)
	if err != nil {
		return err
	}
	if _, err := s.batch(ctx, "", [][]any{{"DEL", key}}); err != nil {
		return fmt.Errorf("delete conversation=%s: %w", id, err)
	}
	return nil
}

func (s *UpstashRedisStore) key(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", ErrInvalidConversation
	}
	prefix := s.keyPrefix
	if prefix == "" {
		prefix = defaultStoreKeyPrefix
	}
	return prefix + id, nil
}

func encodeConversation(key string, c *Conversation) ([]any, error) {
	cmd := []any{
		"HSET", key,
		fieldScenario, c.Scenario,
		fieldActiveAgent, string(c.ActiveAgent),
		fieldInvocations, strconv.Itoa(c.Invocations),
		fieldCreatedAt, c.CreatedAt.UTC().Format(time.RFC3339Nano),
		fieldUpdatedAt, c.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if len(c.Handoffs) > 0 {
		raw, err := json.Marshal(c.Handoffs)
		if err != nil {
			return nil, fmt.Errorf("marshal handoffs: %w", err)
		}
		cmd = append(cmd, fieldHandoffs, string(raw))
	}
	return cmd, nil
}

// decodeConversation rebuilds a conversation from an HGETALL reply, which
// alternates field names and values.
func decodeConversation(id string, flat []string) (*Conversation, error) {
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("%w: conversation=%s: odd hash reply", ErrCorruptConversation, id)
	}
	fields := make(map[string]string, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		fields[flat[i]] = flat[i+1]
	}

	c := &Conversation{
		ID:          id,
		Scenario:    fields[fieldScenario],
		ActiveAgent: contractx.AgentName(fields[fieldActiveAgent]),
	}
	var err error
	if c.Invocations, err = strconv.Atoi(fields[fieldInvocations]); err != nil {
		return nil, fmt.Errorf("%w: conversation=%s: invocations: %v", ErrCorruptConversation, id, err)
	}
	if c.CreatedAt, err = time.Parse(time.RFC3339Nano, fields[fieldCreatedAt]); err != nil {
		return nil, fmt.Errorf("%w: conversation=%s: created_at: %v", ErrCorruptConversation, id, err)
	}
	if c.UpdatedAt, err = time.Parse(time.RFC3339Nano, fields[fieldUpdatedAt]); err != nil {
		return nil, fmt.Errorf("%w: conversation=%s: updated_at: %v", ErrCorruptConversation, id, err)
	}
	if raw, ok := fields[fieldHandoffs]; ok {
		if err := json.Unmarshal([]byte(raw), &c.Handoffs); err != nil {
			return nil, fmt.Errorf("%w: conversation=%s: handoffs: %v", ErrCorruptConversation, id, err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// RedisError is an error envelope or non-2xx status returned by Upstash.
// WRONGTYPE replies mean the key holds something other than a conversation
// hash and match ErrCorruptConversation; everything else matches
// ErrStoreUnavailable.
type RedisError struct {
	Status  int
	Message string
}

func (e *RedisError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstash redis status=%d: %s", e.Status, e.Message)
	}
	return "upstash redis: " + e.Message
}

func (e *RedisError) Unwrap() error {
	if strings.HasPrefix(e.Message, "WRONGTYPE") {
		return ErrCorruptConversation
	}
	return ErrStoreUnavailable
}

type redisReply struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

// batch sends cmds to path and returns one raw result per command. The
// empty path posts a single command to the root endpoint; "/pipeline" and
// "/multi-exec" take an array of commands.
func (s *UpstashRedisStore) batch(ctx context.Context, path string, cmds [][]any) ([]json.RawMessage, error) {
	if len(cmds) == 0 {
		return nil, errors.New("empty redis command")
	}
	var payload any = cmds
	if path == "" {
		if len(cmds) != 1 {
			return nil, errors.New("root endpoint takes exactly one command")
		}
		payload = cmds[0]
	}
	raw, err := s.post(ctx, path, payload)
	if err != nil {
		return nil, err
	}

	var replies []redisReply
	switch raw = bytes.TrimSpace(raw); {
	case len(raw) > 0 && raw[0] == '[':
		if err := json.Unmarshal(raw, &replies); err != nil {
			return nil, fmt.Errorf("decode redis response: %w", err)
		}
	default:
		// Single-command replies and aborted transactions are one envelope.
		var one redisReply
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, fmt.Errorf("decode redis response: %w", err)
		}
		replies = []redisReply{one}
	}

	for _, r := range replies {
		if r.Error != "" {
			return nil, &RedisError{Message: r.Error}
		}
	}
	if len(replies) != len(cmds) {
		return nil, &RedisError{Message: fmt.Sprintf("got %d replies for %d commands", len(replies), len(cmds))}
	}

	out := make([]json.RawMessage, len(replies))
	for i, r := range replies {
		out[i] = r.Result
	}
	return out, nil
}

func (s *UpstashRedisStore) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := strings.TrimSpace(string(raw))
		var envelope redisReply
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error != "" {
			msg = envelope.Error
		}
		return nil, &RedisError{Status: resp.StatusCode, Message: msg}
	}
	return raw, nil
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := ttl / time.Second
	if seconds <= 0 {
		return 1
	}
	if ttl%time.Second != 0 {
		seconds++
	}
	return int64(seconds)
}
