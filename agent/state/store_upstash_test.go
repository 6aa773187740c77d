package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
)

// fakeUpstash implements the subset of the Upstash REST API the store uses,
// keeping hashes in memory.
type fakeUpstash struct {
	mu       sync.Mutex
	hashes   map[string]map[string]string
	strings  map[string]string
	ttls     map[string]int64
	paths    []string
	commands [][]any
	auth     string
}

func newFakeUpstash() *fakeUpstash {
	return &fakeUpstash{
		hashes:  make(map[string]map[string]string),
		strings: make(map[string]string),
		ttls:    make(map[string]int64),
	}
}

func (f *fakeUpstash) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	f.mu.Lock()
	defer f.mu.Unlock()

	f.paths = append(f.paths, r.URL.Path)
	f.auth = r.Header.Get("Authorization")

	switch r.URL.Path {
	case "/pipeline", "/multi-exec":
		var cmds [][]any
		if err := json.NewDecoder(r.Body).Decode(&cmds); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out := make([]map[string]any, len(cmds))
		for i, cmd := range cmds {
			out[i] = f.run(cmd)
		}
		_ = json.NewEncoder(w).Encode(out)
	default:
		var cmd []any
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(f.run(cmd))
	}
}

func (f *fakeUpstash) run(cmd []any) map[string]any {
	f.commands = append(f.commands, cmd)
	name, _ := cmd[0].(string)
	key, _ := cmd[1].(string)

	switch name {
	case "DEL":
		_, isHash := f.hashes[key]
		_, isString := f.strings[key]
		delete(f.hashes, key)
		delete(f.strings, key)
		delete(f.ttls, key)
		if isHash || isString {
			return map[string]any{"result": 1}
		}
		return map[string]any{"result": 0}
	case "HSET":
		if _, ok := f.strings[key]; ok {
			return map[string]any{"error": "WRONGTYPE Operation against a key holding the wrong kind of value"}
		}
		h := f.hashes[key]
		if h == nil {
			h = make(map[string]string)
			f.hashes[key] = h
		}
		for i := 2; i+1 < len(cmd); i += 2 {
			h[fmt.Sprint(cmd[i])] = fmt.Sprint(cmd[i+1])
		}
		return map[string]any{"result": (len(cmd) - 2) / 2}
	case "HGETALL":
		if _, ok := f.strings[key]; ok {
			return map[string]any{"error": "WRONGTYPE Operation against a key holding the wrong kind of value"}
		}
		flat := []string{}
		for k, v := range f.hashes[key] {
			flat = append(flat, k, v)
		}
		return map[string]any{"result": flat}
	case "EXPIRE":
		_, isHash := f.hashes[key]
		if !isHash {
			return map[string]any{"result": 0}
		}
		f.ttls[key] = int64(cmd[2].(float64))
		return map[string]any{"result": 1}
	}
	return map[string]any{"error": "ERR unknown command '" + name + "'"}
}

func newTestUpstash(t *testing.T, handler http.Handler, opts ...StoreOption) *UpstashRedisStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]StoreOption{WithHTTPClient(server.Client())}, opts...)
	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: server.URL, Token: "token"}, opts...)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}
	return store
}

func TestNewUpstashRedisStoreRequiresURLAndToken(t *testing.T) {
	t.Parallel()

	if _, err := NewUpstashRedisStore(UpstashRedisConfig{Token: "token"}); err == nil {
		t.Fatal("NewUpstashRedisStore() without url should fail")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.upstash.io"}); err == nil {
		t.Fatal("NewUpstashRedisStore() without token should fail")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.upstash.io", Token: "t"}, WithTTL(-time.Second)); err == nil {
		t.Fatal("NewUpstashRedisStore() with negative ttl should fail")
	}
}

func TestUpstashRedisStoreRoundTripKeepsHandoffs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := newFakeUpstash()
	store := newTestUpstash(t, fake)

	start := time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC)
	c := NewConversation("conv-1", "dentalClinic", contractx.AgentDrEva, start)
	c.Handoffs = []HandoffRecord{
		{From: contractx.AgentDrEva, To: contractx.AgentEmergencyTriage, At: start.Add(time.Minute)},
		{From: contractx.AgentEmergencyTriage, To: contractx.AgentAppointmentSpecialist, At: start.Add(2 * time.Minute)},
	}
	c.ActiveAgent = contractx.AgentAppointmentSpecialist
	c.Invocations = 3
	c.Touch(start.Add(3 * time.Minute))

	if err := store.Save(ctx, c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	fake.mu.Lock()
	hash := fake.hashes["rt:conversation:conv-1"]
	ttl := fake.ttls["rt:conversation:conv-1"]
	auth := fake.auth
	firstPath := fake.paths[0]
	fake.mu.Unlock()

	if auth != "Bearer token" {
		t.Fatalf("Authorization = %q", auth)
	}
	if firstPath != "/multi-exec" {
		t.Fatalf("Save() path = %q, want /multi-exec", firstPath)
	}
	if hash[fieldActiveAgent] != string(contractx.AgentAppointmentSpecialist) || hash[fieldInvocations] != "3" {
		t.Fatalf("stored hash = %v", hash)
	}
	if ttl != 86400 {
		t.Fatalf("ttl = %d, want 86400", ttl)
	}

	got, err := store.Load(ctx, "conv-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.ID != "conv-1" || got.Scenario != "dentalClinic" || got.ActiveAgent != contractx.AgentAppointmentSpecialist || got.Invocations != 3 {
		t.Fatalf("Load() = %+v", got)
	}
	if len(got.Handoffs) != 2 || got.Handoffs[1].To != contractx.AgentAppointmentSpecialist || !got.Handoffs[0].At.Equal(start.Add(time.Minute)) {
		t.Fatalf("Load() handoffs = %+v", got.Handoffs)
	}
	if !got.CreatedAt.Equal(start) || !got.UpdatedAt.Equal(start.Add(3*time.Minute)) {
		t.Fatalf("Load() times = %v / %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestUpstashRedisStoreSaveDropsStaleFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := newFakeUpstash()
	store := newTestUpstash(t, fake)

	c := NewConversation("conv-1", "dentalClinic", contractx.AgentDrEva, time.Now())
	c.Handoffs = []HandoffRecord{{From: contractx.AgentEmergencyTriage, To: contractx.AgentDrEva, At: time.Now()}}
	if err := store.Save(ctx, c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	c.Handoffs = nil
	if err := store.Save(ctx, c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	fake.mu.Lock()
	_, stale := fake.hashes["rt:conversation:conv-1"][fieldHandoffs]
	fake.mu.Unlock()
	if stale {
		t.Fatal("handoffs field survived a save without handoffs")
	}
}

func TestUpstashRedisStoreLoadRefreshesTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := newFakeUpstash()
	store := newTestUpstash(t, fake, WithTTL(90*time.Minute))

	if err := store.Save(ctx, NewConversation("conv-1", "dentalClinic", contractx.AgentDrEva, time.Now())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	fake.mu.Lock()
	fake.ttls["rt:conversation:conv-1"] = 5
	fake.commands = nil
	fake.mu.Unlock()

	if _, err := store.Load(ctx, "conv-1"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if got := fake.ttls["rt:conversation:conv-1"]; got != 5400 {
		t.Fatalf("ttl after Load() = %d, want 5400", got)
	}
	if len(fake.commands) != 2 || fake.commands[0][0] != "HGETALL" || fake.commands[1][0] != "EXPIRE" {
		t.Fatalf("Load() commands = %v", fake.commands)
	}
	if last := fake.paths[len(fake.paths)-1]; last != "/pipeline" {
		t.Fatalf("Load() path = %q, want /pipeline", last)
	}
}

func TestUpstashRedisStoreWithoutTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := newFakeUpstash()
	store := newTestUpstash(t, fake, WithTTL(0))

	if err := store.Save(ctx, NewConversation("conv-1", "dentalClinic", contractx.AgentDrEva, time.Now())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := store.Load(ctx, "conv-1"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	for _, cmd := range fake.commands {
		if cmd[0] == "EXPIRE" {
			t.Fatalf("EXPIRE sent with ttl disabled: %v", fake.commands)
		}
	}
}

func TestUpstashRedisStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store := newTestUpstash(t, newFakeUpstash())
	_, err := store.Load(context.Background(), "gone")
	if !errors.Is(err, contractx.ErrConversationNotFound) {
		t.Fatalf("Load() error = %v, want ErrConversationNotFound", err)
	}
}

func TestUpstashRedisStoreDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := newFakeUpstash()
	store := newTestUpstash(t, fake)

	if err := store.Save(ctx, NewConversation("conv-3", "dentalClinic", contractx.AgentDrEva, time.Now())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(ctx, "conv-3"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, "conv-3"); !errors.Is(err, contractx.ErrConversationNotFound) {
		t.Fatalf("Load() after Delete() error = %v, want ErrConversationNotFound", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.paths[1] != "/" {
		t.Fatalf("Delete() path = %q, want /", fake.paths[1])
	}
}

func TestUpstashRedisStoreLegacyValueIsCorrupt(t *testing.T) {
	t.Parallel()

	fake := newFakeUpstash()
	fake.strings["rt:conversation:old"] = `{"id":"old"}`
	store := newTestUpstash(t, fake)

	_, err := store.Load(context.Background(), "old")
	if !errors.Is(err, ErrCorruptConversation) {
		t.Fatalf("Load() error = %v, want ErrCorruptConversation", err)
	}
	var redisErr *RedisError
	if !errors.As(err, &redisErr) {
		t.Fatalf("Load() error = %v, want *RedisError", err)
	}
}

func TestUpstashRedisStoreCorruptHash(t *testing.T) {
	t.Parallel()

	fake := newFakeUpstash()
	fake.hashes["rt:conversation:bad"] = map[string]string{
		fieldScenario:    "dentalClinic",
		fieldActiveAgent: "drEva",
		fieldInvocations: "many",
	}
	store := newTestUpstash(t, fake)

	if _, err := store.Load(context.Background(), "bad"); !errors.Is(err, ErrCorruptConversation) {
		t.Fatalf("Load() error = %v, want ErrCorruptConversation", err)
	}
}

func TestUpstashRedisStoreErrorResponses(t *testing.T) {
	t.Parallel()

	envelope := newTestUpstash(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"error":"ERR max daily request limit exceeded"}]`)
	}))
	_, err := envelope.Load(context.Background(), "x")
	var redisErr *RedisError
	if !errors.As(err, &redisErr) || redisErr.Message != "ERR max daily request limit exceeded" {
		t.Fatalf("Load() error = %v", err)
	}
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Load() error = %v, want ErrStoreUnavailable", err)
	}

	unauthorized := newTestUpstash(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"WRONGPASS invalid or missing auth token"}`)
	}))
	err = unauthorized.Delete(context.Background(), "x")
	if !errors.As(err, &redisErr) || redisErr.Status != http.StatusUnauthorized || redisErr.Message != "WRONGPASS invalid or missing auth token" {
		t.Fatalf("Delete() error = %v", err)
	}
	if contractx.ErrorKind(err) != "internal" {
		t.Fatalf("ErrorKind() = %q, want internal", contractx.ErrorKind(err))
	}
}

func TestUpstashRedisStoreBlankIDIsValidation(t *testing.T) {
	t.Parallel()

	store := newTestUpstash(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a blank id")
	}))
	ctx := context.Background()

	_, loadErr := store.Load(ctx, "  ")
	for op, err := range map[string]error{
		"Load":   loadErr,
		"Save":   store.Save(ctx, &Conversation{ID: " ", ActiveAgent: "drEva"}),
		"Delete": store.Delete(ctx, ""),
	} {
		if !errors.Is(err, ErrInvalidConversation) || !errors.Is(err, contractx.ErrValidation) {
			t.Fatalf("%s() error = %v, want ErrInvalidConversation wrapping ErrValidation", op, err)
		}
	}
}
