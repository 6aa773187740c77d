package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type ToolInvocation struct {
	bun.BaseModel `bun:"table:tool_invocations,alias:ti"`

	ID             int64          `bun:"id,pk,autoincrement"`
	ConversationID string         `bun:"conversation_id"`
	Agent          string         `bun:"agent,notnull"`
	Tool           string         `bun:"tool,notnull"`
	Args           map[string]any `bun:"args,type:jsonb"`
	ErrorKind      string         `bun:"error_kind"`
	Error          string         `bun:"error"`
	DurationMicros int64          `bun:"duration_us"`
	At             time.Time      `bun:"at,notnull"`
}

func newRow(inv contractx.Invocation) *ToolInvocation {
	return &ToolInvocation{
		ConversationID: inv.ConversationID,
		Agent:          string(inv.Agent),
		Tool:           inv.Tool,
		Args:           inv.Args,
		ErrorKind:      inv.ErrorKind,
		Error:          inv.Error,
		DurationMicros: inv.Duration.Microseconds(),
		At:             inv.At.UTC(),
	}
}

// BunJournal appends invocations to the tool_invocations Postgres table.
type BunJournal struct {
	db *bun.DB
}

// OpenBunJournal connects to Postgres and creates the table if needed.
func OpenBunJournal(ctx context.Context, cfg Config) (*BunJournal, error) {
	if !cfg.Enabled() {
		return nil, errors.New("audit dsn is required")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	j := NewBunJournal(bun.NewDB(sqldb, pgdialect.New()))

	if err := j.db.PingContext(ctx); err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("ping audit database: %w", err)
	}
	if err := j.Migrate(ctx); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func NewBunJournal(db *bun.DB) *BunJournal {
	return &BunJournal{db: db}
}

func (j *BunJournal) Migrate(ctx context.Context) error {
	_, err := j.db.NewCreateTable().
		Model((*ToolInvocation)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create tool_invocations table: %w", err)
	}
	return nil
}

func (j *BunJournal) insert(inv contractx.Invocation) *bun.InsertQuery {
	return j.db.NewInsert().Model(newRow(inv))
}

func (j *BunJournal) Record(ctx context.Context, inv contractx.Invocation) error {
	if _, err := j.insert(inv).Exec(ctx); err != nil {
		return fmt.Errorf("insert tool invocation tool=%s: %w", inv.Tool, err)
	}
	return nil
}

func (j *BunJournal) Close() error {
	return j.db.Close()
}
