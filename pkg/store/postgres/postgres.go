// Package postgres is the durable persistence sink backed by a Postgres
// events table, using database/sql with lib/pq as the driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
	"github.com/Majorsoln/BOS-sub001/pkg/store"
)

// Sink persists event envelopes into an `events` table. Idempotency is
// enforced by a unique constraint on event_id; a conflicting insert is
// treated as already-accepted rather than an error.
type Sink struct {
	db *sql.DB
}

// Open connects to dsn and verifies the schema exists.
func Open(ctx context.Context, dsn string) (*Sink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Sink{db: db}, nil
}

// New wraps an already-opened *sql.DB (used by tests with go-sqlmock).
func New(db *sql.DB) *Sink {
	return &Sink{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS events (
	event_id       TEXT PRIMARY KEY,
	tenant_id      TEXT NOT NULL,
	branch_id      TEXT,
	event_type     TEXT NOT NULL,
	payload        JSONB NOT NULL,
	correlation_id TEXT NOT NULL,
	command_id     TEXT NOT NULL,
	actor_id       TEXT NOT NULL,
	actor_kind     TEXT NOT NULL,
	issued_at      TIMESTAMPTZ NOT NULL,
	appended_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS events_tenant_appended_idx ON events (tenant_id, appended_at);
`

// Migrate creates the events table if it does not already exist.
func (s *Sink) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Persist implements store.Sink.
func (s *Sink) Persist(ctx context.Context, envelope events.Envelope, _ bizcontext.ScopeRequirement, registry *events.TypeRegistry) (store.PersistResult, error) {
	if registry != nil && !registry.Contains(envelope.EventType) {
		return store.PersistResult{Accepted: false, Reason: "event type not registered"}, nil
	}

	payload, err := json.Marshal(envelope.Payload)
	if err != nil {
		return store.PersistResult{}, fmt.Errorf("postgres: marshal payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (event_id, tenant_id, branch_id, event_type, payload, correlation_id, command_id, actor_id, actor_kind, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (event_id) DO NOTHING
	`, envelope.EventID, envelope.TenantID, nullableString(envelope.BranchID), envelope.EventType, payload,
		envelope.CorrelationID, envelope.CommandID, envelope.ActorID, string(envelope.ActorKind), envelope.Timestamp)
	if err != nil {
		return store.PersistResult{}, fmt.Errorf("postgres: insert event: %w", err)
	}

	return store.PersistResult{Accepted: true}, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
