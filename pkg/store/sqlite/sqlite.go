// Package sqlite is the pure-Go embeddable event sink for local/dev
// deployments, backed by modernc.org/sqlite (no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
	"github.com/Majorsoln/BOS-sub001/pkg/store"
)

// Sink persists event envelopes into a local SQLite file.
type Sink struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite file at path and ensures the
// schema exists.
func Open(ctx context.Context, path string) (*Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	s := &Sink{db: db}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS events (
	event_id       TEXT PRIMARY KEY,
	tenant_id      TEXT NOT NULL,
	branch_id      TEXT,
	event_type     TEXT NOT NULL,
	payload        TEXT NOT NULL,
	correlation_id TEXT NOT NULL,
	command_id     TEXT NOT NULL,
	actor_id       TEXT NOT NULL,
	actor_kind     TEXT NOT NULL,
	issued_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS events_tenant_idx ON events (tenant_id);
`

func (s *Sink) migrate(ctx context.Context) error {
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
		return store.PersistResult{}, fmt.Errorf("sqlite: marshal payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO events (event_id, tenant_id, branch_id, event_type, payload, correlation_id, command_id, actor_id, actor_kind, issued_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, envelope.EventID, envelope.TenantID, envelope.BranchID, envelope.EventType, string(payload),
		envelope.CorrelationID, envelope.CommandID, envelope.ActorID, string(envelope.ActorKind), envelope.Timestamp.Format("2006-01-02T15:04:05.999999999Z07:00"))
	if err != nil {
		return store.PersistResult{}, fmt.Errorf("sqlite: insert event: %w", err)
	}

	return store.PersistResult{Accepted: true}, nil
}

// Close releases the underlying database handle.
func (s *Sink) Close() error {
	return s.db.Close()
}
