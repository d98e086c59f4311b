// Package audit records the immutable trail of every command outcome.
// An AuditEntry is written at the point a command resolves — accepted,
// rejected, or errored — and is never mutated or deleted afterward.
package audit

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/Majorsoln/BOS-sub001/pkg/clock"
	"github.com/Majorsoln/BOS-sub001/pkg/ids"
)

// Status is the closed set of terminal command outcomes.
type Status string

const (
	StatusExecuted Status = "EXECUTED"
	StatusRejected Status = "REJECTED"
	StatusError    Status = "ERROR"
)

// Entry is the immutable audit record named in the data model.
type Entry struct {
	EntryID      string                 `json:"entry_id"`
	EventID      string                 `json:"event_id,omitempty"`
	ActorID      string                 `json:"actor_id"`
	ActorType    string                 `json:"actor_type"`
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id"`
	BusinessID   string                 `json:"business_id"`
	BranchID     string                 `json:"branch_id,omitempty"`
	Status       Status                 `json:"status"`
	OccurredAt   time.Time              `json:"occurred_at"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// Logger records audit entries. Implementations must never allow a
// previously written entry to be altered.
type Logger interface {
	Record(ctx context.Context, entry Entry) error
}

// writerLogger writes one JSON line per entry, prefixed "AUDIT: ", to an
// injectable io.Writer. This mirrors the append-only structured logging
// idiom used elsewhere in this codebase.
type writerLogger struct {
	mu     sync.Mutex
	writer io.Writer
	clock  clock.Clock
}

// NewLogger creates a Logger writing to os.Stdout with the real clock.
func NewLogger() Logger {
	return NewLoggerWithWriter(os.Stdout, clock.Real())
}

// NewLoggerWithWriter creates a Logger writing to w, using c to stamp
// entries that arrive without an OccurredAt already set.
func NewLoggerWithWriter(w io.Writer, c clock.Clock) Logger {
	if w == nil {
		w = os.Stdout
	}
	if c == nil {
		c = clock.Real()
	}
	return &writerLogger{writer: w, clock: c}
}

func (l *writerLogger) Record(ctx context.Context, entry Entry) error {
	if entry.EntryID == "" {
		entry.EntryID = ids.New()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = l.clock()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = l.writer.Write(append([]byte("AUDIT: "), append(payload, '\n')...))
	return err
}
