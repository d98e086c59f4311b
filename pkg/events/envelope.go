// Package events builds the event envelope emitted for accepted commands
// and maintains the registry of valid event types engines declare at
// startup.
package events

import (
	"time"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/canonicalize"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/ids"
)

// Envelope is the immutable, append-only event record.
type Envelope struct {
	EventID       string
	EventType     string
	Payload       map[string]interface{}
	ContentHash   string // sha256 over the JCS canonical form of Payload
	TenantID      string
	BranchID      string
	CorrelationID string
	CommandID     string
	ActorID       string
	ActorKind     bizcontext.ActorKind
	Timestamp     time.Time
}

// Build constructs the envelope for (cmd, eventType, payload) without
// inspecting business content. now stamps Timestamp; the caller already owns
// payload correctness. The content hash is computed over the canonical form
// of payload so two envelopes with the same logical content always match,
// regardless of map key order.
func Build(cmd command.Command, eventType string, payload map[string]interface{}, now time.Time) Envelope {
	hash, err := canonicalize.CanonicalHash(payload)
	if err != nil {
		hash = ""
	}
	return Envelope{
		EventID:       ids.New(),
		EventType:     eventType,
		Payload:       payload,
		ContentHash:   hash,
		TenantID:      cmd.TenantID(),
		BranchID:      cmd.BranchID(),
		CorrelationID: cmd.CorrelationID(),
		CommandID:     cmd.ID(),
		ActorID:       cmd.ActorID(),
		ActorKind:     cmd.ActorKind(),
		Timestamp:     now,
	}
}

// RejectedEventType derives the auto-generated rejected event type from a
// command intent: strip ".request", append ".rejected".
func RejectedEventType(intent string) string {
	const suffix = ".request"
	if len(intent) > len(suffix) && intent[len(intent)-len(suffix):] == suffix {
		return intent[:len(intent)-len(suffix)] + ".rejected"
	}
	return intent + ".rejected"
}
