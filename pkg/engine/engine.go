// Package engine defines the uniform contract every business engine
// (inventory, cash, accounting, …) satisfies so the dispatcher and
// subscription fan-out can drive it without engine-specific code.
package engine

import (
	"context"

	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
	"github.com/Majorsoln/BOS-sub001/pkg/projection"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
	"github.com/Majorsoln/BOS-sub001/pkg/store"
)

// PayloadBuilder is a pure function from a command to its event payload.
// The payload always carries tenant id, branch id, actor id/kind,
// correlation id, command id, and issued-at — callers add engine-specific
// fields through BasePayload.
type PayloadBuilder func(cmd command.Command) map[string]interface{}

// BasePayload returns the fields every payload must carry, per §4.3.
func BasePayload(cmd command.Command) map[string]interface{} {
	p := map[string]interface{}{
		"tenant_id":      cmd.TenantID(),
		"actor_id":       cmd.ActorID(),
		"actor_kind":     string(cmd.ActorKind()),
		"correlation_id": cmd.CorrelationID(),
		"command_id":     cmd.ID(),
		"issued_at":      cmd.IssuedAt(),
	}
	if cmd.HasBranch() {
		p["branch_id"] = cmd.BranchID()
	} else {
		p["branch_id"] = nil
	}
	return p
}

// ExecutionResult is what Engine.Handle reports back to the dispatcher.
type ExecutionResult struct {
	Accepted          bool
	EventType         string
	Envelope          events.Envelope
	PersistResult     store.PersistResult
	ProjectionApplied bool
	Rejection         rejection.Rejection
}

// Subscription maps a foreign event type to a handler invoked, under the
// SYSTEM actor, only when that foreign event was accepted. A subscription
// handler may construct commands of its own engine — which flow through
// the full pipeline — but may not bypass it.
type Subscription struct {
	ForeignEventType string
	Handle           func(ctx context.Context, foreign events.Envelope) error
}

// Engine is the uniform interface the dispatcher and subscription runtime
// drive. Engines interact with each other only through events — never by
// calling one another directly.
type Engine interface {
	// Name identifies the engine (first segment of its command intents).
	Name() string
	// CommandTypes is the closed set of command intents this engine owns.
	CommandTypes() []string
	// EventTypes is the closed set of event types this engine emits,
	// registered on the type registry at startup.
	EventTypes() []string
	// Handle performs scope guard, this engine's own feature-flag check,
	// payload build, factory call, persist, and (if accepted) projection
	// apply, in that order.
	Handle(ctx context.Context, cmd command.Command) (ExecutionResult, error)
	// Projection exposes the engine's read model for queries.
	Projection() projection.Store
	// Subscriptions lists the foreign events this engine reacts to.
	Subscriptions() []Subscription
}
