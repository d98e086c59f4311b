// Package store defines the persistence sink contract events are handed
// to after a command is accepted, plus reference implementations.
package store

import (
	"context"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
)

// PersistResult is the sink's narrow response: whether the event was
// durably accepted.
type PersistResult struct {
	Accepted bool
	Reason   string
}

// Sink is the persistence contract. The core never inspects how a sink
// stores events; it only checks Accepted on the returned PersistResult.
// The event type must already be present in registry.
type Sink interface {
	Persist(ctx context.Context, envelope events.Envelope, scope bizcontext.ScopeRequirement, registry *events.TypeRegistry) (PersistResult, error)
}
