package store

import (
	"context"
	"sync"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
)

// MemorySink keeps accepted envelopes in an ordered, per-tenant append-only
// log. It is the reference sink used by tests and the replay harness.
type MemorySink struct {
	mu  sync.Mutex
	log map[string][]events.Envelope // key: tenant id
}

func NewMemorySink() *MemorySink {
	return &MemorySink{log: make(map[string][]events.Envelope)}
}

func (s *MemorySink) Persist(_ context.Context, envelope events.Envelope, _ bizcontext.ScopeRequirement, registry *events.TypeRegistry) (PersistResult, error) {
	if registry != nil && !registry.Contains(envelope.EventType) {
		return PersistResult{Accepted: false, Reason: "event type not registered"}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log[envelope.TenantID] = append(s.log[envelope.TenantID], envelope)
	return PersistResult{Accepted: true}, nil
}

// Events returns the append-order log for tenantID, for replay or testing.
func (s *MemorySink) Events(tenantID string) []events.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.Envelope, len(s.log[tenantID]))
	copy(out, s.log[tenantID])
	return out
}
