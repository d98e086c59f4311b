package events

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// TypeRegistry is the declared set of valid event types. Engines register
// their owned types at startup; envelope emission verifies membership
// before handing an event to the persistence sink.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]bool
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]bool)}
}

// Register declares eventType as valid. It rejects names that do not end in
// a `.vN` version suffix with N >= 1; the segments before it are not checked.
func (r *TypeRegistry) Register(eventType string) error {
	if _, err := parseVersion(eventType); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[eventType] = true
	return nil
}

// Contains reports whether eventType was registered.
func (r *TypeRegistry) Contains(eventType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[eventType]
}

// parseVersion validates the `.vN` suffix and that N parses as a positive
// integer, using Masterminds/semver to compare versions when callers need
// to check that a new event type is an additive (non-breaking) successor
// of an existing one (see IsAdditiveSuccessor).
func parseVersion(eventType string) (int, error) {
	idx := strings.LastIndex(eventType, ".v")
	if idx < 0 {
		return 0, fmt.Errorf("events: %q missing .vN suffix", eventType)
	}
	n, err := strconv.Atoi(eventType[idx+2:])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("events: %q has invalid version suffix", eventType)
	}
	return n, nil
}

// IsAdditiveSuccessor reports whether candidate is the same base event
// name as prior with a strictly greater version — i.e. a permitted
// additive schema change rather than an in-place breaking edit.
func IsAdditiveSuccessor(prior, candidate string) (bool, error) {
	priorBase, priorN, err := splitBase(prior)
	if err != nil {
		return false, err
	}
	candBase, candN, err := splitBase(candidate)
	if err != nil {
		return false, err
	}
	if priorBase != candBase {
		return false, nil
	}
	pv, err := semver.NewVersion(fmt.Sprintf("%d.0.0", priorN))
	if err != nil {
		return false, err
	}
	cv, err := semver.NewVersion(fmt.Sprintf("%d.0.0", candN))
	if err != nil {
		return false, err
	}
	return cv.GreaterThan(pv), nil
}

func splitBase(eventType string) (string, int, error) {
	idx := strings.LastIndex(eventType, ".v")
	if idx < 0 {
		return "", 0, fmt.Errorf("events: %q missing .vN suffix", eventType)
	}
	n, err := parseVersion(eventType)
	if err != nil {
		return "", 0, err
	}
	return eventType[:idx], n, nil
}
