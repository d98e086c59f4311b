// Package projection defines the fold contract every engine's read model
// satisfies: deterministic, order-sensitive, total over unknown event
// types, and rebuildable from an arbitrary fed-in event stream.
package projection

// Store is the minimal interface the dispatcher/engine layer requires.
// Implementations hold their own mutex (or equivalent) since Apply may be
// called concurrently across engines but must be linearised within one
// store, per the concurrency model.
type Store interface {
	// Apply folds one accepted event into state. Unknown event types are a
	// no-op — the projection is not the authority for event-type validity.
	Apply(eventType string, payload map[string]interface{})
}
