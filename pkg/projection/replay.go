package projection

import "github.com/Majorsoln/BOS-sub001/pkg/events"

// Rebuild folds envelopes into store in order. Callers needing a
// byte-identical fresh projection construct a new Store and call Rebuild
// on it rather than reusing one with accumulated state.
func Rebuild(store Store, envelopes []events.Envelope) {
	for _, e := range envelopes {
		store.Apply(e.EventType, e.Payload)
	}
}
