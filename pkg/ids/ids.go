// Package ids mints identifiers for commands, events, rejections, and
// receipts. Centralized so the identifier format can change without
// touching every caller.
package ids

import "github.com/google/uuid"

// New returns a new random UUID string.
func New() string {
	return uuid.New().String()
}

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
