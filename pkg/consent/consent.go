// Package consent tracks ConsentRecord grant/revoke/query, the minimal
// home for the data model's consent invariant: revocation is
// non-destructive and produces a new record rather than mutating the
// original.
package consent

import (
	"sync"
	"time"

	"github.com/Majorsoln/BOS-sub001/pkg/ids"
)

// Record is the immutable consent value. Revoke returns a new Record;
// it never mutates the receiver.
type Record struct {
	ConsentID   string
	SubjectID   string
	ConsentType string
	BusinessID  string
	GrantedAt   time.Time
	ExpiresAt   *time.Time
	RevokedAt   *time.Time
}

// IsValid reports the validity predicate at now: not revoked, and either
// no expiry or now has not passed it.
func (r Record) IsValid(now time.Time) bool {
	if r.RevokedAt != nil {
		return false
	}
	if r.ExpiresAt != nil && now.After(*r.ExpiresAt) {
		return false
	}
	return true
}

// Revoke returns a new Record with the same ConsentID and RevokedAt set to
// now; r itself is left unchanged.
func (r Record) Revoke(now time.Time) Record {
	revoked := r
	t := now
	revoked.RevokedAt = &t
	return revoked
}

// Store is a minimal grant/revoke/query surface over consent records,
// keyed by (subject, business, type) so a later grant supersedes an
// earlier one for the same triple.
type Store struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewStore() *Store {
	return &Store{records: make(map[string]Record)}
}

func key(subjectID, businessID, consentType string) string {
	return subjectID + "/" + businessID + "/" + consentType
}

// Grant creates and stores a new consent record.
func (s *Store) Grant(subjectID, businessID, consentType string, grantedAt time.Time, expiresAt *time.Time) Record {
	r := Record{
		ConsentID:   ids.New(),
		SubjectID:   subjectID,
		ConsentType: consentType,
		BusinessID:  businessID,
		GrantedAt:   grantedAt,
		ExpiresAt:   expiresAt,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key(subjectID, businessID, consentType)] = r
	return r
}

// Revoke replaces the stored record for (subjectID, businessID,
// consentType) with its revoked form and returns it. A missing record is a
// no-op returning the zero Record and false.
func (s *Store) Revoke(subjectID, businessID, consentType string, now time.Time) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(subjectID, businessID, consentType)
	existing, ok := s.records[k]
	if !ok {
		return Record{}, false
	}
	revoked := existing.Revoke(now)
	s.records[k] = revoked
	return revoked, true
}

// Get returns the current record, if any, for (subjectID, businessID,
// consentType).
func (s *Store) Get(subjectID, businessID, consentType string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[key(subjectID, businessID, consentType)]
	return r, ok
}
