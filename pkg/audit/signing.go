package audit

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/Majorsoln/BOS-sub001/pkg/ids"
)

// Keyring signs audit entries with Ed25519 and derives tenant-scoped
// signing keys from a single master key via HKDF, so a compromised
// tenant-derived key cannot be used to forge another tenant's entries.
type Keyring struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// NewKeyring generates a fresh master signing key.
func NewKeyring() (*Keyring, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("audit: generate signing key: %w", err)
	}
	return &Keyring{pub: pub, priv: priv}, nil
}

// Sign returns the Ed25519 signature over msg.
func (k *Keyring) Sign(msg []byte) []byte {
	return ed25519.Sign(k.priv, msg)
}

// PublicKey returns the verification key for this keyring.
func (k *Keyring) PublicKey() ed25519.PublicKey { return k.pub }

// DeriveForTenant derives a tenant-scoped Keyring from the master seed via
// HKDF-SHA256, using businessID as the derivation info. Every tenant gets a
// distinct, deterministic Ed25519 keypair without the keyring holder ever
// storing per-tenant keys at rest.
func (k *Keyring) DeriveForTenant(businessID string) (*Keyring, error) {
	if businessID == "" {
		return nil, fmt.Errorf("audit: business_id must not be empty")
	}
	reader := hkdf.New(sha256.New, k.priv.Seed(), []byte("bos-audit-kdf"), []byte(businessID))
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(reader, seed); err != nil {
		return nil, fmt.Errorf("audit: derive tenant key: %w", err)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &Keyring{pub: priv.Public().(ed25519.PublicKey), priv: priv}, nil
}

// signingLogger wraps another Logger, attaching an Ed25519 signature over
// the SHA-256 of each entry's EntryID|Action|ResourceID|Status before
// delegating. An entry without an EntryID is assigned one first, so the
// signed ID is the one recorded. The signature rides in Metadata so
// existing consumers of Entry are unaffected.
type signingLogger struct {
	inner  Logger
	master *Keyring
}

// NewSigningLogger wraps inner so every recorded entry carries a signature
// made with a key derived per-business from master.
func NewSigningLogger(inner Logger, master *Keyring) Logger {
	return &signingLogger{inner: inner, master: master}
}

func (l *signingLogger) Record(ctx context.Context, entry Entry) error {
	tenantKey, err := l.master.DeriveForTenant(entry.BusinessID)
	if err != nil {
		return fmt.Errorf("audit: signing: %w", err)
	}

	if entry.EntryID == "" {
		entry.EntryID = ids.New()
	}
	digest := sha256.Sum256([]byte(entry.EntryID + "|" + entry.Action + "|" + entry.ResourceID + "|" + string(entry.Status)))
	signature := tenantKey.Sign(digest[:])

	if entry.Metadata == nil {
		entry.Metadata = make(map[string]interface{}, 1)
	}
	entry.Metadata["signature"] = hex.EncodeToString(signature)
	entry.Metadata["signing_key"] = hex.EncodeToString(tenantKey.PublicKey())

	return l.inner.Record(ctx, entry)
}
