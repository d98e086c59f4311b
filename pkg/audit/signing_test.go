package audit_test

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Majorsoln/BOS-sub001/pkg/audit"
	"github.com/Majorsoln/BOS-sub001/pkg/clock"
)

func TestKeyring_SignVerifiesUnderItsOwnPublicKey(t *testing.T) {
	k, err := audit.NewKeyring()
	require.NoError(t, err)

	msg := []byte("entry-digest")
	sig := k.Sign(msg)
	require.True(t, ed25519.Verify(k.PublicKey(), msg, sig))
}

func TestKeyring_DeriveForTenant_DistinctTenantsDistinctKeys(t *testing.T) {
	master, err := audit.NewKeyring()
	require.NoError(t, err)

	a, err := master.DeriveForTenant("tenant-a")
	require.NoError(t, err)
	b, err := master.DeriveForTenant("tenant-b")
	require.NoError(t, err)

	require.NotEqual(t, a.PublicKey(), b.PublicKey())

	// deriving again for the same tenant is deterministic
	again, err := master.DeriveForTenant("tenant-a")
	require.NoError(t, err)
	require.Equal(t, a.PublicKey(), again.PublicKey())
}

func TestKeyring_DeriveForTenant_RejectsEmptyBusinessID(t *testing.T) {
	master, err := audit.NewKeyring()
	require.NoError(t, err)
	_, err = master.DeriveForTenant("")
	require.Error(t, err)
}

func TestSigningLogger_AttachesVerifiableSignature(t *testing.T) {
	master, err := audit.NewKeyring()
	require.NoError(t, err)

	var buf bytes.Buffer
	inner := audit.NewLoggerWithWriter(&buf, clock.Real())
	signing := audit.NewSigningLogger(inner, master)

	entry := audit.Entry{
		EntryID:      "entry-1",
		ActorID:      "actor-1",
		ActorType:    "HUMAN",
		Action:       "cash.session.payment.request",
		ResourceType: "cash_session",
		ResourceID:   "session-1",
		BusinessID:   "tenant-1",
		Status:       audit.StatusExecuted,
	}
	require.NoError(t, signing.Record(context.Background(), entry))

	line := bytes.TrimPrefix(buf.Bytes(), []byte("AUDIT: "))
	var written audit.Entry
	require.NoError(t, json.Unmarshal(line, &written))

	sigHex, ok := written.Metadata["signature"].(string)
	require.True(t, ok)
	keyHex, ok := written.Metadata["signing_key"].(string)
	require.True(t, ok)

	sig, err := hex.DecodeString(sigHex)
	require.NoError(t, err)
	pub, err := hex.DecodeString(keyHex)
	require.NoError(t, err)

	tenantKey, err := master.DeriveForTenant("tenant-1")
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(tenantKey.PublicKey()), keyHex)

	require.True(t, ed25519.Verify(ed25519.PublicKey(pub), digestOf(written), sig))
}

func digestOf(entry audit.Entry) []byte {
	sum := sha256.Sum256([]byte(entry.EntryID + "|" + entry.Action + "|" + entry.ResourceID + "|" + string(entry.Status)))
	return sum[:]
}
