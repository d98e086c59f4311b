package security_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Majorsoln/BOS-sub001/pkg/security"
)

func TestSystemHealth_StartsNormalAndAllowsWrites(t *testing.T) {
	h := security.NewSystemHealth()
	require.Equal(t, security.ModeNormal, h.Mode())
	require.True(t, h.AllowsWrite())
}

func TestSystemHealth_DegradedBlocksWrites(t *testing.T) {
	h := security.NewSystemHealth()
	h.SetDegraded("database latency spike")
	require.Equal(t, security.ModeDegraded, h.Mode())
	require.Equal(t, "database latency spike", h.Reason())
	require.False(t, h.AllowsWrite())
}

func TestSystemHealth_ReadOnlyBlocksWrites(t *testing.T) {
	h := security.NewSystemHealth()
	h.SetReadOnly("failover in progress")
	require.False(t, h.AllowsWrite())
}

func TestSystemHealth_RecoverReturnsToNormal(t *testing.T) {
	h := security.NewSystemHealth()
	h.SetDegraded("incident")
	h.Recover()
	require.Equal(t, security.ModeNormal, h.Mode())
	require.Empty(t, h.Reason())
	require.True(t, h.AllowsWrite())
}
