package consent_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/consent"
)

const (
	tenantT1 = "11111111-1111-1111-1111-111111111111"
	subject1 = "actor-1"
)

func newPostEntryCommand(t *testing.T, now time.Time) command.Command {
	t.Helper()
	cmd, err := command.New(command.Params{
		Intent:           "accounting.journal.post.request",
		TenantID:         tenantT1,
		ActorKind:        bizcontext.ActorHuman,
		ActorID:          subject1,
		Payload:          map[string]interface{}{},
		IssuedAt:         now,
		ScopeRequirement: bizcontext.ScopeBusinessAllowed,
		ActorRequirement: bizcontext.ActorRequired,
	})
	require.NoError(t, err)
	return cmd
}

func TestComplianceProvider_UnmappedIntentAlwaysAllowed(t *testing.T) {
	store := consent.NewStore()
	provider := consent.NewComplianceProvider(store, map[string]string{}, nil)

	cmd := newPostEntryCommand(t, time.Now())
	result, err := provider.Evaluate(context.Background(), cmd, tenantT1, "")
	require.NoError(t, err)
	require.True(t, result.Allowed)
}

func TestComplianceProvider_MissingConsentDenies(t *testing.T) {
	store := consent.NewStore()
	provider := consent.NewComplianceProvider(store, map[string]string{
		"accounting.journal.post.request": "financial_data_processing",
	}, nil)

	cmd := newPostEntryCommand(t, time.Now())
	result, err := provider.Evaluate(context.Background(), cmd, tenantT1, "")
	require.NoError(t, err)
	require.False(t, result.Allowed)
	require.Len(t, result.Violations, 1)
}

func TestComplianceProvider_ValidConsentAllows(t *testing.T) {
	now := time.Now()
	store := consent.NewStore()
	store.Grant(subject1, tenantT1, "financial_data_processing", now, nil)
	provider := consent.NewComplianceProvider(store, map[string]string{
		"accounting.journal.post.request": "financial_data_processing",
	}, func() time.Time { return now })

	cmd := newPostEntryCommand(t, now)
	result, err := provider.Evaluate(context.Background(), cmd, tenantT1, "")
	require.NoError(t, err)
	require.True(t, result.Allowed)
}

func TestComplianceProvider_ExpiredConsentDenies(t *testing.T) {
	granted := time.Now().Add(-2 * time.Hour)
	expiry := granted.Add(time.Hour)
	store := consent.NewStore()
	store.Grant(subject1, tenantT1, "financial_data_processing", granted, &expiry)
	provider := consent.NewComplianceProvider(store, map[string]string{
		"accounting.journal.post.request": "financial_data_processing",
	}, nil)

	cmd := newPostEntryCommand(t, time.Now())
	result, err := provider.Evaluate(context.Background(), cmd, tenantT1, "")
	require.NoError(t, err)
	require.False(t, result.Allowed)
}

func TestComplianceProvider_RevokedConsentDenies(t *testing.T) {
	now := time.Now()
	store := consent.NewStore()
	store.Grant(subject1, tenantT1, "financial_data_processing", now, nil)
	_, ok := store.Revoke(subject1, tenantT1, "financial_data_processing", now)
	require.True(t, ok)

	provider := consent.NewComplianceProvider(store, map[string]string{
		"accounting.journal.post.request": "financial_data_processing",
	}, nil)

	cmd := newPostEntryCommand(t, now)
	result, err := provider.Evaluate(context.Background(), cmd, tenantT1, "")
	require.NoError(t, err)
	require.False(t, result.Allowed)
}
