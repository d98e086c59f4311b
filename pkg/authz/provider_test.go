package authz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Majorsoln/BOS-sub001/pkg/authz"
	"github.com/Majorsoln/BOS-sub001/pkg/providers"
)

func TestProvider_GrantScope_DirectGrant(t *testing.T) {
	engine := authz.NewEngine()
	provider := authz.NewProvider(engine, map[string]string{
		"cash.session.open.request": "cash.session.manage",
	})
	ctx := context.Background()

	require.NoError(t, provider.GrantScope(ctx, "actor-1", "cash.session.manage", "biz-1", ""))

	grants, err := provider.GrantsForActor(ctx, "actor-1", "biz-1")
	require.NoError(t, err)
	require.Len(t, grants, 1)
	require.Equal(t, "cash.session.manage", grants[0].Permission)
	require.Equal(t, "biz-1", grants[0].BusinessID)
	require.Equal(t, "", grants[0].BranchID)
}

func TestProvider_GrantRole_ExpandsToRoleGrants(t *testing.T) {
	engine := authz.NewEngine()
	provider := authz.NewProvider(engine, nil)
	ctx := context.Background()

	require.NoError(t, provider.GrantRole(ctx, "actor-1", "cashier"))
	require.NoError(t, engine.WriteTuple(ctx, authz.RelationTuple{
		Object:   authz.ScopeObject("biz-1", ""),
		Relation: "cash.session.manage",
		Subject:  "role:cashier",
	}))

	roles, err := provider.RolesForActor(ctx, "actor-1", "biz-1")
	require.NoError(t, err)
	require.Contains(t, roles, providers.Role("cashier"))

	grants, err := provider.GrantsForActor(ctx, "actor-1", "biz-1")
	require.NoError(t, err)
	require.Len(t, grants, 1)
	require.Equal(t, "cash.session.manage", grants[0].Permission)
}

func TestProvider_GrantsForActor_FiltersByTenant(t *testing.T) {
	engine := authz.NewEngine()
	provider := authz.NewProvider(engine, nil)
	ctx := context.Background()

	require.NoError(t, provider.GrantScope(ctx, "actor-1", "cash.session.manage", "biz-1", ""))
	require.NoError(t, provider.GrantScope(ctx, "actor-1", "cash.session.manage", "biz-2", ""))

	grants, err := provider.GrantsForActor(ctx, "actor-1", "biz-1")
	require.NoError(t, err)
	require.Len(t, grants, 1)
	require.Equal(t, "biz-1", grants[0].BusinessID)
}

func TestProvider_PermissionForIntent_UnmappedFails(t *testing.T) {
	provider := authz.NewProvider(authz.NewEngine(), map[string]string{
		"cash.session.open.request": "cash.session.manage",
	})

	_, ok, err := provider.PermissionForIntent(context.Background(), "cash.session.close.request")
	require.Error(t, err)
	require.False(t, ok)

	perm, ok, err := provider.PermissionForIntent(context.Background(), "cash.session.open.request")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "cash.session.manage", perm)
}

func TestScopeObject_Format(t *testing.T) {
	require.Equal(t, "business:biz-1", authz.ScopeObject("biz-1", ""))
	require.Equal(t, "business:biz-1/branch:branch-1", authz.ScopeObject("biz-1", "branch-1"))
}
