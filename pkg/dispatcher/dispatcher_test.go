package dispatcher_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/clock"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/dispatcher"
	"github.com/Majorsoln/BOS-sub001/pkg/engine"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
	"github.com/Majorsoln/BOS-sub001/pkg/guard"
	"github.com/Majorsoln/BOS-sub001/pkg/projection"
	"github.com/Majorsoln/BOS-sub001/pkg/providers"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
	"github.com/Majorsoln/BOS-sub001/pkg/security"
)

const (
	tenantID = "cccccccc-cccc-cccc-cccc-cccccccccccc"
	branchB1 = "branch-1"
	branchB2 = "branch-2"
)

const stubIntent = "stub.order.place.request"
const stubEventType = "stub.order.placed.v1"

// stubEngine is a minimal engine.Engine that always accepts, isolating
// these tests to dispatcher/guard-stack orchestration rather than any
// concrete business engine's own rules.
type stubEngine struct{}

func (stubEngine) Name() string            { return "stub" }
func (stubEngine) CommandTypes() []string  { return []string{stubIntent} }
func (stubEngine) EventTypes() []string    { return []string{stubEventType} }
func (stubEngine) Projection() projection.Store { return nil }
func (stubEngine) Subscriptions() []engine.Subscription { return nil }

func (stubEngine) Handle(ctx context.Context, cmd command.Command) (engine.ExecutionResult, error) {
	return engine.ExecutionResult{
		Accepted:  true,
		EventType: stubEventType,
		Envelope:  events.Build(cmd, stubEventType, engine.BasePayload(cmd), time.Now()),
	}, nil
}

func newDispatcher(t *testing.T, deps guard.Deps, p guard.Providers) (*dispatcher.Dispatcher, clock.Clock) {
	t.Helper()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	c := clock.Fixed(now)
	registry := events.NewTypeRegistry()
	d := dispatcher.New(c, deps, p, registry, nil)
	require.NoError(t, d.RegisterEngine(stubEngine{}))
	return d, c
}

func humanCommand(t *testing.T, branchID string, now time.Time) command.Command {
	t.Helper()
	scope := bizcontext.ScopeBusinessAllowed
	if branchID != "" {
		scope = bizcontext.ScopeBranchRequired
	}
	cmd, err := command.New(command.Params{
		Intent:           stubIntent,
		TenantID:         tenantID,
		BranchID:         branchID,
		ActorKind:        bizcontext.ActorHuman,
		ActorID:          "human-1",
		IssuedAt:         now,
		ScopeRequirement: scope,
		ActorRequirement: bizcontext.ActorRequired,
	})
	require.NoError(t, err)
	return cmd
}

func activeBizCtx(branches ...string) *bizcontext.BusinessContext {
	ctx := bizcontext.NewBusinessContext(tenantID, bizcontext.LifecycleActive, branches)
	if len(branches) > 0 {
		ctx.SetBranch(branches[0])
	}
	return ctx
}

// TestDispatch_S4_BranchScopeViolation: an actor in scope for the tenant but
// holding only a business-wide permission grant is rejected attempting a
// branch-scoped command — the fixed PERMISSION_SCOPE_REQUIRED_BRANCH path.
func TestDispatch_S4_BranchScopeViolation(t *testing.T) {
	pp := providers.NewInMemoryPermissionProvider()
	pp.MapIntent(stubIntent, "stub.order.place")
	pp.SetGrants("human-1", tenantID, providers.ScopeGrant{Permission: "stub.order.place", BusinessID: tenantID, BranchID: ""})

	scope := bizcontext.NewTenantScope().GrantAllBranches(tenantID)
	deps := guard.Deps{
		TenantScopes: func(actorID string) *bizcontext.TenantScope { return scope },
	}
	p := guard.Providers{Permission: pp}

	d, c := newDispatcher(t, deps, p)
	bizCtx := activeBizCtx(branchB1)

	cmd := humanCommand(t, branchB1, c())
	outcome := d.Dispatch(context.Background(), cmd, bizCtx)
	require.False(t, outcome.Accepted)
	require.Equal(t, rejection.CodePermissionScopeBranch, outcome.Rejection.Code())
}

// TestDispatch_S5_RateLimitCeiling exercises the sliding-window rate limit
// end to end through the dispatcher.
func TestDispatch_S5_RateLimitCeiling(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	limiter := security.NewRateLimiter(clock.Fixed(now), map[bizcontext.ActorKind]security.Tier{
		bizcontext.ActorHuman: {Base: 2, Burst: 0},
	})
	pp := providers.NewInMemoryPermissionProvider()
	pp.MapIntent(stubIntent, "stub.order.place")
	pp.SetGrants("human-1", tenantID, providers.ScopeGrant{Permission: "stub.order.place", BusinessID: tenantID, BranchID: ""})
	scope := bizcontext.NewTenantScope().GrantAllBranches(tenantID)

	deps := guard.Deps{
		RateLimiter:  limiter,
		TenantScopes: func(actorID string) *bizcontext.TenantScope { return scope },
	}
	d, c := newDispatcher(t, deps, guard.Providers{Permission: pp})
	bizCtx := activeBizCtx()

	for i := 0; i < 2; i++ {
		cmd := humanCommand(t, "", c())
		outcome := d.Dispatch(context.Background(), cmd, bizCtx)
		require.True(t, outcome.Accepted)
	}

	cmd := humanCommand(t, "", c())
	outcome := d.Dispatch(context.Background(), cmd, bizCtx)
	require.False(t, outcome.Accepted)
	require.Equal(t, rejection.CodeRateLimitExceeded, outcome.Rejection.Code())
}

// TestDispatch_S6_AIAutonomousExecution exercises an AI actor attempting
// EXECUTE_COMMAND with and without an automation-policy grant.
func TestDispatch_S6_AIAutonomousExecution(t *testing.T) {
	pp := providers.NewInMemoryPermissionProvider()
	pp.MapIntent(stubIntent, "stub.order.place")
	pp.SetGrants("ai-1", tenantID, providers.ScopeGrant{Permission: "stub.order.place", BusinessID: tenantID, BranchID: ""})

	scope := bizcontext.NewTenantScope().GrantAllBranches(tenantID)
	deps := guard.Deps{
		TenantScopes: func(actorID string) *bizcontext.TenantScope { return scope },
	}
	p := guard.Providers{Permission: pp}

	d, c := newDispatcher(t, deps, p)
	bizCtx := activeBizCtx()

	withoutPolicy, err := command.New(command.Params{
		Intent:           stubIntent,
		TenantID:         tenantID,
		ActorKind:        bizcontext.ActorAI,
		ActorID:          "ai-1",
		IssuedAt:         c(),
		ScopeRequirement: bizcontext.ScopeBusinessAllowed,
		ActorRequirement: bizcontext.ActorRequired,
		Payload: map[string]interface{}{
			"ai_action":    "EXECUTE_COMMAND",
			"ai_operation": "reorder_stock",
		},
	})
	require.NoError(t, err)
	outcome := d.Dispatch(context.Background(), withoutPolicy, bizCtx)
	require.False(t, outcome.Accepted)
	require.Equal(t, rejection.CodeAIExecutionForbidden, outcome.Rejection.Code())

	withPolicy, err := command.New(command.Params{
		Intent:           stubIntent,
		TenantID:         tenantID,
		ActorKind:        bizcontext.ActorAI,
		ActorID:          "ai-1",
		IssuedAt:         c(),
		ScopeRequirement: bizcontext.ScopeBusinessAllowed,
		ActorRequirement: bizcontext.ActorRequired,
		Payload: map[string]interface{}{
			"ai_action":                 "EXECUTE_COMMAND",
			"ai_operation":              "reorder_stock",
			"ai_has_automation_policy": true,
		},
	})
	require.NoError(t, err)
	accepted := d.Dispatch(context.Background(), withPolicy, bizCtx)
	require.True(t, accepted.Accepted)
}

// TestDispatch_S7_FeatureFlagBranchOverride: a business-wide flag enabled,
// overridden disabled at one branch.
func TestDispatch_S7_FeatureFlagBranchOverride(t *testing.T) {
	flags := providers.NewInMemoryFeatureFlagProvider()
	flags.SetFlags(tenantID,
		providers.Flag{FlagKey: "STUB_ORDERING", TenantID: tenantID, BranchID: "", Status: providers.FlagEnabled, CreatedAt: time.Unix(1, 0)},
		providers.Flag{FlagKey: "STUB_ORDERING", TenantID: tenantID, BranchID: branchB1, Status: providers.FlagDisabled, CreatedAt: time.Unix(2, 0)},
	)
	pp := providers.NewInMemoryPermissionProvider()
	pp.MapIntent(stubIntent, "stub.order.place")
	pp.SetGrants("human-1", tenantID,
		providers.ScopeGrant{Permission: "stub.order.place", BusinessID: tenantID, BranchID: branchB1},
		providers.ScopeGrant{Permission: "stub.order.place", BusinessID: tenantID, BranchID: branchB2},
	)
	scope := bizcontext.NewTenantScope().GrantAllBranches(tenantID)

	deps := guard.Deps{
		IntentToFlagKey: func(intent string) (string, bool) { return "STUB_ORDERING", true },
		TenantScopes:    func(actorID string) *bizcontext.TenantScope { return scope },
	}
	p := guard.Providers{FeatureFlag: flags, Permission: pp}

	d, c := newDispatcher(t, deps, p)

	bizCtxBranch1 := activeBizCtx(branchB1, branchB2)
	disabled := d.Dispatch(context.Background(), humanCommand(t, branchB1, c()), bizCtxBranch1)
	require.False(t, disabled.Accepted)
	require.Equal(t, rejection.CodeFeatureDisabled, disabled.Rejection.Code())

	bizCtxBranch2 := activeBizCtx(branchB2, branchB1)
	bizCtxBranch2.SetBranch(branchB2)
	enabled := d.Dispatch(context.Background(), humanCommand(t, branchB2, c()), bizCtxBranch2)
	require.True(t, enabled.Accepted)
}

// TestDispatch_RecordsRejectionsForAnomalyDetection is the regression test
// for the dispatcher's rejection-recording fix: a command repeatedly
// rejected by a later guard still reaches the anomaly detector as a
// rejected activity sample, so the repeated-rejections rule can fire on a
// later dispatch even though the Anomaly guard itself runs before the
// rejecting guard and would otherwise never see it.
func TestDispatch_RecordsRejectionsForAnomalyDetection(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	cfg := security.DefaultAnomalyConfig()
	cfg.RepeatedRejections = 2
	cfg.HighVelocityCount = 1000
	detector := security.NewAnomalyDetector(clock.Fixed(now), cfg)

	// No permission provider configured: every dispatch is rejected by the
	// Permission guard (position 8), well after Anomaly (position 5) runs
	// and after TenantIsolation/RateLimit/FeatureFlag/ActorScope all pass.
	scope := bizcontext.NewTenantScope().GrantAllBranches(tenantID)
	deps := guard.Deps{
		AnomalyDetector: detector,
		TenantScopes:    func(actorID string) *bizcontext.TenantScope { return scope },
	}
	d, c := newDispatcher(t, deps, guard.Providers{})
	bizCtx := activeBizCtx()

	var severities []security.Severity
	for i := 0; i < 3; i++ {
		cmd := humanCommand(t, "", c())
		outcome := d.Dispatch(context.Background(), cmd, bizCtx)
		require.False(t, outcome.Accepted)
		severities = append(severities, outcome.AnomalySeverity)
	}

	// The first two rejections are only recorded after Permission denies,
	// so Anomaly itself (running earlier in the same dispatch) cannot see
	// them yet; the third dispatch's Anomaly guard observes both prior
	// rejections recorded by the dispatcher and returns WARN.
	require.Equal(t, security.SeverityWarn, severities[2])
}
