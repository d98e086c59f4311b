// Package guard implements the fixed, ordered policy guard stack (§4.2).
// Each guard is a pure function over (command, context, providers)
// returning allow (nil) or a Rejection; the first non-nil rejection wins.
package guard

import (
	"context"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/providers"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
	"github.com/Majorsoln/BOS-sub001/pkg/security"
)

// Providers bundles the optional provider set a guard may consult.
// Late-bound: a nil field means "absent" and each guard applies its own
// documented fail-open/fail-closed default for that case.
type Providers struct {
	Permission  providers.PermissionProvider
	FeatureFlag providers.FeatureFlagProvider
	Document    providers.DocumentProvider
	Compliance  providers.ComplianceProvider
}

// Deps bundles the security subsystem instances the guard stack shares
// with the rest of the dispatcher.
type Deps struct {
	Health           *security.SystemHealth
	RateLimiter      *security.RateLimiter
	AnomalyDetector  *security.AnomalyDetector
	TenantScopes     func(actorID string) *bizcontext.TenantScope
	IntentToFlagKey  func(intent string) (string, bool)
	FlagKeyForEngine func(engineName string) (string, bool)
	// AnomalyOut, when non-nil, receives the anomaly detector's severity
	// for this dispatch even when it did not deny (WARN is surfaced, not
	// swallowed). Allocated fresh per dispatch call by the caller.
	AnomalyOut *security.Severity
}

// Guard is one pipeline step.
type Guard func(ctx context.Context, cmd command.Command, bizCtx *bizcontext.BusinessContext, deps Deps, p Providers) (rejection.Rejection, bool)

// allow returns the "no rejection" result used by every guard.
func allow() (rejection.Rejection, bool) { return rejection.Rejection{}, false }

func deny(r rejection.Rejection) (rejection.Rejection, bool) { return r, true }

// Ordered is the fixed pipeline, positions 1 through 11 per §4.2.
var Ordered = []Guard{
	Resilience,
	Scope,
	TenantIsolation,
	RateLimit,
	Anomaly,
	FeatureFlag,
	ActorScope,
	Permission,
	Compliance,
	Document,
	AIGuardrail,
}

// Run executes the ordered stack and returns the first rejection, if any.
// deps.AnomalyOut, when set, receives the anomaly detector's result even
// when it did not deny, so the dispatcher can flag WARN-level anomalies in
// the outcome.
func Run(ctx context.Context, cmd command.Command, bizCtx *bizcontext.BusinessContext, deps Deps, p Providers) (rejection.Rejection, bool) {
	for _, g := range Ordered {
		if r, denied := g(ctx, cmd, bizCtx, deps, p); denied {
			return r, true
		}
	}
	return allow()
}

// isWriteIntent reports whether the command's action segment denotes a
// write. A command is a read when its second-to-last intent segment is
// exactly "query", "read", "list" or "get"; every other command, including
// one with fewer than two segments, is treated as a write.
func isWriteIntent(cmd command.Command) bool {
	segs := cmd.IntentSegments()
	if len(segs) < 2 {
		return true
	}
	action := segs[len(segs)-2]
	switch action {
	case "query", "read", "list", "get":
		return false
	default:
		return true
	}
}
