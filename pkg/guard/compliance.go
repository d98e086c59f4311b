package guard

import (
	"context"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/providers"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
)

// complianceFlagKey is the fixed feature-flag key gating guard 9.
const complianceFlagKey = "ENABLE_COMPLIANCE_ENGINE"

// Compliance is guard 9: only invoked when the compliance feature flag is
// enabled for the tenant; the first violation's message surfaces.
func Compliance(ctx context.Context, cmd command.Command, _ *bizcontext.BusinessContext, deps Deps, p Providers) (rejection.Rejection, bool) {
	if cmd.ActorRequirement() == bizcontext.SystemAllowed && cmd.ActorKind() == bizcontext.ActorSystem {
		return allow()
	}
	if p.Compliance == nil {
		return allow()
	}
	if p.FeatureFlag == nil {
		return allow()
	}
	flags, err := p.FeatureFlag.FlagsForTenant(ctx, cmd.TenantID())
	if err != nil {
		return allow() // governance skip: flag lookup failure fails open
	}
	status, found := resolveFlagStatus(flags, complianceFlagKey, cmd.BranchID())
	if !found || status != providers.FlagEnabled {
		return allow()
	}

	result, err := p.Compliance.Evaluate(ctx, cmd, cmd.TenantID(), cmd.BranchID())
	if err != nil {
		return allow() // governance skip: provider failure fails open
	}
	if !result.Allowed && len(result.Violations) > 0 {
		return deny(rejection.New(rejection.CodeComplianceViolation, result.Violations[0].Message, "compliance"))
	}
	return allow()
}
