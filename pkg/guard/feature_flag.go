package guard

import (
	"context"
	"sort"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/providers"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
)

// FeatureFlag is guard 6: resolves the intent to a flag key, checks
// per-(tenant, branch) state with branch overriding business, and allows
// when no flag is mapped or none is found. Provider errors fail open.
func FeatureFlag(ctx context.Context, cmd command.Command, _ *bizcontext.BusinessContext, deps Deps, p Providers) (rejection.Rejection, bool) {
	if cmd.ActorKind() == bizcontext.ActorSystem {
		return allow()
	}
	if deps.IntentToFlagKey == nil {
		return allow()
	}
	flagKey, ok := deps.IntentToFlagKey(cmd.Intent())
	if !ok {
		return allow()
	}
	if p.FeatureFlag == nil {
		return allow()
	}

	flags, err := p.FeatureFlag.FlagsForTenant(ctx, cmd.TenantID())
	if err != nil {
		return allow() // governance skip: provider failure fails open
	}

	status, found := resolveFlagStatus(flags, flagKey, cmd.BranchID())
	if !found {
		return allow()
	}
	if status == providers.FlagDisabled {
		return deny(rejection.New(rejection.CodeFeatureDisabled, "feature is disabled for this tenant/branch", "feature_flag"))
	}
	return allow()
}

// resolveFlagStatus picks the effective status for flagKey against branchID
// (preferring a branch-scoped row over the business-wide row), resolving
// duplicate rows at the same (flag_key, branch_id) key deterministically:
// DISABLED dominates ENABLED; later CreatedAt then lexicographic FlagKey
// breaks remaining ties (per DESIGN NOTES: never invert DISABLED-dominance).
func resolveFlagStatus(flags []providers.Flag, flagKey, branchID string) (providers.FlagStatus, bool) {
	branchRow, branchFound := pickFlagRow(flags, flagKey, branchID)
	if branchID != "" && branchFound {
		return branchRow.Status, true
	}
	bizRow, bizFound := pickFlagRow(flags, flagKey, "")
	if bizFound {
		return bizRow.Status, true
	}
	return "", false
}

func pickFlagRow(flags []providers.Flag, flagKey, branchID string) (providers.Flag, bool) {
	var candidates []providers.Flag
	for _, f := range flags {
		if f.FlagKey == flagKey && f.BranchID == branchID {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return providers.Flag{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Status != b.Status {
			return a.Status == providers.FlagDisabled // DISABLED sorts first
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.FlagKey < b.FlagKey
	})
	return candidates[0], true
}
