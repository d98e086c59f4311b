package guard

import (
	"context"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
)

// Permission is guard 8: deny-by-default. The intent must map to a
// required permission; the actor must hold a role granting it. Business-
// scope grants authorize business-scoped commands only; branch-scoped
// commands require a branch-scope grant for the same branch.
func Permission(ctx context.Context, cmd command.Command, _ *bizcontext.BusinessContext, _ Deps, p Providers) (rejection.Rejection, bool) {
	if cmd.ActorRequirement() == bizcontext.SystemAllowed && cmd.ActorKind() == bizcontext.ActorSystem {
		return allow()
	}
	if p.Permission == nil {
		return deny(rejection.New(rejection.CodePermissionMappingMissing, "no permission provider configured", "permission"))
	}

	required, ok, err := p.Permission.PermissionForIntent(ctx, cmd.Intent())
	if err != nil || !ok {
		return deny(rejection.New(rejection.CodePermissionMappingMissing, "intent has no permission mapping", "permission"))
	}

	grants, err := p.Permission.GrantsForActor(ctx, cmd.ActorID(), cmd.TenantID())
	if err != nil {
		return deny(rejection.New(rejection.CodePermissionDenied, "actor does not hold the required permission", "permission"))
	}

	hasBusinessGrant := false
	hasBranchGrant := false
	for _, g := range grants {
		if g.Permission != required || g.BusinessID != cmd.TenantID() {
			continue
		}
		if g.BranchID == "" {
			hasBusinessGrant = true
		} else if g.BranchID == cmd.BranchID() {
			hasBranchGrant = true
		}
	}

	if cmd.HasBranch() {
		if !hasBranchGrant {
			return deny(rejection.New(rejection.CodePermissionScopeBranch, "actor's grant does not cover this branch", "permission"))
		}
		return allow()
	}

	if !hasBusinessGrant {
		return deny(rejection.New(rejection.CodePermissionDenied, "actor does not hold the required permission", "permission"))
	}
	return allow()
}
