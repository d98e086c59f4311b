package guard

import (
	"context"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
)

// ActorScope is guard 7: checks the context's actor-authorization hooks.
// Hook absence is permissive; hook exceptions are not modeled (Go hooks
// don't panic here) but a false result fails closed. Runs before
// Permission per the preserved reference ordering (§9 design notes).
func ActorScope(_ context.Context, cmd command.Command, bizCtx *bizcontext.BusinessContext, _ Deps, _ Providers) (rejection.Rejection, bool) {
	if cmd.ActorRequirement() == bizcontext.SystemAllowed && cmd.ActorKind() == bizcontext.ActorSystem {
		return allow()
	}
	if cmd.ActorID() == "" {
		return deny(rejection.New(rejection.CodeActorRequiredMissing, "actor id is required for this command", "actor_scope"))
	}
	if bizCtx == nil {
		return allow()
	}
	if !bizCtx.AuthorizedForBusiness(cmd.ActorID()) {
		return deny(rejection.New(rejection.CodeActorUnauthorizedBiz, "actor is not authorized for this business", "actor_scope"))
	}
	if cmd.HasBranch() && !bizCtx.AuthorizedForBranch(cmd.ActorID(), cmd.BranchID()) {
		return deny(rejection.New(rejection.CodeActorUnauthorizedBranch, "actor is not authorized for this branch", "actor_scope"))
	}
	return allow()
}
