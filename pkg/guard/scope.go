package guard

import (
	"context"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
)

// Scope is guard 2: defence in depth with the dispatcher's own §4.1 step 2
// structural check. BRANCH_REQUIRED with no branch id rejects; otherwise
// pass regardless of branch presence.
func Scope(_ context.Context, cmd command.Command, _ *bizcontext.BusinessContext, _ Deps, _ Providers) (rejection.Rejection, bool) {
	if cmd.ScopeRequirement() == bizcontext.ScopeBranchRequired && !cmd.HasBranch() {
		return deny(rejection.New(rejection.CodeBranchRequiredMissing, "this command requires an active branch", "scope_guard"))
	}
	return allow()
}
