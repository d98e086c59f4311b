package guard

import (
	"context"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
	"github.com/Majorsoln/BOS-sub001/pkg/security"
)

// TenantIsolation is guard 3: verifies the actor's TenantScope covers the
// target tenant/branch. SYSTEM actors bypass. Denial messages never carry
// cross-tenant identifiers.
func TenantIsolation(_ context.Context, cmd command.Command, _ *bizcontext.BusinessContext, deps Deps, _ Providers) (rejection.Rejection, bool) {
	if cmd.ActorKind() == bizcontext.ActorSystem {
		return allow()
	}
	if deps.TenantScopes == nil {
		return deny(rejection.New(rejection.CodePermissionDenied, "actor is not authorized for the requested business", "tenant_isolation"))
	}
	scope := deps.TenantScopes(cmd.ActorID())
	result := security.CheckTenantIsolation(scope, cmd.TenantID(), cmd.BranchID())
	if !result.Allowed {
		return deny(rejection.New(rejection.CodePermissionDenied, result.Message, "tenant_isolation"))
	}
	return allow()
}
