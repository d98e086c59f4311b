package guard

import (
	"context"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
)

// Resilience is guard 1: writes require SystemHealth.Mode() == NORMAL;
// reads always pass.
func Resilience(_ context.Context, cmd command.Command, _ *bizcontext.BusinessContext, deps Deps, _ Providers) (rejection.Rejection, bool) {
	if !isWriteIntent(cmd) {
		return allow()
	}
	if deps.Health == nil || deps.Health.AllowsWrite() {
		return allow()
	}
	return deny(rejection.New(rejection.CodeSystemDegraded, "system is not accepting write commands", "resilience"))
}
