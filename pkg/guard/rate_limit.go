package guard

import (
	"context"
	"fmt"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
)

// RateLimit is guard 4: sliding-window check per (actor_id, tenant_id).
func RateLimit(_ context.Context, cmd command.Command, _ *bizcontext.BusinessContext, deps Deps, _ Providers) (rejection.Rejection, bool) {
	if deps.RateLimiter == nil {
		return allow()
	}
	result := deps.RateLimiter.Check(cmd.ActorID(), cmd.TenantID(), cmd.ActorKind())
	if !result.Allowed {
		msg := fmt.Sprintf("rate limit exceeded, retry after %.0fs", result.RetryAfter.Seconds())
		return deny(rejection.New(rejection.CodeRateLimitExceeded, msg, "rate_limiter"))
	}
	return allow()
}
