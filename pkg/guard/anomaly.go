package guard

import (
	"context"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
	"github.com/Majorsoln/BOS-sub001/pkg/security"
)

// Anomaly is guard 5: only BLOCK severity denies; WARN allows but is
// surfaced through deps.AnomalyOut for the dispatcher's outcome.
func Anomaly(_ context.Context, cmd command.Command, _ *bizcontext.BusinessContext, deps Deps, _ Providers) (rejection.Rejection, bool) {
	if deps.AnomalyDetector == nil {
		return allow()
	}
	severity := deps.AnomalyDetector.Record(cmd.ActorID(), cmd.TenantID(), cmd.BranchID(), cmd.Intent(), false)
	if deps.AnomalyOut != nil {
		*deps.AnomalyOut = severity
	}
	if severity == security.SeverityBlock {
		return deny(rejection.New(rejection.CodeSecurityAnomalyDetected, "activity pattern blocked by anomaly policy", "anomaly_detector"))
	}
	return allow()
}
