package security

import (
	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
)

// IsolationResult is the outcome of a tenant-isolation check. Denied
// messages are deliberately generic: callers must not interpolate the
// business_id or branch_id the actor was denied access to, since that
// would leak a cross-tenant identifier to the caller.
type IsolationResult struct {
	Allowed bool
	Message string
}

// CheckTenantIsolation verifies scope covers (businessID, branchID). An
// empty branchID skips the branch-level check. The message on denial is a
// fixed string — it never echoes businessID or branchID.
func CheckTenantIsolation(scope *bizcontext.TenantScope, businessID, branchID string) IsolationResult {
	if scope == nil || !scope.HasTenant(businessID) {
		return IsolationResult{Allowed: false, Message: "actor is not authorized for the requested business"}
	}
	if branchID != "" && !scope.HasBranch(businessID, branchID) {
		return IsolationResult{Allowed: false, Message: "actor is not authorized for the requested branch"}
	}
	return IsolationResult{Allowed: true}
}
