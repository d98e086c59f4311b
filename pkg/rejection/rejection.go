// Package rejection defines the structured denial value returned by the
// guard stack and dispatcher. A Rejection is never a Go error: it is a
// first-class outcome value carried inside an Outcome.
package rejection

// Code is the closed enumeration of canonical rejection codes. New codes
// are added here, never invented ad hoc at call sites.
type Code string

const (
	// Structural / context validation (dispatcher §4.1).
	CodeInvalidCommandStructure Code = "INVALID_COMMAND_STRUCTURE"
	CodeInvalidCommandType      Code = "INVALID_COMMAND_TYPE"
	CodeInvalidNamespace        Code = "INVALID_NAMESPACE"
	CodeNoActiveContext         Code = "NO_ACTIVE_CONTEXT"
	CodeBusinessSuspended       Code = "BUSINESS_SUSPENDED"
	CodeBusinessClosed          Code = "BUSINESS_CLOSED"
	CodeBusinessLegalHold       Code = "BUSINESS_LEGAL_HOLD"
	CodeBusinessIDMismatch      Code = "BUSINESS_ID_MISMATCH"
	CodeBranchRequiredMissing   Code = "BRANCH_REQUIRED_MISSING"
	CodeBranchNotInBusiness     Code = "BRANCH_NOT_IN_BUSINESS"
	CodeInvalidContext          Code = "INVALID_CONTEXT"

	// Guard stack (§4.2).
	CodeSystemDegraded           Code = "SYSTEM_DEGRADED"
	CodePermissionDenied         Code = "PERMISSION_DENIED"
	CodePermissionMappingMissing Code = "PERMISSION_MAPPING_MISSING"
	CodePermissionScopeBranch    Code = "PERMISSION_SCOPE_REQUIRED_BRANCH"
	CodeRateLimitExceeded        Code = "RATE_LIMIT_EXCEEDED"
	CodeSecurityAnomalyDetected  Code = "SECURITY_ANOMALY_DETECTED"
	CodeFeatureDisabled          Code = "FEATURE_DISABLED"
	CodeActorRequiredMissing     Code = "ACTOR_REQUIRED_MISSING"
	CodeActorInvalid             Code = "ACTOR_INVALID"
	CodeActorUnauthorizedBiz     Code = "ACTOR_UNAUTHORIZED_BUSINESS"
	CodeActorUnauthorizedBranch  Code = "ACTOR_UNAUTHORIZED_BRANCH"
	CodeComplianceViolation      Code = "COMPLIANCE_VIOLATION"
	CodeDocumentTemplateNotFound Code = "DOCUMENT_TEMPLATE_NOT_FOUND"
	CodeDocumentTemplateInvalid  Code = "DOCUMENT_TEMPLATE_INVALID"
	CodeDocumentFeatureDisabled  Code = "DOCUMENT_FEATURE_DISABLED"
	CodeAIExecutionForbidden     Code = "AI_EXECUTION_FORBIDDEN"

	// Engine-owned codes (illustrative engines; not exhaustive — engines may
	// define their own as long as they are registered in their own closed set).
	CodeInsufficientStock  Code = "INSUFFICIENT_STOCK"
	CodeSessionNotOpen     Code = "SESSION_NOT_OPEN"
	CodeUnbalancedEntry    Code = "UNBALANCED_ENTRY"
	CodeDuplicateRequest   Code = "DUPLICATE_REQUEST"
	CodeFloatLimitExceeded Code = "FLOAT_LIMIT_EXCEEDED"
)

// Rejection is an immutable (code, message, policy_name) tuple. Construct
// with New; there are no exported mutator methods.
type Rejection struct {
	code       Code
	message    string
	policyName string
}

// New builds a Rejection. policyName identifies the guard or engine rule
// responsible for the denial (e.g. "resilience", "rate_limiter",
// "inventory.lot_ledger").
func New(code Code, message, policyName string) Rejection {
	return Rejection{code: code, message: message, policyName: policyName}
}

func (r Rejection) Code() Code         { return r.code }
func (r Rejection) Message() string    { return r.message }
func (r Rejection) PolicyName() string { return r.policyName }

// IsZero reports whether r is the zero-value "no rejection" sentinel.
func (r Rejection) IsZero() bool {
	return r.code == ""
}
