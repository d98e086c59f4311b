package httpctx

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
)

// ErrorEnvelope is the wire shape of a Rejection, taken verbatim per §6.
type ErrorEnvelope struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	PolicyName string `json:"policy_name"`
}

// StatusFor maps a rejection code to its HTTP status per the table in §6.
func StatusFor(code rejection.Code) int {
	s := string(code)
	switch {
	case strings.HasPrefix(s, "PERMISSION_"),
		strings.HasPrefix(s, "ACTOR_"),
		s == string(rejection.CodeAIExecutionForbidden):
		return http.StatusForbidden
	case strings.HasPrefix(s, "INVALID_"),
		s == string(rejection.CodeBusinessIDMismatch),
		strings.HasPrefix(s, "BRANCH_"):
		return http.StatusBadRequest
	case s == string(rejection.CodeRateLimitExceeded):
		return http.StatusTooManyRequests
	case s == string(rejection.CodeSystemDegraded), s == string(rejection.CodeFeatureDisabled):
		return http.StatusServiceUnavailable
	case s == string(rejection.CodeInsufficientStock),
		s == string(rejection.CodeSessionNotOpen),
		s == string(rejection.CodeUnbalancedEntry),
		s == string(rejection.CodeDuplicateRequest),
		s == string(rejection.CodeFloatLimitExceeded):
		return http.StatusConflict
	default:
		return http.StatusConflict
	}
}

// WriteRejection writes r as the JSON error envelope with the mapped
// status code, and the Retry-After header for RATE_LIMIT_EXCEEDED.
func WriteRejection(w http.ResponseWriter, r rejection.Rejection, retryAfterSeconds int) {
	status := StatusFor(r.Code())
	if r.Code() == rejection.CodeRateLimitExceeded && retryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Code:       string(r.Code()),
		Message:    r.Message(),
		PolicyName: r.PolicyName(),
	})
}
