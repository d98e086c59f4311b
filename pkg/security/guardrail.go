package security

// AIAction is the closed classification of what an AI actor is attempting.
type AIAction string

const (
	AIAnalyze        AIAction = "ANALYZE"
	AIRecommend      AIAction = "RECOMMEND"
	AISimulate       AIAction = "SIMULATE"
	AIFlagAnomaly    AIAction = "FLAG_ANOMALY"
	AIPrepareCommand AIAction = "PREPARE_COMMAND"
	AIExecuteCommand AIAction = "EXECUTE_COMMAND"
)

// forbiddenOperations is a fixed set AI may never perform regardless of
// any automation-policy grant.
var forbiddenOperations = map[string]bool{
	"payment_authorization":  true,
	"contract_signing":       true,
	"borrowing":              true,
	"deletion":               true,
	"cross_tenant_access":    true,
	"staff_changes":          true,
	"historical_record_edit": true,
}

// GuardrailRequest carries what the AI guardrail needs to decide.
type GuardrailRequest struct {
	Action               AIAction
	OperationName        string
	CrossTenant          bool
	HasAutomationPolicy  bool
}

// GuardrailResult is the guardrail's decision.
type GuardrailResult struct {
	Allowed               bool
	RequiresHumanApproval bool
	Message               string
}

// EvaluateGuardrail classifies and decides an AI action per §4.5. Cross-
// tenant AI attempts are unconditional denials; a fixed forbidden-operation
// set denies regardless of policy; PREPARE_COMMAND is allowed but flagged;
// EXECUTE_COMMAND requires an explicit automation-policy grant.
func EvaluateGuardrail(req GuardrailRequest) GuardrailResult {
	if req.CrossTenant {
		return GuardrailResult{Allowed: false, Message: "AI actors may not act across tenants"}
	}
	if forbiddenOperations[req.OperationName] {
		return GuardrailResult{Allowed: false, Message: "operation is permanently forbidden to AI actors"}
	}

	switch req.Action {
	case AIAnalyze, AIRecommend, AISimulate, AIFlagAnomaly:
		return GuardrailResult{Allowed: true}
	case AIPrepareCommand:
		return GuardrailResult{Allowed: true, RequiresHumanApproval: true}
	case AIExecuteCommand:
		if req.HasAutomationPolicy {
			return GuardrailResult{Allowed: true}
		}
		return GuardrailResult{Allowed: false, Message: "autonomous execution requires an automation policy grant"}
	default:
		return GuardrailResult{Allowed: false, Message: "unrecognised AI action"}
	}
}
