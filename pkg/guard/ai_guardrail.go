package guard

import (
	"context"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
	"github.com/Majorsoln/BOS-sub001/pkg/security"
)

// aiActionKey and aiOperationKey name the payload fields an AI-originated
// command carries to describe its intended action classification.
const (
	aiActionKey            = "ai_action"
	aiOperationKey         = "ai_operation"
	aiAutomationPolicyKey  = "ai_has_automation_policy"
	aiCrossTenantKey       = "ai_cross_tenant"
)

// AIGuardrail is guard 11: restricts AI actors to advisory actions absent
// an explicit automation policy grant; a fixed operation set is always
// forbidden. Non-AI actors bypass.
func AIGuardrail(_ context.Context, cmd command.Command, _ *bizcontext.BusinessContext, _ Deps, _ Providers) (rejection.Rejection, bool) {
	if cmd.ActorKind() != bizcontext.ActorAI {
		return allow()
	}

	payload := cmd.Payload()
	action, _ := payload[aiActionKey].(string)
	operation, _ := payload[aiOperationKey].(string)
	hasPolicy, _ := payload[aiAutomationPolicyKey].(bool)
	crossTenant, _ := payload[aiCrossTenantKey].(bool)

	result := security.EvaluateGuardrail(security.GuardrailRequest{
		Action:              security.AIAction(action),
		OperationName:       operation,
		CrossTenant:         crossTenant,
		HasAutomationPolicy: hasPolicy,
	})
	if !result.Allowed {
		return deny(rejection.New(rejection.CodeAIExecutionForbidden, result.Message, "ai_guardrail"))
	}
	return allow()
}
