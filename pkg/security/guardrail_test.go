package security_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Majorsoln/BOS-sub001/pkg/security"
)

func TestEvaluateGuardrail_CrossTenantAlwaysDenied(t *testing.T) {
	result := security.EvaluateGuardrail(security.GuardrailRequest{
		Action:              security.AIExecuteCommand,
		CrossTenant:         true,
		HasAutomationPolicy: true,
	})
	require.False(t, result.Allowed)
}

func TestEvaluateGuardrail_ForbiddenOperationDeniesEvenWithPolicy(t *testing.T) {
	result := security.EvaluateGuardrail(security.GuardrailRequest{
		Action:              security.AIExecuteCommand,
		OperationName:       "contract_signing",
		HasAutomationPolicy: true,
	})
	require.False(t, result.Allowed)
}

func TestEvaluateGuardrail_AdvisoryActionsAlwaysAllowed(t *testing.T) {
	for _, action := range []security.AIAction{
		security.AIAnalyze, security.AIRecommend, security.AISimulate, security.AIFlagAnomaly,
	} {
		result := security.EvaluateGuardrail(security.GuardrailRequest{Action: action})
		require.True(t, result.Allowed, "action %s should be allowed", action)
		require.False(t, result.RequiresHumanApproval)
	}
}

func TestEvaluateGuardrail_PrepareCommandAllowedButFlagged(t *testing.T) {
	result := security.EvaluateGuardrail(security.GuardrailRequest{Action: security.AIPrepareCommand})
	require.True(t, result.Allowed)
	require.True(t, result.RequiresHumanApproval)
}

func TestEvaluateGuardrail_ExecuteCommandRequiresAutomationPolicy(t *testing.T) {
	denied := security.EvaluateGuardrail(security.GuardrailRequest{Action: security.AIExecuteCommand})
	require.False(t, denied.Allowed)

	allowed := security.EvaluateGuardrail(security.GuardrailRequest{Action: security.AIExecuteCommand, HasAutomationPolicy: true})
	require.True(t, allowed.Allowed)
}

func TestEvaluateGuardrail_UnrecognisedActionDenied(t *testing.T) {
	result := security.EvaluateGuardrail(security.GuardrailRequest{Action: security.AIAction("SOMETHING_ELSE")})
	require.False(t, result.Allowed)
}
