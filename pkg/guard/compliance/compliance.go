// Package compliance is the reference ComplianceProvider: it evaluates a
// command against a loaded CEL rule bundle and reports violations. It
// mirrors the lineage's CEL-based policy decision point.
package compliance

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/policyloader"
	"github.com/Majorsoln/BOS-sub001/pkg/providers"
)

// Provider evaluates commands against a policyloader.Loader's active rule
// bundle using CEL. Rules with Action == "BLOCK" produce violations;
// "WARN"/"LOG" rules are evaluated but never deny.
type Provider struct {
	loader *policyloader.Loader
	env    *cel.Env
}

// New builds a Provider. The CEL environment exposes the command's intent,
// tenant id, branch id, actor kind, actor id, and payload map as variables
// so rule authors can write expressions like
// `intent == "inventory.stock.receive.request" && payload.qty > 10000`.
func New(loader *policyloader.Loader) (*Provider, error) {
	env, err := cel.NewEnv(
		cel.Variable("intent", cel.StringType),
		cel.Variable("tenant_id", cel.StringType),
		cel.Variable("branch_id", cel.StringType),
		cel.Variable("actor_kind", cel.StringType),
		cel.Variable("actor_id", cel.StringType),
		cel.Variable("payload", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("compliance: build cel env: %w", err)
	}
	return &Provider{loader: loader, env: env}, nil
}

// Evaluate implements providers.ComplianceProvider.
func (p *Provider) Evaluate(_ context.Context, cmd command.Command, tenantID, branchID string) (providers.ComplianceResult, error) {
	vars := map[string]interface{}{
		"intent":     cmd.Intent(),
		"tenant_id":  tenantID,
		"branch_id":  branchID,
		"actor_kind": string(cmd.ActorKind()),
		"actor_id":   cmd.ActorID(),
		"payload":    cmd.Payload(),
	}

	var violations []providers.ComplianceViolation
	for _, rule := range p.loader.ActiveRules() {
		if rule.Action != "BLOCK" {
			continue
		}
		ast, issues := p.env.Compile(rule.Expression)
		if issues != nil && issues.Err() != nil {
			return providers.ComplianceResult{}, fmt.Errorf("compliance: compile rule %s: %w", rule.ID, issues.Err())
		}
		prg, err := p.env.Program(ast)
		if err != nil {
			return providers.ComplianceResult{}, fmt.Errorf("compliance: program rule %s: %w", rule.ID, err)
		}
		out, _, err := prg.Eval(vars)
		if err != nil {
			return providers.ComplianceResult{}, fmt.Errorf("compliance: eval rule %s: %w", rule.ID, err)
		}
		violated, ok := out.Value().(bool)
		if ok && violated {
			violations = append(violations, providers.ComplianceViolation{
				RuleID:  rule.ID,
				Message: rule.Name,
			})
		}
	}

	return providers.ComplianceResult{
		Allowed:    len(violations) == 0,
		Violations: violations,
	}, nil
}
