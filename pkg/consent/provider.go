package consent

import (
	"context"
	"time"

	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/providers"
)

// ComplianceProvider adapts a consent Store into a
// providers.ComplianceProvider: commands whose intent requires a named
// consent type are rejected unless the acting subject holds a currently
// valid (granted, unexpired, unrevoked) record of that type for the
// tenant.
type ComplianceProvider struct {
	store           *Store
	requiredConsent map[string]string // intent -> consent type
	now             func() time.Time
}

// NewComplianceProvider builds a ComplianceProvider over store.
// requiredConsent maps a command intent to the consent type that must be
// valid before the command may proceed; intents absent from the map are
// unconstrained.
func NewComplianceProvider(store *Store, requiredConsent map[string]string, now func() time.Time) *ComplianceProvider {
	if now == nil {
		now = time.Now
	}
	return &ComplianceProvider{store: store, requiredConsent: requiredConsent, now: now}
}

// Evaluate implements providers.ComplianceProvider.
func (p *ComplianceProvider) Evaluate(_ context.Context, cmd command.Command, tenantID, _ string) (providers.ComplianceResult, error) {
	consentType, required := p.requiredConsent[cmd.Intent()]
	if !required {
		return providers.ComplianceResult{Allowed: true}, nil
	}

	record, ok := p.store.Get(cmd.ActorID(), tenantID, consentType)
	if !ok || !record.IsValid(p.now()) {
		return providers.ComplianceResult{
			Allowed: false,
			Violations: []providers.ComplianceViolation{{
				RuleID:  "consent." + consentType,
				Message: "missing or expired consent: " + consentType,
			}},
		}, nil
	}
	return providers.ComplianceResult{Allowed: true}, nil
}
