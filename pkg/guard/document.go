package guard

import (
	"context"
	"sort"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/document"
	"github.com/Majorsoln/BOS-sub001/pkg/providers"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
)

// documentFlagKey is the fixed feature-flag key gating guard 10.
const documentFlagKey = "ENABLE_DOCUMENT_DESIGNER"

// docTypeKey is the payload field naming the document type a command
// targets; commands without it bypass this guard entirely.
const docTypeKey = "doc_type"

// Document is guard 10: resolves the active template for
// (tenant, branch, doc_type) with precedence ACTIVE > newer created_at >
// template_id, then validates the command payload against it.
func Document(ctx context.Context, cmd command.Command, _ *bizcontext.BusinessContext, _ Deps, p Providers) (rejection.Rejection, bool) {
	if cmd.ActorRequirement() == bizcontext.SystemAllowed && cmd.ActorKind() == bizcontext.ActorSystem {
		return allow()
	}
	payload := cmd.Payload()
	docType, ok := payload[docTypeKey].(string)
	if !ok || docType == "" {
		return allow()
	}
	if p.Document == nil {
		return allow()
	}
	if p.FeatureFlag != nil {
		flags, err := p.FeatureFlag.FlagsForTenant(ctx, cmd.TenantID())
		if err == nil {
			status, found := resolveFlagStatus(flags, documentFlagKey, cmd.BranchID())
			if !found || status == providers.FlagDisabled {
				if found {
					return deny(rejection.New(rejection.CodeDocumentFeatureDisabled, "document designer is disabled for this tenant/branch", "document"))
				}
				return allow()
			}
		}
	}

	templates, err := p.Document.TemplatesForTenant(ctx, cmd.TenantID())
	if err != nil {
		return allow() // governance skip: provider failure fails open
	}

	tmpl, found := selectTemplate(templates, cmd.BranchID(), docType)
	if !found {
		tmpl = document.BuiltinDefault(docType)
	}

	if err := document.ValidateRequiredFields(tmpl, payload); err != nil {
		return deny(rejection.New(rejection.CodeDocumentTemplateInvalid, err.Error(), "document"))
	}
	return allow()
}

// selectTemplate picks the template per §4.2 row 10's precedence rule:
// branch-scope preferred over business-scope; within a scope, ACTIVE >
// newer created_at > template_id tiebreak.
func selectTemplate(templates []providers.DocumentTemplate, branchID, docType string) (providers.DocumentTemplate, bool) {
	branchCandidates := filterTemplates(templates, branchID, docType)
	if branchID != "" && len(branchCandidates) > 0 {
		return rankTemplates(branchCandidates)[0], true
	}
	bizCandidates := filterTemplates(templates, "", docType)
	if len(bizCandidates) > 0 {
		return rankTemplates(bizCandidates)[0], true
	}
	return providers.DocumentTemplate{}, false
}

func filterTemplates(templates []providers.DocumentTemplate, branchID, docType string) []providers.DocumentTemplate {
	var out []providers.DocumentTemplate
	for _, t := range templates {
		if t.DocType == docType && t.BranchID == branchID {
			out = append(out, t)
		}
	}
	return out
}

func rankTemplates(templates []providers.DocumentTemplate) []providers.DocumentTemplate {
	sort.Slice(templates, func(i, j int) bool {
		a, b := templates[i], templates[j]
		if a.Active != b.Active {
			return a.Active
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.TemplateID < b.TemplateID
	})
	return templates
}
