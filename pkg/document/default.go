package document

import "github.com/Majorsoln/BOS-sub001/pkg/providers"

// BuiltinDefault returns the fallback template used when a tenant has
// configured no template for docType: it requires nothing beyond what the
// command already carries.
func BuiltinDefault(docType string) providers.DocumentTemplate {
	return providers.DocumentTemplate{
		TemplateID:     "builtin-default",
		DocType:        docType,
		Active:         true,
		RequiredFields: nil,
	}
}
