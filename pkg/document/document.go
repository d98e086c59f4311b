// Package document is the reference DocumentProvider support code: it
// validates that a command payload supplies every layout field a resolved
// template requires.
package document

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Majorsoln/BOS-sub001/pkg/providers"
)

// ValidateRequiredFields checks payload against tmpl's required-field list
// and, when tmpl.SchemaJSON is set, against the full JSON Schema.
func ValidateRequiredFields(tmpl providers.DocumentTemplate, payload map[string]interface{}) error {
	for _, field := range tmpl.RequiredFields {
		if _, ok := payload[field]; !ok {
			return fmt.Errorf("document: missing required field %q", field)
		}
	}

	if tmpl.SchemaJSON == "" {
		return nil
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(tmpl.TemplateID, strings.NewReader(tmpl.SchemaJSON)); err != nil {
		return fmt.Errorf("document: load schema: %w", err)
	}
	schema, err := compiler.Compile(tmpl.TemplateID)
	if err != nil {
		return fmt.Errorf("document: compile schema: %w", err)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("document: marshal payload: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("document: unmarshal payload: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("document: payload does not satisfy template schema: %w", err)
	}
	return nil
}
