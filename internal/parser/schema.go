package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// InvoiceSchemaName names the structured-output contract sent with every completion request.
const InvoiceSchemaName = "invoice_data"

// InvoiceJSONSchema returns the response contract: an object with four optional
// string properties and nothing else. A fresh map is returned on every call.
func InvoiceJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":          map[string]any{"type": "string"},
			"account":       map[string]any{"type": "string"},
			"amount":        map[string]any{"type": "string"},
			"communication": map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	}
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func invoiceSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(InvoiceJSONSchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("invoice_data.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("invoice_data.json")
	})
	return compiledSchema, compileErr
}

// ValidateInvoiceJSON checks data against InvoiceJSONSchema.
func ValidateInvoiceJSON(data []byte) error {
	schema, err := invoiceSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
