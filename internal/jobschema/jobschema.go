// Package jobschema validates untrusted job payloads before they reach the
// pricing engine. The engine itself accepts any number; the schema is where
// negative and missing values are rejected.
package jobschema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Simplici0/printquote/internal/pricing"
)

const schemaURL = "job.schema.json"

// maxAmount bounds every numeric field so the breakdown stays finite.
const maxAmount = 1e9

// ValidationError reports a payload that does not match the job schema.
type ValidationError struct {
	Cause error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid job: %v", e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Build returns the job JSON-Schema as a generic map.
func Build() map[string]any {
	props := map[string]any{
		"id":                     map[string]any{"type": "string"},
		"name":                   map[string]any{"type": "string"},
		"dimensions":             dimensionsProp(),
		"printTime":              amountProp(),
		"filamentType":           map[string]any{"type": "string", "minLength": 1},
		"filamentCostPerKg":      amountProp(),
		"filamentWeight":         amountProp(),
		"printerName":            map[string]any{"type": "string"},
		"powerConsumption":       amountProp(),
		"electricityPricePerKwh": amountProp(),
		"laborRate":              amountProp(),
		"maintenanceBuffer":      amountProp(),
		"packagingCost":          amountProp(),
		"shippingCost":           amountProp(),
		"markup":                 amountProp(),
	}
	required := []string{
		"printTime",
		"filamentType",
		"filamentCostPerKg",
		"filamentWeight",
		"powerConsumption",
		"electricityPricePerKwh",
		"laborRate",
		"maintenanceBuffer",
		"packagingCost",
		"shippingCost",
		"markup",
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func amountProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0, "maximum": maxAmount}
}

func dimensionsProp() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"length": amountProp(),
			"width":  amountProp(),
			"height": amountProp(),
			"volume": amountProp(),
		},
		"required": []string{"length", "width", "height", "volume"},
	}
}

// Validator checks job payloads against the compiled schema. It is safe for
// concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// New compiles the job schema.
func New() (*Validator, error) {
	b, err := json.Marshal(Build())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate checks raw JSON against the job schema.
func (v *Validator) Validate(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Cause: fmt.Errorf("unmarshal job: %w", err)}
	}
	if err := v.schema.Validate(doc); err != nil {
		return &ValidationError{Cause: err}
	}
	return nil
}

// Decode validates data and decodes it into a job.
func (v *Validator) Decode(data []byte) (pricing.Job, error) {
	if err := v.Validate(data); err != nil {
		return pricing.Job{}, err
	}
	var job pricing.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return pricing.Job{}, &ValidationError{Cause: fmt.Errorf("decode job: %w", err)}
	}
	return job, nil
}
