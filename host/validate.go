package host

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/machinefabric/flownode-go/manifest"
	"github.com/machinefabric/flownode-go/wire"
)

// SchemaValidationError reports a document that failed a node's declared
// JSON schema.
type SchemaValidationError struct {
	NodeType string
	Field    string // "config" or "input"
	Details  string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("schema validation failed for %s %s: %s", e.NodeType, e.Field, e.Details)
}

// ValidateDocument validates a JSON document against a schema expressed as a
// structured value. A nil schema or empty document passes.
func ValidateDocument(schema map[string]interface{}, doc []byte) error {
	if schema == nil || len(doc) == 0 {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return fmt.Errorf("%s", strings.Join(details, "; "))
	}

	return nil
}

// ValidateRequest checks a request against the node's declared schemas before
// it ever reaches the guest. Config is always checked; input is checked only
// for prep, since exec and post carry intermediate phase output rather than
// the declared input shape.
func ValidateRequest(def *manifest.NodeDefinition, req *wire.Request) error {
	if def == nil {
		return nil
	}

	if err := ValidateDocument(def.ConfigSchema, req.Config); err != nil {
		return &SchemaValidationError{NodeType: def.Type, Field: "config", Details: err.Error()}
	}

	if req.Function == "prep" {
		if err := ValidateDocument(def.InputSchema, req.Input); err != nil {
			return &SchemaValidationError{NodeType: def.Type, Field: "input", Details: err.Error()}
		}
	}

	return nil
}
