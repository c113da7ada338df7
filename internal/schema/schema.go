// Package schema provides optional JSON-schema validation of tool_use
// params. Validation is advisory: a failing tool call is reported, never
// suppressed, because the marker protocol is forgiving by design.
package schema

import (
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
)

// Validator checks tool_use params against per-tool JSON schemas.
type Validator struct {
	log      *slog.Logger
	resolved map[string]*jsonschema.Resolved
}

// NewValidator resolves the given schemas. Returns an error if any schema
// is itself invalid; an empty or nil map yields a validator that accepts
// everything.
func NewValidator(log *slog.Logger, schemas map[string]*jsonschema.Schema) (*Validator, error) {
	resolved := make(map[string]*jsonschema.Resolved, len(schemas))

	for tool, s := range schemas {
		rs, err := s.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("resolve schema for tool %q: %w", tool, err)
		}

		resolved[tool] = rs
	}

	return &Validator{
		log:      log.With("component", "schema_validator"),
		resolved: resolved,
	}, nil
}

// Validate checks the params of one tool invocation. Tools without a
// registered schema always pass; params arrive as strings because the
// marker protocol carries no other value type.
func (v *Validator) Validate(tool string, params map[string]string) error {
	rs, ok := v.resolved[tool]
	if !ok {
		return nil
	}

	instance := make(map[string]any, len(params))
	for key, value := range params {
		instance[key] = value
	}

	if err := rs.Validate(instance); err != nil {
		v.log.Debug("Tool params failed schema validation", "tool", tool, "error", err)

		return fmt.Errorf("tool %q params: %w", tool, err)
	}

	return nil
}

// ArgsSchema builds an object schema for the named arguments, each typed
// as a string (the only value type the marker protocol carries) and
// required.
func ArgsSchema(names ...string) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(names))

	for _, name := range names {
		properties[name] = &jsonschema.Schema{Type: "string"}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   names,
	}
}
