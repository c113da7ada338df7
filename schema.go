package agentbridge

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/agentwire/agent-bridge-go/internal/schema"
)

// Schema is a JSON Schema object for tool param validation.
type Schema = jsonschema.Schema

// ArgsSchema builds an object schema for the named tool arguments, each
// typed as a string (the only value type the marker protocol carries) and
// required. Use WithToolSchema to register it for a spawn.
var ArgsSchema = schema.ArgsSchema
