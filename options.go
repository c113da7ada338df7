package agentbridge

import (
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/agentwire/agent-bridge-go/internal/config"
)

// Options configures a single spawn. Prefer the functional options; the
// struct is exported for callers that assemble configuration dynamically.
type Options = config.Options

// Provider describes one model provider profile whose fields become
// environment variables of the agent subprocess.
type Provider = config.Provider

// Profiles is a set of named provider profiles loaded from a TOML file.
type Profiles = config.Profiles

// LoadProviders reads provider profiles from a TOML file. A missing file
// yields an empty profile set, not an error.
var LoadProviders = config.LoadProviders

// Option configures a single Spawn using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithSessionID resumes an existing session instead of creating a new one.
// The registry entry moves to "creating" rather than being freshly
// created.
func WithSessionID(sessionID string) Option {
	return func(o *Options) {
		o.SessionID = sessionID
	}
}

// WithLabel sets the display name recorded in the session registry.
func WithLabel(label string) Option {
	return func(o *Options) {
		o.Label = label
	}
}

// WithProvider supplies the provider profile whose derived environment
// variables are applied to the agent subprocess.
func WithProvider(provider *Provider) Option {
	return func(o *Options) {
		o.Provider = provider
	}
}

// WithEnv adds extra environment overrides, applied after the provider's.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		o.Env = env
	}
}

// WithStderr sets the callback receiving each line the agent writes to
// standard error. The lines are diagnostic only and never become protocol
// events.
func WithStderr(callback func(line string)) Option {
	return func(o *Options) {
		o.Stderr = callback
	}
}

// WithToolSchema registers a JSON schema used to validate the params of
// tool_use events for the named tool. Validation is advisory: failing
// events are reported but still delivered.
func WithToolSchema(tool string, s *jsonschema.Schema) Option {
	return func(o *Options) {
		if o.ToolSchemas == nil {
			o.ToolSchemas = make(map[string]*jsonschema.Schema)
		}

		o.ToolSchemas[tool] = s
	}
}

// WithInvalidToolUse sets the callback invoked when a tool_use event fails
// schema validation.
func WithInvalidToolUse(callback func(tool string, err error)) Option {
	return func(o *Options) {
		o.OnInvalidToolUse = callback
	}
}

// WithLogger sets the per-session logger for debug output.
// If not set, the orchestrator's logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}
