// Package config holds the per-spawn options consumed by the orchestrator
// and the provider profiles used to derive subprocess environment
// overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/google/jsonschema-go/jsonschema"
)

// Options configures a single spawn. The zero value is valid: a fresh
// session id is generated, no provider overrides are applied, and stderr
// is discarded.
type Options struct {
	// SessionID, when set, resumes an existing session instead of creating
	// a new one: the registry entry is moved to "creating" rather than
	// freshly created.
	SessionID string

	// Label is a display name recorded in the session registry.
	Label string

	// Provider supplies environment overrides for the agent subprocess.
	Provider *Provider

	// Env are additional environment overrides, applied after the
	// provider's.
	Env map[string]string

	// Stderr receives each line the agent writes to standard error. The
	// lines are diagnostic only and never become protocol events.
	Stderr func(line string)

	// ToolSchemas maps tool names to JSON schemas used to validate
	// tool_use params. Tools without a schema are never validated.
	ToolSchemas map[string]*jsonschema.Schema

	// OnInvalidToolUse is invoked when a tool_use event fails schema
	// validation. The event is still delivered to the sink; the protocol
	// is forgiving and validation is advisory.
	OnInvalidToolUse func(tool string, err error)

	// Logger receives debug output for this session. Nil means the
	// orchestrator's own logger is used.
	Logger *slog.Logger
}

// Provider describes one model provider profile. Its fields become
// environment variables of the agent subprocess.
type Provider struct {
	Name    string            `toml:"name"`
	Model   string            `toml:"model"`
	BaseURL string            `toml:"base_url"`
	APIKey  string            `toml:"api_key"`
	Env     map[string]string `toml:"env"`
}

// EnvOverrides returns the environment variables derived from the profile.
// Explicit Env entries win over the derived ones.
func (p *Provider) EnvOverrides() map[string]string {
	overrides := make(map[string]string, len(p.Env)+4)

	if p.Name != "" {
		overrides["AGENT_PROVIDER"] = p.Name
	}

	if p.Model != "" {
		overrides["AGENT_MODEL"] = p.Model
	}

	if p.BaseURL != "" {
		overrides["AGENT_BASE_URL"] = p.BaseURL
	}

	if p.APIKey != "" {
		overrides["AGENT_API_KEY"] = p.APIKey
	}

	for key, value := range p.Env {
		overrides[key] = value
	}

	return overrides
}

// Profiles is a set of named provider profiles loaded from a TOML file.
type Profiles struct {
	Default   string               `toml:"default"`
	Providers map[string]*Provider `toml:"provider"`
}

// LoadProviders reads provider profiles from a TOML file. A missing file
// is not an error; it yields an empty profile set.
func LoadProviders(path string) (*Profiles, error) {
	profiles := &Profiles{Providers: make(map[string]*Provider)}

	if _, err := os.Stat(path); err != nil {
		return profiles, nil
	}

	if _, err := toml.DecodeFile(path, profiles); err != nil {
		return nil, fmt.Errorf("decode provider profiles %s: %w", path, err)
	}

	for name, provider := range profiles.Providers {
		if provider.Name == "" {
			provider.Name = name
		}
	}

	return profiles, nil
}

// Get returns the named profile, or the default profile when name is
// empty.
func (ps *Profiles) Get(name string) (*Provider, error) {
	if name == "" {
		name = ps.Default
	}

	if name == "" {
		return nil, nil
	}

	provider, ok := ps.Providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider profile %q", name)
	}

	return provider, nil
}
