package cli

import (
	"fmt"
	"os"

	"github.com/agentwire/agent-bridge-go/internal/config"
)

// BuildArgs constructs the agent command-line arguments.
//
// The agent always runs with machine-readable output, pinned to a
// workspace, in autonomous mode. A non-empty prompt is appended as the
// trailing positional argument.
func BuildArgs(prompt, workspace string) []string {
	args := []string{
		"--machine",
		"--workspace", workspace,
		"--autonomous",
	}

	if prompt != "" {
		args = append(args, prompt)
	}

	return args
}

// BuildEnvironment constructs the environment for the agent subprocess:
// the host environment, provider-derived overrides, any extra overrides,
// and a color-disable flag so the machine-readable stream stays free of
// escape sequences.
func BuildEnvironment(options *config.Options) []string {
	env := os.Environ()

	if options.Provider != nil {
		for key, value := range options.Provider.EnvOverrides() {
			env = append(env, fmt.Sprintf("%s=%s", key, value))
		}
	}

	for key, value := range options.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}

	env = append(env, "NO_COLOR=1")

	return env
}
