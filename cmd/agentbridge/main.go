// Command agentbridge spawns agent CLI sessions and streams their output
// to the terminal.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	agentbridge "github.com/agentwire/agent-bridge-go"
)

// Global flags (persistent across all commands)
var (
	executable     string
	providerConfig string
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "agentbridge",
	Short: "Bridge an agent CLI process to the terminal",
	Long: `agentbridge spawns an agent CLI subprocess, parses its marker-protocol
output into structured events, and streams them to the terminal.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&executable, "exec", "agent", "Agent executable (bare name or path)")
	rootCmd.PersistentFlags().StringVar(&providerConfig, "provider-config", defaultProviderConfig(), "Provider profiles TOML file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// defaultProviderConfig returns the conventional profile location; the
// loader treats a missing file as an empty profile set.
func defaultProviderConfig() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "providers.toml"
	}

	return filepath.Join(home, ".config", "agentbridge", "providers.toml")
}

// newLogger builds the CLI's logger: debug JSON on stderr when verbose,
// silent otherwise.
func newLogger() *slog.Logger {
	if !verbose {
		return agentbridge.NopLogger()
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
