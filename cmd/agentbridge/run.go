package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	agentbridge "github.com/agentwire/agent-bridge-go"
)

// run flags
var (
	workspace    string
	label        string
	providerName string
	sessionID    string
)

var runCmd = &cobra.Command{
	Use:   "run [prompt]",
	Short: "Spawn one agent session and stream its events",
	Long: `Spawn one agent session in the given workspace and stream its events
until the agent exits.

Example:
  agentbridge run "fix the failing tests" --workspace ./repo
  agentbridge run --session-id 01K3... --workspace ./repo`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSession,
}

func init() {
	runCmd.Flags().StringVar(&workspace, "workspace", ".", "Workspace directory for the agent")
	runCmd.Flags().StringVar(&label, "label", "", "Display label recorded for the session")
	runCmd.Flags().StringVar(&providerName, "provider", "", "Provider profile name (default: profile set's default)")
	runCmd.Flags().StringVar(&sessionID, "session-id", "", "Resume an existing session id instead of creating one")

	rootCmd.AddCommand(runCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	prompt := ""
	if len(args) > 0 {
		prompt = args[0]
	}

	log := newLogger()

	profiles, err := agentbridge.LoadProviders(providerConfig)
	if err != nil {
		return err
	}

	provider, err := profiles.Get(providerName)
	if err != nil {
		return err
	}

	ctx, cancel := setupContext()
	defer cancel()

	reg := agentbridge.NewInMemoryRegistry()
	done := make(chan struct{})

	orch := agentbridge.NewOrchestrator(log, reg, agentbridge.Callbacks{
		OnStateChanged: func() {
			close(done)
		},
		OnSpawnFailed: func(id string, err error) {
			fmt.Fprintf(os.Stderr, "spawn failed: %v\n", err)
			close(done)
		},
	})
	defer orch.StopAll()

	opts := []agentbridge.Option{
		agentbridge.WithLabel(label),
		agentbridge.WithStderr(func(line string) {
			if verbose {
				fmt.Fprintf(os.Stderr, "agent: %s\n", line)
			}
		}),
	}

	if provider != nil {
		opts = append(opts, agentbridge.WithProvider(provider))
	}

	if sessionID != "" {
		opts = append(opts, agentbridge.WithSessionID(sessionID))
	}

	id, err := orch.Spawn(ctx, executable, workspace, prompt, printEvent, opts...)
	if err != nil {
		return err
	}

	select {
	case <-done:
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "stopping session...")
		orch.Stop(id)
	}

	record, ok := reg.Get(id)
	if ok && record.Status == agentbridge.StatusError {
		return fmt.Errorf("agent exited with code %d", record.ExitCode)
	}

	return nil
}

// printEvent renders one parsed event to the terminal.
func printEvent(sessionID string, ev agentbridge.Event) {
	switch e := ev.(type) {
	case *agentbridge.SessionCreatedEvent:
		fmt.Fprintf(os.Stderr, "session %s started\n", e.SessionID)
	case *agentbridge.TextEvent:
		if e.IsAnswered {
			fmt.Printf("\n=== Final Output ===\n%s\n", e.Text)

			return
		}

		fmt.Print(e.Text)
	case *agentbridge.ToolUseEvent:
		fmt.Printf("\n[tool] %s %v\n", e.Name, e.Params)
	case *agentbridge.StatusEvent:
		fmt.Fprintf(os.Stderr, "[%s] %s\n", e.Timestamp.Format(time.Kitchen), e.Message)
	}
}

// setupContext creates a cancellable context wired to SIGINT/SIGTERM. A
// second signal forces exit.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()

		<-sigCh
		os.Exit(1)
	}()

	return ctx, cancel
}
