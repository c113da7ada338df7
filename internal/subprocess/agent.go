package subprocess

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agentwire/agent-bridge-go/internal/cli"
	"github.com/agentwire/agent-bridge-go/internal/config"
	"github.com/agentwire/agent-bridge-go/internal/errors"
)

const (
	// readChunkSize is the stdout read buffer size. Chunks handed to the
	// parser are at most this large but may be any size down to one byte.
	readChunkSize = 32 * 1024

	// maxStderrBufferSize caps the stderr buffer kept for exit error
	// reporting. The callback still receives every line after the cap.
	maxStderrBufferSize = 10 * 1024 * 1024
)

// AgentTransport spawns the agent executable and pumps its output.
type AgentTransport struct {
	log        *slog.Logger
	executable string
	workspace  string
	prompt     string
	options    *config.Options

	mu      sync.Mutex // protects cmd/stdin/closing
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  io.ReadCloser
	stderr  io.ReadCloser
	closing bool
}

// NewAgentTransport creates a transport for one subprocess. Nothing is
// spawned until Start.
func NewAgentTransport(
	log *slog.Logger,
	executable, workspace, prompt string,
	options *config.Options,
) *AgentTransport {
	return &AgentTransport{
		log:        log.With("component", "agent_transport"),
		executable: executable,
		workspace:  workspace,
		prompt:     prompt,
		options:    options,
	}
}

// Start resolves the executable and spawns the agent with all standard
// streams piped (never inherited from the host terminal).
//
// Returns AgentNotFoundError if the executable cannot be located, or
// SpawnError if the process fails to start.
func (t *AgentTransport) Start(ctx context.Context) error {
	path, err := cli.Discover(t.log, t.executable)
	if err != nil {
		return err
	}

	args := cli.BuildArgs(t.prompt, t.workspace)
	env := cli.BuildEnvironment(t.options)

	t.log.Debug("Spawning agent process", "path", path, "args", args, "workspace", t.workspace)

	//nolint:gosec // G204: launching a caller-supplied executable is the point of this package
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = t.workspace
	cmd.Env = env

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return &errors.SpawnError{Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &errors.SpawnError{Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &errors.SpawnError{Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return &errors.SpawnError{Err: fmt.Errorf("start process: %w", err)}
	}

	t.mu.Lock()
	t.cmd = cmd
	t.stdin = stdin
	t.stdout = stdout
	t.stderr = stderr
	t.mu.Unlock()

	t.log.Info("Agent process started", "pid", cmd.Process.Pid)

	return nil
}

// PID returns the OS process id, or 0 before Start.
func (t *AgentTransport) PID() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cmd == nil || t.cmd.Process == nil {
		return 0
	}

	return t.cmd.Process.Pid
}

// Pump reads the agent's output until the process exits.
//
// Stdout chunks are delivered to onChunk from this goroutine, preserving
// read order; stderr lines go to the options' Stderr callback. Pump then
// waits for the process and returns its exit code. The error is non-nil
// only for abnormal termination (a ProcessError carrying the exit code and
// buffered stderr) — unless the transport was closed intentionally, in
// which case the kill is reported as a clean shutdown.
func (t *AgentTransport) Pump(ctx context.Context, onChunk func(chunk string)) (int, error) {
	t.mu.Lock()
	cmd := t.cmd
	t.mu.Unlock()

	if cmd == nil {
		return 0, errors.ErrTransportNotStarted
	}

	var (
		stderrBuffer strings.Builder
		stderrMu     sync.Mutex
	)

	// Stderr reads must complete before cmd.Wait per os/exec docs.
	g := new(errgroup.Group)

	g.Go(func() error {
		scanner := bufio.NewScanner(t.stderr)
		scanner.Buffer(make([]byte, readChunkSize), readChunkSize)

		for scanner.Scan() {
			line := scanner.Text()

			stderrMu.Lock()

			if stderrBuffer.Len() < maxStderrBufferSize {
				if stderrBuffer.Len() > 0 {
					stderrBuffer.WriteString("\n")
				}

				stderrBuffer.WriteString(line)
			}

			stderrMu.Unlock()

			if t.options.Stderr != nil {
				t.options.Stderr(line)
			}
		}

		if err := scanner.Err(); err != nil {
			t.log.Debug("Stderr scanner error", "error", err)
		}

		return nil
	})

	buf := make([]byte, readChunkSize)

	for {
		n, err := t.stdout.Read(buf)
		if n > 0 {
			onChunk(string(buf[:n]))
		}

		if err != nil {
			if err != io.EOF {
				t.log.Debug("Stdout read ended", "error", err)
			}

			break
		}

		// Cooperative cancellation between reads; the CommandContext kill
		// closes the pipes and unblocks the next Read.
		select {
		case <-ctx.Done():
			t.log.Debug("Context cancelled during stdout pump")
		default:
		}
	}

	_ = g.Wait()

	t.log.Debug("Waiting for agent process to exit")

	err := cmd.Wait()

	// Best-effort: the child holds its own end, ours is no longer needed.
	t.mu.Lock()
	if t.stdin != nil {
		_ = t.stdin.Close()
		t.stdin = nil
	}

	closing := t.closing
	t.mu.Unlock()

	if err == nil {
		t.log.Info("Agent process exited cleanly")

		return 0, nil
	}

	if closing {
		t.log.Debug("Agent process terminated during shutdown")

		return 0, nil
	}

	stderrMu.Lock()
	stderrOutput := stderrBuffer.String()
	stderrMu.Unlock()

	exitCode := 0

	if exitErr, ok := stderrors.AsType[*exec.ExitError](err); ok {
		exitCode = exitErr.ExitCode()
	}

	t.log.Error("Agent process exited with error", "exit_code", exitCode)

	return exitCode, &errors.ProcessError{
		ExitCode: exitCode,
		Stderr:   stderrOutput,
		Err:      err,
	}
}

// Close terminates the agent process with SIGKILL. Safe to call multiple
// times or on an already-exited process; the exit is then reported by Pump
// as a clean shutdown.
func (t *AgentTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closing = true

	if t.cmd != nil && t.cmd.Process != nil {
		t.log.Debug("Killing agent process", "pid", t.cmd.Process.Pid)

		if err := t.cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("kill agent process (pid %d): %w", t.cmd.Process.Pid, err)
		}
	}

	return nil
}
