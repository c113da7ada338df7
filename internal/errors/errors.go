package errors

import (
	"errors"
	"fmt"
)

// BridgeError is the base interface for all bridge errors.
type BridgeError interface {
	error
	IsBridgeError() bool
}

// Compile-time verification that all error types implement BridgeError.
var (
	_ BridgeError = (*AgentNotFoundError)(nil)
	_ BridgeError = (*SpawnError)(nil)
	_ BridgeError = (*ProcessError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrOrchestratorClosed indicates the orchestrator has been shut down
	// and no longer accepts spawns.
	ErrOrchestratorClosed = errors.New("orchestrator closed")

	// ErrSessionActive indicates a spawn was requested for a session id
	// that already has a live process.
	ErrSessionActive = errors.New("session already has a live process")

	// ErrTransportNotStarted indicates a transport operation before Start.
	ErrTransportNotStarted = errors.New("transport not started")
)

// AgentNotFoundError indicates the agent executable was not found.
type AgentNotFoundError struct {
	SearchedPaths []string
}

func (e *AgentNotFoundError) Error() string {
	return fmt.Sprintf("agent executable not found in: %v", e.SearchedPaths)
}

// IsBridgeError implements BridgeError.
func (e *AgentNotFoundError) IsBridgeError() bool { return true }

// SpawnError indicates the agent subprocess failed to start.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn agent process: %v", e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *SpawnError) IsBridgeError() bool { return true }

// ProcessError indicates the agent subprocess exited abnormally.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("agent process failed (exit %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("agent process failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *ProcessError) IsBridgeError() bool { return true }
