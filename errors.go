package agentbridge

import "github.com/agentwire/agent-bridge-go/internal/errors"

// Re-export error types from internal package

// BridgeError is the base interface for all bridge errors.
type BridgeError = errors.BridgeError

// AgentNotFoundError indicates the agent executable was not found.
type AgentNotFoundError = errors.AgentNotFoundError

// SpawnError indicates the agent subprocess failed to start.
type SpawnError = errors.SpawnError

// ProcessError indicates the agent subprocess exited abnormally.
type ProcessError = errors.ProcessError

// Re-export sentinel errors from internal package.
var (
	// ErrOrchestratorClosed indicates the orchestrator has been shut down.
	ErrOrchestratorClosed = errors.ErrOrchestratorClosed

	// ErrSessionActive indicates a spawn for a session id that already has
	// a live process.
	ErrSessionActive = errors.ErrSessionActive

	// ErrTransportNotStarted indicates a transport operation before Start.
	ErrTransportNotStarted = errors.ErrTransportNotStarted
)
