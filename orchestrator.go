package agentbridge

import (
	"context"
	"log/slog"

	"github.com/agentwire/agent-bridge-go/internal/registry"
	"github.com/agentwire/agent-bridge-go/internal/session"
)

// EventSink receives every parsed event, keyed by session id. Within a
// session, calls arrive from a single goroutine in source order.
type EventSink = session.EventSink

// Callbacks notify the caller of session lifecycle transitions.
type Callbacks = session.Callbacks

// Registry is the external session bookkeeping collaborator.
type Registry = registry.Registry

// SessionRecord is one session's bookkeeping entry in the in-memory
// registry.
type SessionRecord = registry.Record

// SessionStatus is the lifecycle state recorded for a session.
type SessionStatus = registry.Status

const (
	// StatusCreating marks a session whose process is being spawned.
	StatusCreating = registry.StatusCreating
	// StatusRunning marks a session with a live process.
	StatusRunning = registry.StatusRunning
	// StatusDone marks a session whose process exited cleanly.
	StatusDone = registry.StatusDone
	// StatusError marks a session whose process exited abnormally.
	StatusError = registry.StatusError
)

// NewInMemoryRegistry creates the bundled mutex-guarded Registry
// implementation, suitable for tests and single-process hosts.
var NewInMemoryRegistry = registry.NewInMemory

// Orchestrator manages the lifecycle of agent subprocess sessions: one
// subprocess plus one protocol parser per session, events forwarded to a
// caller-supplied sink.
type Orchestrator struct {
	inner *session.Orchestrator
}

// NewOrchestrator creates an orchestrator with an empty active-session
// set. The logger may be nil for silent operation; callbacks may be the
// zero value.
func NewOrchestrator(log *slog.Logger, reg Registry, callbacks Callbacks) *Orchestrator {
	return &Orchestrator{
		inner: session.NewOrchestrator(log, reg, callbacks),
	}
}

// Spawn starts exactly one agent subprocess for a new or resuming session
// and returns its session id without waiting for process completion.
//
// executable is resolved against PATH and common install locations when it
// is a bare name. A non-empty prompt is passed to the agent as its task.
// Subprocess-level failures are reported through Callbacks.OnSpawnFailed,
// not returned; Spawn errors only on caller-contract violations (closed
// orchestrator, duplicate live session id, invalid tool schema).
func (o *Orchestrator) Spawn(
	ctx context.Context,
	executable, workspace, prompt string,
	sink EventSink,
	opts ...Option,
) (string, error) {
	return o.inner.Spawn(ctx, executable, workspace, prompt, sink, applyOptions(opts))
}

// Stop forcibly terminates a session's subprocess and removes it from the
// active set immediately. Unknown session ids are a no-op.
func (o *Orchestrator) Stop(sessionID string) {
	o.inner.Stop(sessionID)
}

// ActiveSessions returns the ids of sessions with a live process.
func (o *Orchestrator) ActiveSessions() []string {
	return o.inner.ActiveSessions()
}

// StopAll terminates every active session, rejects further spawns, and
// waits for per-session goroutines to drain.
func (o *Orchestrator) StopAll() {
	o.inner.StopAll()
}
