package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/agentwire/agent-bridge-go/internal/config"
	"github.com/agentwire/agent-bridge-go/internal/errors"
	"github.com/agentwire/agent-bridge-go/internal/event"
	"github.com/agentwire/agent-bridge-go/internal/protocol"
	"github.com/agentwire/agent-bridge-go/internal/registry"
	"github.com/agentwire/agent-bridge-go/internal/schema"
	"github.com/agentwire/agent-bridge-go/internal/subprocess"
)

// EventSink receives every parsed event, keyed by session id. Within a
// session, calls arrive from a single goroutine in source order.
type EventSink func(sessionID string, ev event.Event)

// Callbacks notify the caller of session lifecycle transitions. Nil
// callbacks are skipped.
type Callbacks struct {
	// OnSessionCreated fires once the subprocess is running, after the
	// session_created event has been delivered to the sink.
	OnSessionCreated func(sessionID string)

	// OnStateChanged fires whenever a session leaves the active set
	// because its process exited.
	OnStateChanged func()

	// OnSpawnFailed reports a subprocess that could not be started. Spawn
	// itself does not return these failures.
	OnSpawnFailed func(sessionID string, err error)
}

// Orchestrator manages the lifecycle of agent subprocess sessions.
//
// Each session exclusively owns its process handle and parser; the only
// state shared across sessions is the active-session map, which the
// orchestrator guards itself. Instances hold no ambient state: discard the
// orchestrator (after StopAll) and everything goes with it.
type Orchestrator struct {
	log       *slog.Logger
	registry  registry.Registry
	callbacks Callbacks

	mu     sync.Mutex
	active map[string]*activeSession
	closed bool
	wg     sync.WaitGroup
}

// activeSession pairs one live subprocess with its parser.
type activeSession struct {
	id        string
	transport *subprocess.AgentTransport
	parser    *protocol.Parser
	cancel    context.CancelFunc
}

// NewOrchestrator creates an orchestrator with an empty active set.
//
// The logger may be nil for silent operation. The registry is the external
// bookkeeping collaborator; callbacks may be the zero value.
func NewOrchestrator(log *slog.Logger, reg registry.Registry, callbacks Callbacks) *Orchestrator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Orchestrator{
		log:       log.With("component", "orchestrator"),
		registry:  reg,
		callbacks: callbacks,
		active:    make(map[string]*activeSession),
	}
}

// Spawn starts exactly one agent subprocess for a new or resuming session
// and returns its session id without waiting for process completion.
//
// Subprocess-level failures (missing executable, failed exec) are reported
// through Callbacks.OnSpawnFailed, not returned. Spawn returns an error
// only for caller-contract violations: an orchestrator that has been shut
// down, or a session id that already has a live process.
func (o *Orchestrator) Spawn(
	ctx context.Context,
	executable, workspace, prompt string,
	sink EventSink,
	options *config.Options,
) (string, error) {
	if options == nil {
		options = &config.Options{}
	}

	sessionID := options.SessionID
	resuming := sessionID != ""

	if sessionID == "" {
		sessionID = ulid.Make().String()
	}

	base := o.log
	if options.Logger != nil {
		base = options.Logger.With("component", "orchestrator")
	}

	log := base.With("session_id", sessionID)

	validator, err := schema.NewValidator(log, options.ToolSchemas)
	if err != nil {
		return "", err
	}

	sessionCtx, cancel := context.WithCancel(ctx)

	transport := subprocess.NewAgentTransport(log, executable, workspace, prompt, options)

	sess := &activeSession{
		id:        sessionID,
		transport: transport,
		parser:    protocol.NewParser(),
		cancel:    cancel,
	}

	o.mu.Lock()

	if o.closed {
		o.mu.Unlock()
		cancel()

		return "", errors.ErrOrchestratorClosed
	}

	if _, exists := o.active[sessionID]; exists {
		o.mu.Unlock()
		cancel()

		return "", errors.ErrSessionActive
	}

	o.active[sessionID] = sess
	o.mu.Unlock()

	// Registry entry first, so a spawn failure is visible against it.
	if resuming {
		o.registry.UpdateSessionStatus(sessionID, registry.StatusCreating, 0)
	} else {
		o.registry.CreateSession(sessionID, options.Label, time.Now())
	}

	if err := transport.Start(sessionCtx); err != nil {
		log.Error("Failed to spawn agent process", "error", err)
		o.remove(sessionID)
		cancel()
		o.registry.UpdateSessionStatus(sessionID, registry.StatusError, 0)

		if o.callbacks.OnSpawnFailed != nil {
			o.callbacks.OnSpawnFailed(sessionID, err)
		}

		return sessionID, nil
	}

	// A Stop or StopAll that raced with Start found no process to kill.
	// Finish the kill here and reap the exit.
	o.mu.Lock()

	if _, alive := o.active[sessionID]; !alive {
		o.mu.Unlock()

		log.Info("Session stopped while its process was starting")

		if err := transport.Close(); err != nil {
			log.Warn("Failed to kill session process", "error", err)
		}

		go func() {
			defer cancel()

			_, _ = transport.Pump(sessionCtx, func(string) {})
		}()

		return sessionID, nil
	}

	o.wg.Add(1)
	o.mu.Unlock()

	o.registry.SetSessionPID(sessionID, transport.PID())
	o.registry.UpdateSessionStatus(sessionID, registry.StatusRunning, 0)

	// The agent begins executing immediately, so announce the session now
	// rather than waiting for its first output.
	sink(sessionID, &event.SessionCreatedEvent{
		SessionID: sessionID,
		Timestamp: time.Now(),
	})

	if o.callbacks.OnSessionCreated != nil {
		o.callbacks.OnSessionCreated(sessionID)
	}

	go o.run(sessionCtx, log, sess, sink, validator, options)

	return sessionID, nil
}

// run pumps one session's output to the sink and settles its exit.
func (o *Orchestrator) run(
	ctx context.Context,
	log *slog.Logger,
	sess *activeSession,
	sink EventSink,
	validator *schema.Validator,
	options *config.Options,
) {
	defer o.wg.Done()
	defer sess.cancel()

	exitCode, err := sess.transport.Pump(ctx, func(chunk string) {
		for _, ev := range sess.parser.Parse(chunk) {
			if use, ok := ev.(*event.ToolUseEvent); ok {
				if verr := validator.Validate(use.Name, use.Params); verr != nil {
					log.Warn("Tool call failed schema validation", "tool", use.Name, "error", verr)

					if options.OnInvalidToolUse != nil {
						options.OnInvalidToolUse(use.Name, verr)
					}
				}
			}

			sink(sess.id, ev)
		}
	})

	// An explicit Stop already removed the session; its exit is then a
	// no-op, including the registry update.
	if !o.remove(sess.id) {
		log.Debug("Exit for already-removed session ignored")

		return
	}

	if err != nil {
		log.Warn("Session ended with error", "exit_code", exitCode, "error", err)
		o.registry.UpdateSessionStatus(sess.id, registry.StatusError, exitCode)
	} else {
		log.Info("Session ended", "exit_code", exitCode)
		o.registry.UpdateSessionStatus(sess.id, registry.StatusDone, 0)
	}

	if o.callbacks.OnStateChanged != nil {
		o.callbacks.OnStateChanged()
	}
}

// remove deletes the session from the active set. Reports whether the
// entry was still present.
func (o *Orchestrator) remove(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.active[sessionID]; !ok {
		return false
	}

	delete(o.active, sessionID)

	return true
}

// Stop forcibly terminates a session's subprocess and removes it from the
// active set immediately, without waiting for the exit to be observed.
// Unknown session ids are a no-op. Termination is fire-and-forget: the
// registry is not updated here — the late exit callback finds the session
// already removed and does nothing.
func (o *Orchestrator) Stop(sessionID string) {
	o.mu.Lock()
	sess, ok := o.active[sessionID]

	if ok {
		delete(o.active, sessionID)
	}

	o.mu.Unlock()

	if !ok {
		return
	}

	o.log.Info("Stopping session", "session_id", sessionID)

	if err := sess.transport.Close(); err != nil {
		o.log.Warn("Failed to kill session process", "session_id", sessionID, "error", err)
	}

	sess.cancel()
}

// ActiveSessions returns the ids of sessions with a live process.
func (o *Orchestrator) ActiveSessions() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	ids := make([]string, 0, len(o.active))
	for id := range o.active {
		ids = append(ids, id)
	}

	return ids
}

// StopAll terminates every active session, rejects further spawns, and
// waits for the per-session goroutines to drain.
func (o *Orchestrator) StopAll() {
	o.mu.Lock()
	o.closed = true

	sessions := make([]*activeSession, 0, len(o.active))

	for id, sess := range o.active {
		sessions = append(sessions, sess)

		delete(o.active, id)
	}

	o.mu.Unlock()

	for _, sess := range sessions {
		if err := sess.transport.Close(); err != nil {
			o.log.Warn("Failed to kill session process", "session_id", sess.id, "error", err)
		}

		sess.cancel()
	}

	o.wg.Wait()
}
