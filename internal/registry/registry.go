// Package registry defines the session bookkeeping collaborator consumed
// by the orchestrator, plus an in-memory reference implementation.
//
// The orchestrator only writes to the registry; reading it back (for a UI,
// a daemon API, persistence) is the surrounding system's concern.
package registry

import (
	"sync"
	"time"
)

// Status is the lifecycle state recorded for a session.
type Status string

// Session statuses, in rough lifecycle order.
const (
	StatusCreating Status = "creating"
	StatusRunning  Status = "running"
	StatusDone     Status = "done"
	StatusError    Status = "error"
)

// Registry tracks session status and process IDs on behalf of the
// orchestrator.
//
// Implementations must tolerate updates for unknown session ids (late exit
// callbacks race against explicit stops) and be safe for concurrent use.
type Registry interface {
	// CreateSession records a brand-new session.
	CreateSession(sessionID, label string, createdAt time.Time)

	// UpdateSessionStatus moves a session to the given status. exitCode is
	// meaningful only for StatusDone and StatusError.
	UpdateSessionStatus(sessionID string, status Status, exitCode int)

	// SetSessionPID records the OS process id of the session's subprocess.
	SetSessionPID(sessionID string, pid int)
}

// Record is one session's bookkeeping entry.
type Record struct {
	SessionID string
	Label     string
	Status    Status
	PID       int
	ExitCode  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InMemory is a mutex-guarded Registry used by tests and the bundled CLI.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[string]*Record
}

// Compile-time verification that InMemory implements Registry.
var _ Registry = (*InMemory)(nil)

// NewInMemory creates an empty in-memory registry.
func NewInMemory() *InMemory {
	return &InMemory{sessions: make(map[string]*Record)}
}

// CreateSession implements Registry.
func (r *InMemory) CreateSession(sessionID, label string, createdAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID] = &Record{
		SessionID: sessionID,
		Label:     label,
		Status:    StatusCreating,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// UpdateSessionStatus implements Registry. Unknown sessions get a minimal
// record so a resumed session id is not lost.
func (r *InMemory) UpdateSessionStatus(sessionID string, status Status, exitCode int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.sessions[sessionID]
	if !ok {
		record = &Record{SessionID: sessionID, CreatedAt: time.Now()}
		r.sessions[sessionID] = record
	}

	record.Status = status
	record.ExitCode = exitCode
	record.UpdatedAt = time.Now()
}

// SetSessionPID implements Registry.
func (r *InMemory) SetSessionPID(sessionID string, pid int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record, ok := r.sessions[sessionID]; ok {
		record.PID = pid
		record.UpdatedAt = time.Now()
	}
}

// Get returns a copy of the session's record.
func (r *InMemory) Get(sessionID string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.sessions[sessionID]
	if !ok {
		return Record{}, false
	}

	return *record, true
}

// List returns copies of all records.
func (r *InMemory) List() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]Record, 0, len(r.sessions))

	for _, record := range r.sessions {
		records = append(records, *record)
	}

	return records
}
