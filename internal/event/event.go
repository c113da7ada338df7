package event

import "time"

// Event represents any structured event parsed from the agent's output.
// Use type assertion or type switch to determine the concrete type.
type Event interface {
	EventType() string
}

// Compile-time verification that all event types implement Event.
var (
	_ Event = (*TextEvent)(nil)
	_ Event = (*ToolUseEvent)(nil)
	_ Event = (*StatusEvent)(nil)
	_ Event = (*SessionCreatedEvent)(nil)
)

// TextEvent is a fragment of streamed narration from the agent.
//
// Partial is true while the fragment is not known to be the last of its
// logical message. IsAnswered marks fragments from the final-answer block.
type TextEvent struct {
	Text       string
	Partial    bool
	IsAnswered bool
}

// EventType implements Event.
func (*TextEvent) EventType() string { return "text" }

// ToolUseEvent is emitted once per tool invocation, after all of the
// invocation's arguments have been collected.
type ToolUseEvent struct {
	Name   string
	Params map[string]string
}

// EventType implements Event.
func (*ToolUseEvent) EventType() string { return "tool_use" }

// StatusEvent carries an out-of-band status message from the agent.
type StatusEvent struct {
	Message   string
	Timestamp time.Time
}

// EventType implements Event.
func (*StatusEvent) EventType() string { return "status" }

// SessionCreatedEvent announces that a session's subprocess has started.
type SessionCreatedEvent struct {
	SessionID string
	Timestamp time.Time
}

// EventType implements Event.
func (*SessionCreatedEvent) EventType() string { return "session_created" }
