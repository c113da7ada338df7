package agentbridge

import "github.com/agentwire/agent-bridge-go/internal/event"

// Re-export event types from internal package

// Event represents any structured event parsed from the agent's output.
// Use a type switch over the concrete types to consume it exhaustively.
type Event = event.Event

// TextEvent is a fragment of streamed narration from the agent.
type TextEvent = event.TextEvent

// ToolUseEvent is emitted once per tool invocation, after all arguments
// have been collected.
type ToolUseEvent = event.ToolUseEvent

// StatusEvent carries an out-of-band status message from the agent.
type StatusEvent = event.StatusEvent

// SessionCreatedEvent announces that a session's subprocess has started.
type SessionCreatedEvent = event.SessionCreatedEvent
