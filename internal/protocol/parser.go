package protocol

import (
	"maps"
	"strings"
	"time"

	"github.com/agentwire/agent-bridge-go/internal/event"
)

// Protocol marker literals. Matched against the whitespace-trimmed line.
const (
	markerAgentResponse = "AGENT_RESPONSE:"
	markerToolCall      = "TOOL_CALL:"
	markerToolArg       = "TOOL_ARG:"
	markerToolOutput    = "TOOL_OUTPUT:"
	markerEndToolOutput = "END_TOOL_OUTPUT"
	markerFinalOutput   = "FINAL_OUTPUT:"
	markerStatus        = "CONTEXT_STATUS:"
)

// State identifies which protocol block the parser is currently inside.
type State int

// Parser states. StateIdle is the initial state; there is no terminal
// state, a parser is discarded (or Reset) externally.
const (
	StateIdle State = iota
	StateAgentResponse
	StateToolArgs
	StateToolOutput
	StateFinalOutput
)

// String returns a human-readable state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAgentResponse:
		return "agent_response"
	case StateToolArgs:
		return "tool_args"
	case StateToolOutput:
		return "tool_output"
	case StateFinalOutput:
		return "final_output"
	default:
		return "unknown"
	}
}

// Parser is an incremental parser for the agent's marker protocol.
//
// Parse may be called repeatedly with successive chunks of an unbounded
// stream; chunk boundaries are arbitrary and may fall in the middle of a
// marker or payload line. A Parser must not be shared across sessions:
// it carries cross-line state (the unterminated tail of the last chunk,
// the current tool invocation) between calls.
//
// Parser is not safe for concurrent use. Within a session all chunks are
// delivered from a single goroutine, which also guarantees that emitted
// events preserve source line order.
type Parser struct {
	state      State
	buffer     string
	toolName   string
	toolArgs   map[string]string
	toolOutput strings.Builder
}

// NewParser creates a parser in the idle state with an empty buffer.
func NewParser() *Parser {
	return &Parser{state: StateIdle}
}

// Parse consumes the next chunk of agent output and returns the events
// derived from the lines completed by this chunk, in source order.
//
// The final, unterminated line (if any) is retained in the internal buffer
// and processed on a later call once its terminator arrives. Parse never
// fails: unrecognized or out-of-context lines are ignored.
func (p *Parser) Parse(chunk string) []event.Event {
	p.buffer += chunk

	lines := strings.Split(p.buffer, "\n")

	// The last element has no trailing terminator yet. Keep it buffered so
	// a marker split across two chunks is still recognized.
	p.buffer = lines[len(lines)-1]
	lines = lines[:len(lines)-1]

	var events []event.Event

	for _, line := range lines {
		if ev := p.parseLine(line); ev != nil {
			events = append(events, ev)
		}
	}

	return events
}

// parseLine handles one complete line and returns at most one event.
func (p *Parser) parseLine(line string) event.Event {
	trimmed := strings.TrimSpace(line)

	// Markers win over payload handling in every state, so a new block can
	// begin anywhere. CONTEXT_STATUS is the exception: it is only
	// recognized while idle and is shadowed by payload dispatch otherwise.
	switch {
	case trimmed == markerAgentResponse:
		p.state = StateAgentResponse

		return nil

	case strings.HasPrefix(trimmed, markerToolCall):
		// Re-entry restarts collection: new name, cleared arguments.
		p.state = StateToolArgs
		p.toolName = strings.TrimSpace(trimmed[len(markerToolCall):])
		p.toolArgs = make(map[string]string)

		return nil

	case trimmed == markerToolOutput:
		p.state = StateToolOutput
		p.toolOutput.Reset()

		// The single emission point for tool calls: all TOOL_ARG lines
		// have been consumed by now. Without a recorded name (orphan
		// TOOL_OUTPUT) the transition still happens but nothing is
		// emitted.
		if p.toolName == "" {
			return nil
		}

		return &event.ToolUseEvent{
			Name:   p.toolName,
			Params: maps.Clone(p.toolArgs),
		}

	case trimmed == markerEndToolOutput:
		p.state = StateIdle
		p.toolName = ""

		return nil

	case trimmed == markerFinalOutput:
		p.state = StateFinalOutput

		return nil
	}

	return p.parsePayload(line, trimmed)
}

// parsePayload dispatches a non-marker line on the current state.
func (p *Parser) parsePayload(line, trimmed string) event.Event {
	switch p.state {
	case StateAgentResponse:
		return &event.TextEvent{Text: line + "\n", Partial: true}

	case StateToolArgs:
		if rest, ok := strings.CutPrefix(trimmed, markerToolArg); ok {
			if key, value, ok := strings.Cut(rest, "="); ok {
				p.toolArgs[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}
		}
		// Anything else between TOOL_CALL and TOOL_OUTPUT is ignored.

		return nil

	case StateToolOutput:
		// Collected raw for callers that want it; not emitted as an event.
		p.toolOutput.WriteString(line)
		p.toolOutput.WriteString("\n")

		return nil

	case StateFinalOutput:
		return &event.TextEvent{Text: line + "\n", Partial: true, IsAnswered: true}

	case StateIdle:
		if rest, ok := strings.CutPrefix(trimmed, markerStatus); ok {
			return &event.StatusEvent{
				Message:   strings.TrimSpace(rest),
				Timestamp: time.Now(),
			}
		}

		return nil

	default:
		return nil
	}
}

// Flush signals end of stream. Any unterminated trailing line is discarded
// rather than interpreted; a line without its terminator may be an
// incomplete marker.
func (p *Parser) Flush() []event.Event {
	p.buffer = ""

	return nil
}

// Reset clears all parser state so the instance can be reused for a fresh
// stream: buffer and tool accumulation are dropped and the state machine
// returns to idle.
func (p *Parser) Reset() {
	p.state = StateIdle
	p.buffer = ""
	p.toolName = ""
	p.toolArgs = nil
	p.toolOutput.Reset()
}

// State returns the current state of the state machine.
func (p *Parser) State() State {
	return p.state
}

// Buffer returns the retained unterminated tail of the stream.
func (p *Parser) Buffer() string {
	return p.buffer
}

// ToolOutput returns the raw output collected for the most recent tool
// invocation. It accumulates while inside a TOOL_OUTPUT block and is reset
// when the next block begins.
func (p *Parser) ToolOutput() string {
	return p.toolOutput.String()
}
