package agentbridge

import "github.com/agentwire/agent-bridge-go/internal/protocol"

// Re-export parser types from internal package

// Parser is the incremental parser for the agent's marker protocol.
// One Parser serves exactly one stream; it is not safe for concurrent use.
type Parser = protocol.Parser

// NewParser creates a parser in the idle state with an empty buffer.
var NewParser = protocol.NewParser

// ParserState identifies which protocol block a parser is currently
// inside.
type ParserState = protocol.State

const (
	// StateIdle is the initial parser state.
	StateIdle = protocol.StateIdle
	// StateAgentResponse is active inside a streamed narration block.
	StateAgentResponse = protocol.StateAgentResponse
	// StateToolArgs is active while a tool invocation's arguments stream in.
	StateToolArgs = protocol.StateToolArgs
	// StateToolOutput is active inside a tool output block.
	StateToolOutput = protocol.StateToolOutput
	// StateFinalOutput is active inside the final-answer block.
	StateFinalOutput = protocol.StateFinalOutput
)
