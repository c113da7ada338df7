// Package protocol implements the incremental parser for the agent's
// line-oriented marker protocol.
//
// The agent writes UTF-8 text to stdout, organized into blocks delimited by
// marker lines. Markers are matched against the whitespace-trimmed line;
// payload lines keep their raw content because indentation can be
// significant (e.g. source code in tool output).
//
// Marker lines:
//
//	AGENT_RESPONSE:           begin streamed narration block
//	TOOL_CALL:<name>          begin a tool invocation
//	TOOL_ARG:<key>=<value>    one argument for the current invocation
//	TOOL_OUTPUT:              end of arguments, begin tool output block
//	END_TOOL_OUTPUT           end of tool output block
//	FINAL_OUTPUT:             begin final-answer narration block
//	CONTEXT_STATUS:<message>  status report (recognized only while idle)
//
// The Parser is a pure state machine over an unbounded byte stream: it keeps
// the trailing unterminated line in an internal buffer so markers and
// payload may be split across reads at arbitrary byte boundaries. It
// performs no I/O, never fails, and treats anything it cannot interpret
// under the current state as a no-op.
//
// Example usage:
//
//	p := protocol.NewParser()
//	for chunk := range chunks {
//	    for _, ev := range p.Parse(chunk) {
//	        // dispatch on ev's concrete type
//	    }
//	}
package protocol
