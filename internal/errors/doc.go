// Package errors defines the error taxonomy for the bridge.
//
// Three failure classes get typed errors: the agent binary cannot be found
// (AgentNotFoundError), the subprocess cannot be started (SpawnError), and
// the subprocess exits abnormally (ProcessError). Malformed protocol input
// is deliberately absent from this taxonomy: the parser has no error
// channel and ignores what it cannot interpret.
//
// All typed errors implement the BridgeError marker interface so callers
// can distinguish bridge failures from wrapped OS errors.
package errors
