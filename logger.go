package agentbridge

import "log/slog"

// NopLogger returns a logger backed by slog.DiscardHandler. Pass it where
// silent operation is wanted without nil checks at the call sites.
func NopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
