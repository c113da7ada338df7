// Package subprocess spawns and supervises one agent process.
//
// AgentTransport owns the process handle and its pipes. Standard output is
// delivered as raw chunks, in read order, from a single goroutine — the
// chunk boundaries are whatever the OS returns, which is exactly what the
// protocol parser is built to tolerate. Standard error is diagnostic only:
// it is streamed line-by-line to a callback and buffered (capped) for exit
// error reporting, never merged into the event stream.
package subprocess
