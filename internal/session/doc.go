// Package session orchestrates agent subprocess sessions.
//
// The Orchestrator owns the active-session set: for each session it pairs
// one subprocess with one protocol parser, routes parsed events to the
// caller's sink keyed by session id, keeps the external registry current,
// and supports explicit termination. Sessions are isolated — a failure in
// one cannot affect another — and each session's events are delivered from
// a single goroutine, preserving source order within the session. No
// ordering holds across sessions, or between a session's events and its
// stderr debug lines.
package session
