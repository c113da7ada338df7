// Package agentbridge bridges a long-running agent CLI process to a host
// application.
//
// The bridge has two halves. A streaming protocol parser turns the agent's
// line-oriented marker output into structured events, tolerating arbitrary
// chunk boundaries. A session orchestrator spawns one agent subprocess per
// session, routes its stdout through a dedicated parser, and forwards the
// resulting events to a caller-supplied sink.
//
// # Basic Usage
//
//	reg := agentbridge.NewInMemoryRegistry()
//
//	orch := agentbridge.NewOrchestrator(nil, reg, agentbridge.Callbacks{
//	    OnStateChanged: func() { /* refresh UI */ },
//	})
//	defer orch.StopAll()
//
//	sink := func(sessionID string, ev agentbridge.Event) {
//	    switch e := ev.(type) {
//	    case *agentbridge.TextEvent:
//	        fmt.Print(e.Text)
//	    case *agentbridge.ToolUseEvent:
//	        fmt.Printf("tool %s %v\n", e.Name, e.Params)
//	    case *agentbridge.StatusEvent:
//	        fmt.Printf("[%s] %s\n", e.Timestamp.Format(time.Kitchen), e.Message)
//	    case *agentbridge.SessionCreatedEvent:
//	        fmt.Printf("session %s started\n", e.SessionID)
//	    }
//	}
//
//	sessionID, err := orch.Spawn(ctx, "agent", "/work/repo", "fix the tests", sink,
//	    agentbridge.WithLabel("fix tests"),
//	)
//
// Spawn returns immediately; output and exit notifications arrive
// asynchronously. Subprocess failures are reported through
// Callbacks.OnSpawnFailed rather than returned.
//
// # Using the Parser Directly
//
// The parser is independent of process management and can be fed any
// stream:
//
//	p := agentbridge.NewParser()
//	for _, ev := range p.Parse(chunk) {
//	    // events for the lines completed by this chunk, in order
//	}
//
// Chunks may split marker lines at any byte boundary; the parser keeps the
// unterminated tail buffered until its terminator arrives.
//
// # Logging
//
// By default the bridge is silent. Pass a *slog.Logger to NewOrchestrator
// (or per-session via WithLogger) to enable debug output.
package agentbridge
