package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentwire/agent-bridge-go/internal/event"
)

func TestParser_InitialState(t *testing.T) {
	p := NewParser()

	assert.Equal(t, StateIdle, p.State())
	assert.Empty(t, p.Buffer())
}

func TestParser_AgentResponseBlock(t *testing.T) {
	p := NewParser()

	events := p.Parse("AGENT_RESPONSE:\nhello\nworld\n")

	require.Len(t, events, 2)

	first, ok := events[0].(*event.TextEvent)
	require.True(t, ok)
	assert.Equal(t, "hello\n", first.Text)
	assert.True(t, first.Partial)
	assert.False(t, first.IsAnswered)

	second, ok := events[1].(*event.TextEvent)
	require.True(t, ok)
	assert.Equal(t, "world\n", second.Text)
	assert.True(t, second.Partial)
}

func TestParser_AgentResponseEmptyLine(t *testing.T) {
	p := NewParser()

	events := p.Parse("AGENT_RESPONSE:\n\n")

	require.Len(t, events, 1)

	text, ok := events[0].(*event.TextEvent)
	require.True(t, ok)
	assert.Equal(t, "\n", text.Text)
	assert.True(t, text.Partial)
}

func TestParser_ToolCall_EmittedAtToolOutput(t *testing.T) {
	p := NewParser()

	// No event until the TOOL_OUTPUT marker closes the argument list.
	events := p.Parse("TOOL_CALL:build\nTOOL_ARG:path=/tmp/x\nTOOL_ARG:flag=true\n")
	assert.Empty(t, events)
	assert.Equal(t, StateToolArgs, p.State())

	events = p.Parse("TOOL_OUTPUT:\n")
	require.Len(t, events, 1)

	use, ok := events[0].(*event.ToolUseEvent)
	require.True(t, ok)
	assert.Equal(t, "build", use.Name)
	assert.Equal(t, map[string]string{"path": "/tmp/x", "flag": "true"}, use.Params)
	assert.Equal(t, StateToolOutput, p.State())
}

func TestParser_ToolArgValueContainsEquals(t *testing.T) {
	p := NewParser()

	events := p.Parse("TOOL_CALL:sh\nTOOL_ARG:cmd=a=b=c\nTOOL_OUTPUT:\n")

	require.Len(t, events, 1)

	use := events[0].(*event.ToolUseEvent)
	assert.Equal(t, map[string]string{"cmd": "a=b=c"}, use.Params)
}

func TestParser_ToolArgOverwritesDuplicateKey(t *testing.T) {
	p := NewParser()

	events := p.Parse("TOOL_CALL:write\nTOOL_ARG:path=/a\nTOOL_ARG:path=/b\nTOOL_OUTPUT:\n")

	require.Len(t, events, 1)

	use := events[0].(*event.ToolUseEvent)
	assert.Equal(t, map[string]string{"path": "/b"}, use.Params)
}

func TestParser_ToolArgWithoutEqualsIgnored(t *testing.T) {
	p := NewParser()

	events := p.Parse("TOOL_CALL:run\nTOOL_ARG:garbage\nnot an arg line\nTOOL_OUTPUT:\n")

	require.Len(t, events, 1)

	use := events[0].(*event.ToolUseEvent)
	assert.Empty(t, use.Params)
}

func TestParser_OrphanToolOutput(t *testing.T) {
	p := NewParser()

	// TOOL_OUTPUT with no recorded tool name: no event, state still moves.
	events := p.Parse("TOOL_OUTPUT:\n")

	assert.Empty(t, events)
	assert.Equal(t, StateToolOutput, p.State())
}

func TestParser_ToolOutputCollectedNotEmitted(t *testing.T) {
	p := NewParser()

	events := p.Parse("TOOL_CALL:cat\nTOOL_OUTPUT:\n  indented line\nplain\nEND_TOOL_OUTPUT\n")

	require.Len(t, events, 1)
	assert.IsType(t, &event.ToolUseEvent{}, events[0])

	// Raw content preserved, indentation included.
	assert.Equal(t, "  indented line\nplain\n", p.ToolOutput())
	assert.Equal(t, StateIdle, p.State())
}

func TestParser_EndToolOutputClearsToolName(t *testing.T) {
	p := NewParser()

	p.Parse("TOOL_CALL:a\nTOOL_OUTPUT:\nEND_TOOL_OUTPUT\n")

	// A following orphan TOOL_OUTPUT must not reuse the stale name.
	events := p.Parse("TOOL_OUTPUT:\n")
	assert.Empty(t, events)
}

func TestParser_ToolCallReentryRestartsCollection(t *testing.T) {
	p := NewParser()

	events := p.Parse("TOOL_CALL:first\nTOOL_ARG:a=1\nTOOL_CALL:second\nTOOL_ARG:b=2\nTOOL_OUTPUT:\n")

	require.Len(t, events, 1)

	use := events[0].(*event.ToolUseEvent)
	assert.Equal(t, "second", use.Name)
	assert.Equal(t, map[string]string{"b": "2"}, use.Params)
}

func TestParser_FinalOutputBlock(t *testing.T) {
	p := NewParser()

	events := p.Parse("FINAL_OUTPUT:\nall done\n")

	require.Len(t, events, 1)

	text, ok := events[0].(*event.TextEvent)
	require.True(t, ok)
	assert.Equal(t, "all done\n", text.Text)
	assert.True(t, text.Partial)
	assert.True(t, text.IsAnswered)
}

func TestParser_StatusInIdle(t *testing.T) {
	p := NewParser()

	before := time.Now()
	events := p.Parse("CONTEXT_STATUS:deploying\n")

	require.Len(t, events, 1)

	status, ok := events[0].(*event.StatusEvent)
	require.True(t, ok)
	assert.Equal(t, "deploying", status.Message)
	assert.False(t, status.Timestamp.Before(before))
}

func TestParser_StatusShadowedInAgentResponse(t *testing.T) {
	p := NewParser()

	events := p.Parse("AGENT_RESPONSE:\nCONTEXT_STATUS:deploying\n")

	// Payload dispatch takes priority: the line streams as narration text.
	require.Len(t, events, 1)

	text, ok := events[0].(*event.TextEvent)
	require.True(t, ok)
	assert.Equal(t, "CONTEXT_STATUS:deploying\n", text.Text)
}

func TestParser_IdleIgnoresUnknownLines(t *testing.T) {
	p := NewParser()

	events := p.Parse("random noise\nanother line\n")

	assert.Empty(t, events)
	assert.Equal(t, StateIdle, p.State())
}

func TestParser_MarkersRecognizedWithSurroundingWhitespace(t *testing.T) {
	p := NewParser()

	events := p.Parse("  AGENT_RESPONSE:  \nhi\n")

	require.Len(t, events, 1)
	assert.Equal(t, "hi\n", events[0].(*event.TextEvent).Text)
}

func TestParser_PartialLineRetainedAcrossChunks(t *testing.T) {
	p := NewParser()

	events := p.Parse("AGENT_RESPONSE:\nhel")
	assert.Empty(t, events)
	assert.Equal(t, "hel", p.Buffer())

	events = p.Parse("lo\n")
	require.Len(t, events, 1)
	assert.Equal(t, "hello\n", events[0].(*event.TextEvent).Text)
	assert.Empty(t, p.Buffer())
}

func TestParser_MarkerSplitAcrossChunks(t *testing.T) {
	p := NewParser()

	assert.Empty(t, p.Parse("TOOL_CA"))
	assert.Empty(t, p.Parse("LL:build\nTOOL_OUT"))

	events := p.Parse("PUT:\n")
	require.Len(t, events, 1)
	assert.Equal(t, "build", events[0].(*event.ToolUseEvent).Name)
}

// chunkBoundaryStream is a representative stream exercising every state.
const chunkBoundaryStream = "CONTEXT_STATUS:planning\n" +
	"AGENT_RESPONSE:\n" +
	"thinking about it\n" +
	"TOOL_CALL:build\n" +
	"TOOL_ARG:path=/tmp/x\n" +
	"TOOL_ARG:flag=true\n" +
	"TOOL_OUTPUT:\n" +
	"  compiled ok\n" +
	"END_TOOL_OUTPUT\n" +
	"FINAL_OUTPUT:\n" +
	"done\n"

func TestParser_ChunkBoundaryInvariance(t *testing.T) {
	whole := NewParser().Parse(chunkBoundaryStream)

	for size := 1; size <= len(chunkBoundaryStream); size++ {
		p := NewParser()

		var chunked []event.Event

		for start := 0; start < len(chunkBoundaryStream); start += size {
			end := min(start+size, len(chunkBoundaryStream))
			chunked = append(chunked, p.Parse(chunkBoundaryStream[start:end])...)
		}

		require.Len(t, chunked, len(whole), "chunk size %d", size)

		for i := range whole {
			switch want := whole[i].(type) {
			case *event.StatusEvent:
				got, ok := chunked[i].(*event.StatusEvent)
				require.True(t, ok, "chunk size %d event %d", size, i)
				assert.Equal(t, want.Message, got.Message)
			default:
				assert.Equal(t, want, chunked[i], "chunk size %d event %d", size, i)
			}
		}
	}
}

func TestParser_FlushDiscardsPartialLine(t *testing.T) {
	p := NewParser()

	p.Parse("AGENT_RESPONSE:\ntrailing without terminator")

	events := p.Flush()
	assert.Empty(t, events)
	assert.Empty(t, p.Buffer())

	// State is untouched by Flush; only the buffer is dropped.
	assert.Equal(t, StateAgentResponse, p.State())
}

func TestParser_Reset(t *testing.T) {
	p := NewParser()

	p.Parse("TOOL_CALL:build\nTOOL_ARG:a=1\npartial tail")
	p.Reset()

	assert.Equal(t, StateIdle, p.State())
	assert.Empty(t, p.Buffer())
	assert.Empty(t, p.ToolOutput())

	// A fresh stream parses as if the parser were new.
	events := p.Parse("CONTEXT_STATUS:ready\n")
	require.Len(t, events, 1)
	assert.Equal(t, "ready", events[0].(*event.StatusEvent).Message)
}

func TestParser_EmptyChunk(t *testing.T) {
	p := NewParser()

	assert.Empty(t, p.Parse(""))
	assert.Empty(t, p.Buffer())
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateAgentResponse, "agent_response"},
		{StateToolArgs, "tool_args"},
		{StateToolOutput, "tool_output"},
		{StateFinalOutput, "final_output"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}
