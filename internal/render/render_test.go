package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"

	"github.com/tylium-run/oc-cli/internal/api"
	"github.com/tylium-run/oc-cli/internal/render"
)

// ev builds an event with marshaled properties.
func ev(t *testing.T, typ string, props interface{}) *api.Event {
	t.Helper()
	data, err := json.Marshal(props)
	if err != nil {
		t.Fatalf("marshal properties: %v", err)
	}
	return &api.Event{Type: typ, Properties: data}
}

func renderAll(r *render.Renderer, events ...*api.Event) {
	for _, e := range events {
		r.Render(e)
	}
}

func TestFormatEventTotality(t *testing.T) {
	t.Run("nil event", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		if lines := r.FormatEvent(nil); lines != nil {
			t.Errorf("expected no lines, got %v", lines)
		}
	})

	t.Run("unknown type is a no-op", func(t *testing.T) {
		var buf bytes.Buffer
		r := render.New(&buf)
		if lines := r.FormatEvent(ev(t, "llm.usage", map[string]interface{}{"tokens": 42})); lines != nil {
			t.Errorf("expected no lines, got %v", lines)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}

		// State must be untouched: the next session summary renders without
		// a leading rule, proving no output was recorded.
		r.Render(ev(t, api.EventSessionCreated, api.SessionPayload{Info: api.Session{ID: "ses_1"}}))
		if strings.Contains(buf.String(), "─") {
			t.Errorf("unknown event mutated state: %q", buf.String())
		}
	})

	t.Run("garbled properties degrade to zero values", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		e := &api.Event{Type: api.EventSessionError, Properties: json.RawMessage(`{"error":`)}
		lines := r.FormatEvent(e)
		if len(lines) != 1 || !strings.Contains(lines[0], "Unknown error") {
			t.Errorf("expected unknown-error line, got %v", lines)
		}
	})
}

func TestServerConnected(t *testing.T) {
	r := render.New(&bytes.Buffer{})
	lines := r.FormatEvent(&api.Event{Type: api.EventServerConnected})
	if len(lines) != 1 || lines[0] != "Connected" {
		t.Errorf("expected [Connected], got %v", lines)
	}
}

func TestSessionLines(t *testing.T) {
	t.Run("first summary has no rule", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventSessionCreated, api.SessionPayload{
			Info: api.Session{ID: "ses_1", Title: "Fix bug"},
		}))
		if len(lines) != 1 {
			t.Fatalf("expected 1 line, got %v", lines)
		}
		if lines[0] != "Fix bug ses_1" {
			t.Errorf("got %q", lines[0])
		}
	})

	t.Run("rule separates summaries after output", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		r.Render(ev(t, api.EventSessionCreated, api.SessionPayload{Info: api.Session{ID: "ses_1"}}))
		lines := r.FormatEvent(ev(t, api.EventSessionCreated, api.SessionPayload{
			Info: api.Session{ID: "ses_2"},
		}))
		if len(lines) != 2 {
			t.Fatalf("expected rule + summary, got %v", lines)
		}
		if lines[0] != strings.Repeat("─", 40) {
			t.Errorf("expected 40-column rule, got %q", lines[0])
		}
	})

	t.Run("slug stands in for a missing title", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventSessionCreated, api.SessionPayload{
			Info: api.Session{ID: "ses_1", Slug: "fix-bug"},
		}))
		if lines[0] != "fix-bug ses_1" {
			t.Errorf("got %q", lines[0])
		}
	})

	t.Run("id alone when nothing else is known", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventSessionCreated, api.SessionPayload{
			Info: api.Session{ID: "ses_1"},
		}))
		if lines[0] != "ses_1" {
			t.Errorf("got %q", lines[0])
		}
	})

	t.Run("deleted", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventSessionDeleted, api.SessionPayload{
			Info: api.Session{ID: "ses_1"},
		}))
		if len(lines) != 1 || lines[0] != "Session deleted ses_1" {
			t.Errorf("got %v", lines)
		}
	})
}

func TestSessionStatusLines(t *testing.T) {
	t.Run("retry with message", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventSessionStatus, api.SessionStatusPayload{
			SessionID: "ses_1",
			Status:    api.SessionStatus{Type: api.StatusRetry, Attempt: 3, Message: "rate limited"},
		}))
		if len(lines) != 1 || lines[0] != "Retrying (attempt 3): rate limited" {
			t.Errorf("got %v", lines)
		}
	})

	t.Run("retry without message", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventSessionStatus, api.SessionStatusPayload{
			SessionID: "ses_1",
			Status:    api.SessionStatus{Type: api.StatusRetry, Attempt: 1},
		}))
		if len(lines) != 1 || lines[0] != "Retrying (attempt 1)" {
			t.Errorf("got %v", lines)
		}
	})

	t.Run("busy is silent", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventSessionStatus, api.SessionStatusPayload{
			SessionID: "ses_1",
			Status:    api.SessionStatus{Type: api.StatusBusy},
		}))
		if lines != nil {
			t.Errorf("expected no lines, got %v", lines)
		}
	})
}

func TestSessionErrorLine(t *testing.T) {
	r := render.New(&bytes.Buffer{})
	lines := r.FormatEvent(ev(t, api.EventSessionError, api.SessionErrorPayload{
		SessionID: "ses_1",
		Error:     &api.ErrorInfo{Name: "ProviderError", Data: api.ErrorData{Message: "model overloaded"}},
	}))
	if len(lines) != 1 || lines[0] != "Error: model overloaded" {
		t.Errorf("got %v", lines)
	}
}

func TestUserText(t *testing.T) {
	t.Run("header and quote marker", func(t *testing.T) {
		var buf bytes.Buffer
		r := render.New(&buf)
		renderAll(r,
			ev(t, api.EventMessageUpdated, api.MessagePayload{
				Info: api.Message{ID: "m1", SessionID: "ses_1", Role: "user"},
			}),
			ev(t, api.EventPartUpdated, api.PartPayload{
				Part: api.Part{ID: "p1", SessionID: "ses_1", MessageID: "m1", Type: "text", Text: "fix the bug\nplease"},
			}),
		)
		want := "User\n> fix the bug\n> please\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})

	t.Run("one header per contiguous run", func(t *testing.T) {
		var buf bytes.Buffer
		r := render.New(&buf)
		renderAll(r,
			ev(t, api.EventMessageUpdated, api.MessagePayload{
				Info: api.Message{ID: "m1", SessionID: "ses_1", Role: "user"},
			}),
			ev(t, api.EventPartUpdated, api.PartPayload{
				Part: api.Part{ID: "p1", SessionID: "ses_1", MessageID: "m1", Type: "text", Text: "first"},
			}),
			ev(t, api.EventPartUpdated, api.PartPayload{
				Part: api.Part{ID: "p2", SessionID: "ses_1", MessageID: "m1", Type: "text", Text: "second"},
			}),
		)

		headers := 0
		for _, line := range strings.Split(buf.String(), "\n") {
			if line == "User" {
				headers++
			}
		}
		if headers != 1 {
			t.Errorf("expected 1 User header, got %d in %q", headers, buf.String())
		}
	})

	t.Run("role swap starts a new run", func(t *testing.T) {
		var buf bytes.Buffer
		r := render.New(&buf)
		renderAll(r,
			ev(t, api.EventMessageUpdated, api.MessagePayload{
				Info: api.Message{ID: "m1", SessionID: "ses_1", Role: "user"},
			}),
			ev(t, api.EventPartUpdated, api.PartPayload{
				Part: api.Part{ID: "p1", SessionID: "ses_1", MessageID: "m1", Type: "text", Text: "question one"},
			}),
			ev(t, api.EventPartDelta, api.PartDeltaPayload{
				SessionID: "ses_1", MessageID: "m2", PartID: "p2", Field: "text", Delta: "answer\n",
			}),
			ev(t, api.EventPartUpdated, api.PartPayload{
				Part: api.Part{ID: "p3", SessionID: "ses_1", MessageID: "m1", Type: "text", Text: "question two"},
			}),
		)

		userHeaders := 0
		for _, line := range strings.Split(buf.String(), "\n") {
			if line == "User" {
				userHeaders++
			}
		}
		if userHeaders != 2 {
			t.Errorf("expected 2 User headers around the assistant turn, got %d in %q", userHeaders, buf.String())
		}
	})
}

func TestStreamingDeltas(t *testing.T) {
	t.Run("chunks write through once the header is out", func(t *testing.T) {
		var buf bytes.Buffer
		r := render.New(&buf)
		renderAll(r,
			ev(t, api.EventMessageUpdated, api.MessagePayload{
				Info: api.Message{ID: "m2", SessionID: "ses_1", Role: "assistant", ProviderID: "anthropic", ModelID: "claude-sonnet-4"},
			}),
			ev(t, api.EventPartDelta, api.PartDeltaPayload{
				SessionID: "ses_1", MessageID: "m2", PartID: "p2", Field: "text", Delta: "Wor",
			}),
			ev(t, api.EventPartDelta, api.PartDeltaPayload{
				SessionID: "ses_1", MessageID: "m2", PartID: "p2", Field: "text", Delta: "king",
			}),
		)
		r.Flush()

		want := "Assistant (anthropic/claude-sonnet-4)\nWorking\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})

	t.Run("snapshot after deltas is suppressed", func(t *testing.T) {
		var buf bytes.Buffer
		r := render.New(&buf)
		r.Render(ev(t, api.EventPartDelta, api.PartDeltaPayload{
			SessionID: "ses_1", MessageID: "m2", PartID: "p2", Field: "text", Delta: "Working",
		}))
		lines := r.FormatEvent(ev(t, api.EventPartUpdated, api.PartPayload{
			Part: api.Part{ID: "p2", SessionID: "ses_1", MessageID: "m2", Type: "text", Text: "Working"},
		}))
		if lines != nil {
			t.Errorf("expected suppressed snapshot, got %v", lines)
		}
	})

	t.Run("unknown role defaults to assistant", func(t *testing.T) {
		var buf bytes.Buffer
		r := render.New(&buf)
		r.Render(ev(t, api.EventPartDelta, api.PartDeltaPayload{
			SessionID: "ses_1", MessageID: "m9", PartID: "p9", Field: "text", Delta: "hi\n",
		}))
		if !strings.HasPrefix(buf.String(), "Assistant\n") {
			t.Errorf("expected bare Assistant header, got %q", buf.String())
		}
	})

	t.Run("non-text fields and empty deltas are ignored", func(t *testing.T) {
		var buf bytes.Buffer
		r := render.New(&buf)
		renderAll(r,
			ev(t, api.EventPartDelta, api.PartDeltaPayload{
				SessionID: "ses_1", MessageID: "m2", PartID: "p2", Field: "reasoning", Delta: "thinking",
			}),
			ev(t, api.EventPartDelta, api.PartDeltaPayload{
				SessionID: "ses_1", MessageID: "m2", PartID: "p2", Field: "text", Delta: "",
			}),
		)
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("snapshot without prior deltas renders whole", func(t *testing.T) {
		var buf bytes.Buffer
		r := render.New(&buf)
		renderAll(r,
			ev(t, api.EventMessageUpdated, api.MessagePayload{
				Info: api.Message{ID: "m2", SessionID: "ses_1", Role: "assistant"},
			}),
			ev(t, api.EventPartUpdated, api.PartPayload{
				Part: api.Part{ID: "p2", SessionID: "ses_1", MessageID: "m2", Type: "text", Text: "All done."},
			}),
		)
		want := "Assistant\nAll done.\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})

	t.Run("empty placeholder snapshot is silent", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventPartUpdated, api.PartPayload{
			Part: api.Part{ID: "p2", SessionID: "ses_1", MessageID: "m2", Type: "text"},
		}))
		if lines != nil {
			t.Errorf("expected no lines, got %v", lines)
		}
	})
}

func TestToolLines(t *testing.T) {
	tool := func(callID, status string, state api.ToolState) *api.Event {
		state.Status = status
		p := api.Part{
			ID: "part_" + callID, SessionID: "ses_1", MessageID: "m2",
			Type: "tool", CallID: callID, Tool: "read", State: &state,
		}
		e, _ := json.Marshal(api.PartPayload{Part: p})
		return &api.Event{Type: api.EventPartUpdated, Properties: e}
	}

	t.Run("running shows once, completed dedups", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(tool("c1", api.ToolRunning, api.ToolState{}))
		if len(lines) != 1 || lines[0] != "  read" {
			t.Fatalf("got %v", lines)
		}
		if lines := r.FormatEvent(tool("c1", api.ToolCompleted, api.ToolState{Output: "contents"})); lines != nil {
			t.Errorf("expected dedup, got %v", lines)
		}
	})

	t.Run("completed without running still shows", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(tool("c2", api.ToolCompleted, api.ToolState{}))
		if len(lines) != 1 || lines[0] != "  read" {
			t.Errorf("got %v", lines)
		}
	})

	t.Run("pending is silent", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		if lines := r.FormatEvent(tool("c3", api.ToolPending, api.ToolState{})); lines != nil {
			t.Errorf("expected no lines, got %v", lines)
		}
	})

	t.Run("error always shows with excerpt", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		r.FormatEvent(tool("c4", api.ToolRunning, api.ToolState{}))
		lines := r.FormatEvent(tool("c4", api.ToolError, api.ToolState{Error: "file   not\nfound"}))
		if len(lines) != 1 || lines[0] != "  read: file not found" {
			t.Errorf("got %v", lines)
		}
	})

	t.Run("state title beats tool name", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(tool("c5", api.ToolRunning, api.ToolState{Title: api.String("Reading main.go")}))
		if len(lines) != 1 || lines[0] != "  Reading main.go" {
			t.Errorf("got %v", lines)
		}
	})

	t.Run("part id keys when call id is absent", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		p := api.Part{ID: "p7", SessionID: "ses_1", MessageID: "m2", Type: "tool", Tool: "bash", State: &api.ToolState{Status: api.ToolRunning}}
		r.FormatEvent(ev(t, api.EventPartUpdated, api.PartPayload{Part: p}))
		p.State = &api.ToolState{Status: api.ToolCompleted}
		if lines := r.FormatEvent(ev(t, api.EventPartUpdated, api.PartPayload{Part: p})); lines != nil {
			t.Errorf("expected dedup on part id, got %v", lines)
		}
	})

	t.Run("missing state is silent", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		p := api.Part{ID: "p8", Type: "tool", Tool: "bash"}
		if lines := r.FormatEvent(ev(t, api.EventPartUpdated, api.PartPayload{Part: p})); lines != nil {
			t.Errorf("expected no lines, got %v", lines)
		}
	})
}

func TestSubtaskLines(t *testing.T) {
	r := render.New(&bytes.Buffer{})
	long := strings.Repeat("investigate the flaky integration suite ", 4)
	lines := r.FormatEvent(ev(t, api.EventPartUpdated, api.PartPayload{
		Part: api.Part{ID: "p1", SessionID: "ses_1", Type: "subtask", Description: long},
	}))
	if len(lines) != 1 {
		t.Fatalf("got %v", lines)
	}
	if !strings.HasPrefix(lines[0], "  ") || !strings.HasSuffix(lines[0], "...") {
		t.Errorf("got %q", lines[0])
	}
	if w := ansi.PrintableRuneWidth(strings.TrimPrefix(lines[0], "  ")); w != 60 {
		t.Errorf("expected 60 visible characters, got %d", w)
	}
}

func TestStepPartsSilent(t *testing.T) {
	r := render.New(&bytes.Buffer{})
	for _, typ := range []string{api.PartStepStart, api.PartStepFinish, "patch"} {
		lines := r.FormatEvent(ev(t, api.EventPartUpdated, api.PartPayload{
			Part: api.Part{ID: "p1", Type: typ},
		}))
		if lines != nil {
			t.Errorf("%s: expected no lines, got %v", typ, lines)
		}
	}
}

func TestFileEdited(t *testing.T) {
	r := render.New(&bytes.Buffer{})
	lines := r.FormatEvent(ev(t, api.EventFileEdited, api.FileEditedPayload{File: "main.go"}))
	if len(lines) != 1 || lines[0] != "Edited main.go" {
		t.Errorf("got %v", lines)
	}
	if lines := r.FormatEvent(ev(t, api.EventFileEdited, api.FileEditedPayload{})); lines != nil {
		t.Errorf("expected no lines for empty filename, got %v", lines)
	}
}

func TestDiffLines(t *testing.T) {
	t.Run("one line per file", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventSessionDiff, api.SessionDiffPayload{
			SessionID: "ses_1",
			Diff: []api.FileDiff{
				{File: "main.go", Additions: 10, Deletions: 2},
				{File: "util.go", Additions: 1, Deletions: 0},
			},
		}))
		want := []string{"  main.go +10 -2", "  util.go +1 -0"}
		if len(lines) != 2 || lines[0] != want[0] || lines[1] != want[1] {
			t.Errorf("got %v, want %v", lines, want)
		}
	})

	t.Run("capped with a summary line", func(t *testing.T) {
		diffs := make([]api.FileDiff, 10)
		for i := range diffs {
			diffs[i] = api.FileDiff{File: "f.go", Additions: 1}
		}
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventSessionDiff, api.SessionDiffPayload{SessionID: "ses_1", Diff: diffs}))
		if len(lines) != 9 {
			t.Fatalf("expected 8 + summary, got %d lines", len(lines))
		}
		if lines[8] != "  and 2 more files" {
			t.Errorf("got %q", lines[8])
		}
	})

	t.Run("empty is silent", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		if lines := r.FormatEvent(ev(t, api.EventSessionDiff, api.SessionDiffPayload{SessionID: "ses_1"})); lines != nil {
			t.Errorf("expected no lines, got %v", lines)
		}
	})
}

func TestPermissionLines(t *testing.T) {
	t.Run("asked block", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventPermissionAsked, api.PermissionAskedPayload{
			ID: "perm_1", SessionID: "ses_1", Title: "Write to main.go",
			Patterns: []string{"main.go", "go.mod"},
		}))
		want := []string{
			"",
			"Permission: Write to main.go",
			"  main.go",
			"  go.mod",
			"  Reply: oc permission reply perm_1 <once|always|reject>",
			"",
		}
		if len(lines) != len(want) {
			t.Fatalf("got %d lines %v", len(lines), lines)
		}
		for i := range want {
			if lines[i] != want[i] {
				t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
			}
		}
	})

	t.Run("updated", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventPermissionUpdated, api.PermissionUpdatedPayload{
			ID: "perm_1", SessionID: "ses_1", Title: "Run tests",
		}))
		if len(lines) != 1 || lines[0] != "Permission: Run tests" {
			t.Errorf("got %v", lines)
		}
	})

	t.Run("replied", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventPermissionReplied, api.PermissionRepliedPayload{
			SessionID: "ses_1", RequestID: "perm_1", Reply: api.ReplyAlways,
		}))
		if len(lines) != 1 || lines[0] != "Permitted (always)" {
			t.Errorf("got %v", lines)
		}

		lines = r.FormatEvent(ev(t, api.EventPermissionReplied, api.PermissionRepliedPayload{
			SessionID: "ses_1", RequestID: "perm_2", Reply: api.ReplyReject,
		}))
		if len(lines) != 1 || lines[0] != "Rejected" {
			t.Errorf("got %v", lines)
		}
	})
}

func TestQuestionLines(t *testing.T) {
	t.Run("asked block", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventQuestionAsked, api.QuestionAskedPayload{
			ID: "q_1", SessionID: "ses_1",
			Questions: []api.Question{{
				Question: "Which approach?",
				Header:   "Two ways to fix this",
				Options: []api.QuestionOption{
					{Label: "patch", Description: "smallest change"},
					{Label: "rewrite"},
				},
				Multiple: true,
			}},
		}))
		want := []string{
			"",
			"Which approach?",
			"Two ways to fix this",
			"  1. patch smallest change",
			"  2. rewrite",
			"  (multiple selections allowed)",
			"  Answer: oc question answer q_1 <label...>",
			"  Reject: oc question reject q_1",
			"",
		}
		if len(lines) != len(want) {
			t.Fatalf("got %d lines %v", len(lines), lines)
		}
		for i := range want {
			if lines[i] != want[i] {
				t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
			}
		}
	})

	t.Run("empty ask is silent", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		if lines := r.FormatEvent(ev(t, api.EventQuestionAsked, api.QuestionAskedPayload{ID: "q_2", SessionID: "ses_1"})); lines != nil {
			t.Errorf("expected no lines, got %v", lines)
		}
	})

	t.Run("replied and rejected", func(t *testing.T) {
		r := render.New(&bytes.Buffer{})
		lines := r.FormatEvent(ev(t, api.EventQuestionReplied, api.QuestionRepliedPayload{
			SessionID: "ses_1", RequestID: "q_1", Answers: [][]string{{"patch"}},
		}))
		if len(lines) != 1 || lines[0] != "Answered: [[patch]]" {
			t.Errorf("got %v", lines)
		}

		lines = r.FormatEvent(ev(t, api.EventQuestionRejected, api.QuestionRejectedPayload{
			SessionID: "ses_1", RequestID: "q_1",
		}))
		if len(lines) != 1 || lines[0] != "Question rejected" {
			t.Errorf("got %v", lines)
		}
	})
}

func TestTodoLines(t *testing.T) {
	r := render.New(&bytes.Buffer{})
	lines := r.FormatEvent(ev(t, api.EventTodoUpdated, api.TodoPayload{
		SessionID: "ses_1",
		Todos: []api.Todo{
			{Content: "write tests", Status: "completed"},
			{Content: "fix race", Status: "in_progress"},
			{Content: "update docs", Status: "cancelled"},
			{Content: "ship it", Status: "pending"},
		},
	}))
	want := []string{"✓ write tests", "→ fix race", "✗ update docs", "○ ship it"}
	if len(lines) != len(want) {
		t.Fatalf("got %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}

	if lines := r.FormatEvent(ev(t, api.EventTodoUpdated, api.TodoPayload{SessionID: "ses_1"})); lines != nil {
		t.Errorf("expected no lines for empty list, got %v", lines)
	}
}

func TestTruncate(t *testing.T) {
	t.Run("short strings pass through", func(t *testing.T) {
		if got := render.Truncate("hello", 60); got != "hello" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("whitespace runs collapse", func(t *testing.T) {
		if got := render.Truncate("  a\t\tb\n\nc  ", 60); got != "a b c" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("cut to exactly the budget with a marker", func(t *testing.T) {
		got := render.Truncate(strings.Repeat("a", 70), 60)
		if !strings.HasSuffix(got, "...") {
			t.Fatalf("missing marker: %q", got)
		}
		if w := ansi.PrintableRuneWidth(got); w != 60 {
			t.Errorf("expected width 60, got %d (%q)", w, got)
		}
		if got != strings.Repeat("a", 57)+"..." {
			t.Errorf("got %q", got)
		}
	})

	t.Run("budget boundary is inclusive", func(t *testing.T) {
		exact := strings.Repeat("b", 60)
		if got := render.Truncate(exact, 60); got != exact {
			t.Errorf("got %q", got)
		}
	})

	t.Run("collapse happens before the budget is measured", func(t *testing.T) {
		in := strings.Repeat("a", 22) + strings.Repeat(" \t", 6) +
			strings.Repeat("b", 22) + strings.Repeat("\n ", 6) +
			strings.Repeat("c", 22)
		if len(in) != 90 {
			t.Fatalf("fixture is %d bytes, want 90", len(in))
		}
		got := render.Truncate(in, 60)
		if w := ansi.PrintableRuneWidth(got); w != 60 {
			t.Errorf("expected width 60, got %d (%q)", w, got)
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("missing marker: %q", got)
		}
	})

	t.Run("multibyte runes measure by width", func(t *testing.T) {
		got := render.Truncate(strings.Repeat("é", 70), 60)
		if w := ansi.PrintableRuneWidth(got); w != 60 {
			t.Errorf("expected width 60, got %d", w)
		}
	})

	t.Run("tiny budgets degrade to dots", func(t *testing.T) {
		if got := render.Truncate("abcdef", 3); got != "..." {
			t.Errorf("got %q", got)
		}
	})
}

// TestTranscript drives the classifier through a full exchange and pins the
// byte-exact transcript.
func TestTranscript(t *testing.T) {
	var buf bytes.Buffer
	r := render.New(&buf)

	renderAll(r,
		ev(t, api.EventSessionCreated, api.SessionPayload{
			Info: api.Session{ID: "ses_1", Title: "Fix bug"},
		}),
		ev(t, api.EventMessageUpdated, api.MessagePayload{
			Info: api.Message{ID: "m1", SessionID: "ses_1", Role: "user"},
		}),
		ev(t, api.EventPartUpdated, api.PartPayload{
			Part: api.Part{ID: "p1", SessionID: "ses_1", MessageID: "m1", Type: "text", Text: "fix bug"},
		}),
		ev(t, api.EventMessageUpdated, api.MessagePayload{
			Info: api.Message{ID: "m2", SessionID: "ses_1", Role: "assistant", ProviderID: "anthropic", ModelID: "claude-sonnet-4"},
		}),
		ev(t, api.EventPartDelta, api.PartDeltaPayload{
			SessionID: "ses_1", MessageID: "m2", PartID: "p2", Field: "text", Delta: "Wor",
		}),
		ev(t, api.EventPartDelta, api.PartDeltaPayload{
			SessionID: "ses_1", MessageID: "m2", PartID: "p2", Field: "text", Delta: "king",
		}),
		ev(t, api.EventPartUpdated, api.PartPayload{
			Part: api.Part{ID: "p2", SessionID: "ses_1", MessageID: "m2", Type: "text", Text: "Working"},
		}),
		ev(t, api.EventPartUpdated, api.PartPayload{
			Part: api.Part{ID: "p3", SessionID: "ses_1", MessageID: "m2", Type: "tool", CallID: "c1", Tool: "read", State: &api.ToolState{Status: api.ToolRunning}},
		}),
		ev(t, api.EventPartUpdated, api.PartPayload{
			Part: api.Part{ID: "p3", SessionID: "ses_1", MessageID: "m2", Type: "tool", CallID: "c1", Tool: "read", State: &api.ToolState{Status: api.ToolCompleted}},
		}),
		ev(t, api.EventSessionIdle, api.SessionScopePayload{SessionID: "ses_1"}),
	)
	r.Flush()

	want := `Fix bug ses_1

User
> fix bug

Assistant (anthropic/claude-sonnet-4)
Working
  read
`
	if buf.String() != want {
		t.Errorf("transcript mismatch:\ngot:\n%q\nwant:\n%q", buf.String(), want)
	}
}
