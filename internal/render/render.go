// Package render turns raw session-server events into a human-readable
// transcript. Events arrive out of the order a reader would expect: part
// deltas may precede their message's metadata, full-content snapshots repeat
// already-streamed text, and tool calls report every status transition. The
// Renderer reconstructs identity relationships incrementally and suppresses
// everything a reader has already seen.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/ansi"

	"github.com/tylium-run/oc-cli/internal/api"
)

// truncateBudget is the visible-width budget for tool errors and subtask
// descriptions.
const truncateBudget = 60

// diffFileLimit caps the per-file lines rendered for one session.diff event.
const diffFileLimit = 8

// Renderer carries the state accumulated over one stream subscription:
// which message belongs to whom, which parts already streamed as deltas,
// which tool calls already displayed, and which role's header each session
// printed last. One Renderer serves exactly one subscription and is
// discarded with it; it is not safe for concurrent use.
type Renderer struct {
	out    io.Writer
	styles styleSet

	roles    map[string]string // messageID → role
	models   map[string]string // messageID → providerID/modelID
	sessions map[string]string // messageID → sessionID

	streamed   map[string]bool   // partID → received at least one delta
	toolsShown map[string]bool   // callID → already displayed
	headerRole map[string]string // sessionID → role of the last printed header

	wroteAny  bool // any transcript output emitted yet
	streaming bool // delta text in progress without a trailing newline
}

// New creates a Renderer that direct-writes streamed text to out. All
// identity maps and dedup sets start empty.
func New(out io.Writer) *Renderer {
	return &Renderer{
		out:        out,
		styles:     newStyleSet(out),
		roles:      make(map[string]string),
		models:     make(map[string]string),
		sessions:   make(map[string]string),
		streamed:   make(map[string]bool),
		toolsShown: make(map[string]bool),
		headerRole: make(map[string]string),
	}
}

// FormatEvent maps one event to zero or more display lines. Streamed text
// deltas are the one exception: chunks must appear immediately, so that
// branch writes headers and the raw delta straight to the sink instead of
// returning them. Unrecognized event types produce no lines and no state
// change.
func (r *Renderer) FormatEvent(ev *api.Event) []string {
	if ev == nil {
		return nil
	}

	var lines []string
	switch ev.Type {
	case api.EventServerConnected:
		lines = []string{r.styles.dim.Render("Connected")}

	case api.EventSessionCreated:
		var p api.SessionPayload
		_ = ev.Decode(&p)
		lines = r.sessionCreatedLines(p.Info)

	case api.EventSessionDeleted:
		var p api.SessionPayload
		_ = ev.Decode(&p)
		lines = []string{"Session deleted " + r.styles.dim.Render(p.Info.ID)}

	case api.EventSessionStatus:
		var p api.SessionStatusPayload
		_ = ev.Decode(&p)
		if p.Status.Type == api.StatusRetry {
			line := fmt.Sprintf("Retrying (attempt %d)", p.Status.Attempt)
			if p.Status.Message != "" {
				line += ": " + p.Status.Message
			}
			lines = []string{r.styles.dim.Render(line)}
		}

	case api.EventSessionError:
		lines = []string{r.styles.err.Render("Error: " + SessionErrorText(ev))}

	case api.EventMessageUpdated:
		var p api.MessagePayload
		_ = ev.Decode(&p)
		r.recordMessage(p.Info)

	case api.EventPartDelta:
		var p api.PartDeltaPayload
		_ = ev.Decode(&p)
		r.streamDelta(p)

	case api.EventPartUpdated:
		var p api.PartPayload
		_ = ev.Decode(&p)
		lines = r.partLines(p.Part)

	case api.EventFileEdited:
		var p api.FileEditedPayload
		_ = ev.Decode(&p)
		if p.File != "" {
			lines = []string{r.styles.dim.Render("Edited") + " " + p.File}
		}

	case api.EventSessionDiff:
		var p api.SessionDiffPayload
		_ = ev.Decode(&p)
		lines = r.diffLines(p.Diff)

	case api.EventPermissionAsked:
		var p api.PermissionAskedPayload
		_ = ev.Decode(&p)
		lines = r.permissionAskedLines(p)

	case api.EventPermissionUpdated:
		var p api.PermissionUpdatedPayload
		_ = ev.Decode(&p)
		lines = []string{"Permission: " + p.Title}

	case api.EventPermissionReplied:
		var p api.PermissionRepliedPayload
		_ = ev.Decode(&p)
		if p.Reply == api.ReplyReject {
			lines = []string{"Rejected"}
		} else {
			lines = []string{fmt.Sprintf("Permitted (%s)", p.Reply)}
		}

	case api.EventQuestionAsked:
		var p api.QuestionAskedPayload
		_ = ev.Decode(&p)
		lines = r.questionAskedLines(p)

	case api.EventQuestionReplied:
		var p api.QuestionRepliedPayload
		_ = ev.Decode(&p)
		lines = []string{fmt.Sprintf("Answered: %v", p.Answers)}

	case api.EventQuestionRejected:
		lines = []string{"Question rejected"}

	case api.EventTodoUpdated:
		var p api.TodoPayload
		_ = ev.Decode(&p)
		lines = r.todoLines(p.Todos)
	}

	if len(lines) > 0 {
		r.finishStream()
		r.wroteAny = true
	}
	return lines
}

// Render formats ev and writes the resulting lines to the sink.
func (r *Renderer) Render(ev *api.Event) {
	for _, line := range r.FormatEvent(ev) {
		fmt.Fprintln(r.out, line)
	}
}

// Flush terminates any in-progress text stream with a newline. Call it when
// the subscription ends so the last streamed chunk does not leave the cursor
// mid-line.
func (r *Renderer) Flush() {
	r.finishStream()
}

func (r *Renderer) finishStream() {
	if r.streaming {
		fmt.Fprintln(r.out)
		r.streaming = false
	}
}

func (r *Renderer) sessionCreatedLines(info api.Session) []string {
	var lines []string
	if r.wroteAny {
		lines = append(lines, r.styles.dim.Render(strings.Repeat("─", 40)))
	}
	name := info.Title
	if name == "" {
		name = info.Slug
	}
	line := r.styles.dim.Render(info.ID)
	if name != "" {
		line = name + " " + line
	}
	return append(lines, line)
}

func (r *Renderer) recordMessage(info api.Message) {
	if info.ID == "" {
		return
	}
	if info.Role != "" {
		r.roles[info.ID] = info.Role
	}
	if info.SessionID != "" {
		r.sessions[info.ID] = info.SessionID
	}
	if info.IsAssistant() && info.ProviderID != "" && info.ModelID != "" {
		r.models[info.ID] = info.ProviderID + "/" + info.ModelID
	}
}

// streamDelta direct-writes one streamed text chunk, emitting the role
// header first when this is the start of a new same-role run. Fields other
// than "text" are reserved for future channels and stay silent.
func (r *Renderer) streamDelta(p api.PartDeltaPayload) {
	if p.Field != "text" || p.Delta == "" {
		return
	}
	if p.PartID != "" {
		r.streamed[p.PartID] = true
	}

	sessionID := p.SessionID
	if sessionID == "" {
		sessionID = r.sessions[p.MessageID]
	}
	role := r.roles[p.MessageID]
	if role == "" {
		// Deltas only stream assistant output; metadata may lag behind.
		role = "assistant"
	}

	if header := r.headerLines(sessionID, role, r.models[p.MessageID]); len(header) > 0 {
		r.finishStream()
		for _, line := range header {
			fmt.Fprintln(r.out, line)
		}
	}
	fmt.Fprint(r.out, p.Delta)
	r.streaming = !strings.HasSuffix(p.Delta, "\n")
	r.wroteAny = true
}

// headerLines returns the separator and role-header lines owed before output
// attributed to role, and marks that header as shown for the session. One
// header prints per contiguous same-role run; output from the other role
// resets the run.
func (r *Renderer) headerLines(sessionID, role, model string) []string {
	if role == "" || r.headerRole[sessionID] == role {
		return nil
	}
	r.headerRole[sessionID] = role

	var lines []string
	if r.wroteAny {
		lines = append(lines, "")
	}

	var title string
	switch role {
	case "user":
		title = "User"
	case "assistant":
		title = "Assistant"
	default:
		title = strings.ToUpper(role[:1]) + role[1:]
	}
	header := r.styles.bold.Render(title)
	if role == "assistant" && model != "" {
		header += " " + r.styles.dim.Render("("+model+")")
	}
	return append(lines, header)
}

func (r *Renderer) partLines(part api.Part) []string {
	switch part.Type {
	case api.PartText:
		return r.textPartLines(part)
	case api.PartTool:
		return r.toolPartLines(part)
	case api.PartSubtask:
		desc := part.Description
		if desc == "" {
			desc = part.Text
		}
		if desc == "" {
			return nil
		}
		return []string{"  " + r.styles.dim.Render(Truncate(desc, truncateBudget))}
	default:
		// step-start, step-finish, and unknown part types are bookkeeping.
		return nil
	}
}

// textPartLines renders a full text snapshot. Snapshots for parts that
// already streamed as deltas duplicate emitted content and are skipped, as
// are the empty placeholder snapshots that precede streaming.
func (r *Renderer) textPartLines(part api.Part) []string {
	if part.Text == "" || r.streamed[part.ID] {
		return nil
	}

	role := r.roles[part.MessageID]
	sessionID := part.SessionID
	if sessionID == "" {
		sessionID = r.sessions[part.MessageID]
	}

	lines := r.headerLines(sessionID, role, r.models[part.MessageID])
	if role == "user" {
		for _, l := range strings.Split(part.Text, "\n") {
			lines = append(lines, r.styles.dim.Render(">")+" "+l)
		}
		return lines
	}
	// Non-user snapshot that never streamed; show it whole.
	return append(lines, part.Text)
}

func (r *Renderer) toolPartLines(part api.Part) []string {
	if part.State == nil {
		return nil
	}
	key := part.CallID
	if key == "" {
		key = part.ID
	}
	name := part.Tool
	if part.State.Title != nil && *part.State.Title != "" {
		name = *part.State.Title
	}
	if name == "" {
		name = "tool"
	}

	switch part.State.Status {
	case api.ToolRunning, api.ToolCompleted:
		if r.toolsShown[key] {
			return nil
		}
		r.toolsShown[key] = true
		return []string{"  " + r.styles.dim.Render(name)}
	case api.ToolError:
		r.toolsShown[key] = true
		msg := name
		if excerpt := Truncate(part.State.Error, truncateBudget); excerpt != "" {
			msg += ": " + excerpt
		}
		return []string{"  " + r.styles.err.Render(msg)}
	default:
		// pending and unknown statuses stay quiet
		return nil
	}
}

func (r *Renderer) diffLines(diffs []api.FileDiff) []string {
	if len(diffs) == 0 {
		return nil
	}
	lines := make([]string, 0, diffFileLimit+1)
	for i, d := range diffs {
		if i == diffFileLimit {
			lines = append(lines, "  "+r.styles.dim.Render(fmt.Sprintf("and %d more files", len(diffs)-diffFileLimit)))
			break
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s",
			d.File,
			r.styles.add.Render(fmt.Sprintf("+%d", d.Additions)),
			r.styles.del.Render(fmt.Sprintf("-%d", d.Deletions))))
	}
	return lines
}

func (r *Renderer) permissionAskedLines(p api.PermissionAskedPayload) []string {
	title := p.Title
	if title == "" {
		title = p.ID
	}
	lines := []string{"", r.styles.bold.Render("Permission: " + title)}
	for _, pattern := range p.Patterns {
		lines = append(lines, "  "+pattern)
	}
	return append(lines,
		r.styles.dim.Render(fmt.Sprintf("  Reply: oc permission reply %s <once|always|reject>", p.ID)),
		"")
}

func (r *Renderer) questionAskedLines(p api.QuestionAskedPayload) []string {
	if len(p.Questions) == 0 {
		return nil
	}
	lines := []string{""}
	for _, q := range p.Questions {
		lines = append(lines, r.styles.bold.Render(q.Question))
		if q.Header != "" {
			lines = append(lines, r.styles.dim.Render(q.Header))
		}
		for i, opt := range q.Options {
			line := fmt.Sprintf("  %d. %s", i+1, opt.Label)
			if opt.Description != "" {
				line += " " + r.styles.dim.Render(opt.Description)
			}
			lines = append(lines, line)
		}
		if q.Multiple {
			lines = append(lines, r.styles.dim.Render("  (multiple selections allowed)"))
		}
	}
	return append(lines,
		r.styles.dim.Render(fmt.Sprintf("  Answer: oc question answer %s <label...>", p.ID)),
		r.styles.dim.Render(fmt.Sprintf("  Reject: oc question reject %s", p.ID)),
		"")
}

func (r *Renderer) todoLines(todos []api.Todo) []string {
	if len(todos) == 0 {
		return nil
	}
	lines := make([]string, 0, len(todos))
	for _, t := range todos {
		var glyph string
		switch t.Status {
		case "completed":
			glyph = r.styles.add.Render("✓")
		case "in_progress":
			glyph = "→"
		case "cancelled":
			glyph = r.styles.dim.Render("✗")
		default:
			glyph = r.styles.dim.Render("○")
		}
		lines = append(lines, glyph+" "+t.Content)
	}
	return lines
}

// Truncate collapses whitespace runs to single spaces, trims, and cuts the
// result so it occupies at most max visible characters, ending in "..." when
// anything was cut. The budget applies to the cleaned string.
func Truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if ansi.PrintableRuneWidth(s) <= max {
		return s
	}
	if max <= 3 {
		return strings.Repeat(".", max)
	}
	budget := max - 3
	var b strings.Builder
	width := 0
	for _, r := range s {
		rw := ansi.PrintableRuneWidth(string(r))
		if width+rw > budget {
			break
		}
		b.WriteRune(r)
		width += rw
	}
	return b.String() + "..."
}
