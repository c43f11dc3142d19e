package api

import "time"

// Now returns the current time in Unix milliseconds, the timestamp format
// the server uses throughout.
func Now() float64 {
	return float64(time.Now().UnixMilli())
}

// SessionTime represents timestamps for a session.
type SessionTime struct {
	Created  float64  `json:"created"`
	Updated  float64  `json:"updated"`
	Archived *float64 `json:"archived,omitempty"`
}

// Session represents a work session on the server.
type Session struct {
	ID        string      `json:"id"`
	ProjectID string      `json:"projectID,omitempty"`
	Directory string      `json:"directory,omitempty"`
	Title     string      `json:"title,omitempty"`
	Slug      string      `json:"slug,omitempty"`
	Version   string      `json:"version,omitempty"`
	Time      SessionTime `json:"time"`
	ParentID  *string     `json:"parentID,omitempty"`
}

// SessionStatus describes what a session is currently doing. The server's
// status map omits idle sessions entirely, so an absent entry means idle.
type SessionStatus struct {
	Type    string `json:"type"`
	Attempt int    `json:"attempt,omitempty"`
	Message string `json:"message,omitempty"`
}

// Session status types.
const (
	StatusIdle  = "idle"
	StatusBusy  = "busy"
	StatusRetry = "retry"
)

// IsIdle returns true when the status describes an idle session.
func (s *SessionStatus) IsIdle() bool {
	return s == nil || s.Type == "" || s.Type == StatusIdle
}

// FileDiff represents a file change accumulated by a session.
type FileDiff struct {
	File      string `json:"file"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// ModelInfo identifies a model and provider.
type ModelInfo struct {
	ProviderID string `json:"providerID"`
	ModelID    string `json:"modelID"`
}

// MessageTime represents timestamps for a message.
type MessageTime struct {
	Created   float64  `json:"created"`
	Completed *float64 `json:"completed,omitempty"`
}

// Message represents either a user or assistant message.
// Use the Role field to determine the type.
type Message struct {
	ID        string      `json:"id"`
	SessionID string      `json:"sessionID"`
	Role      string      `json:"role"` // "user" or "assistant"
	Time      MessageTime `json:"time"`

	// Assistant message fields
	ProviderID string `json:"providerID,omitempty"`
	ModelID    string `json:"modelID,omitempty"`
	Mode       string `json:"mode,omitempty"`
}

// IsUser returns true if this is a user message.
func (m *Message) IsUser() bool {
	return m.Role == "user"
}

// IsAssistant returns true if this is an assistant message.
func (m *Message) IsAssistant() bool {
	return m.Role == "assistant"
}

// PartTime represents timestamps for a part.
type PartTime struct {
	Start float64  `json:"start"`
	End   *float64 `json:"end,omitempty"`
}

// ToolState represents the state of a tool invocation.
type ToolState struct {
	Status string                 `json:"status"` // "pending", "running", "completed", "error"
	Input  map[string]interface{} `json:"input,omitempty"`
	Output string                 `json:"output,omitempty"`
	Title  *string                `json:"title,omitempty"`
	Error  string                 `json:"error,omitempty"`
	Time   *PartTime              `json:"time,omitempty"`
}

// Tool invocation statuses.
const (
	ToolPending   = "pending"
	ToolRunning   = "running"
	ToolCompleted = "completed"
	ToolError     = "error"
)

// Part represents any message part. Use the Type field to determine the
// specific kind; only the fields for that kind are populated.
type Part struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionID"`
	MessageID string `json:"messageID"`
	Type      string `json:"type"` // "text", "tool", "step-start", "step-finish", "subtask", ...

	// Text parts
	Text string    `json:"text,omitempty"`
	Time *PartTime `json:"time,omitempty"`

	// Tool parts
	CallID string     `json:"callID,omitempty"`
	Tool   string     `json:"tool,omitempty"`
	State  *ToolState `json:"state,omitempty"`

	// Subtask parts
	Description string `json:"description,omitempty"`
}

// Part types.
const (
	PartText       = "text"
	PartTool       = "tool"
	PartStepStart  = "step-start"
	PartStepFinish = "step-finish"
	PartSubtask    = "subtask"
)

// IsText returns true if this is a text part.
func (p *Part) IsText() bool {
	return p.Type == PartText
}

// IsTool returns true if this is a tool part.
func (p *Part) IsTool() bool {
	return p.Type == PartTool
}

// Todo is one entry of a session's todo list.
type Todo struct {
	Content string `json:"content"`
	Status  string `json:"status"` // "pending", "in_progress", "completed", "cancelled"
}

// CreateSessionRequest is the request body for creating a session.
type CreateSessionRequest struct {
	ParentID *string `json:"parentID,omitempty"`
	Title    *string `json:"title,omitempty"`
}

// UpdateSessionRequest is the request body for updating a session.
type UpdateSessionRequest struct {
	Title *string `json:"title,omitempty"`
}

// TextPartInput represents text input for a prompt.
type TextPartInput struct {
	Type string `json:"type"` // "text"
	Text string `json:"text"`
}

// FilePartInput represents file input for a prompt.
type FilePartInput struct {
	Type     string  `json:"type"` // "file"
	Mime     string  `json:"mime"`
	URL      string  `json:"url"`
	Filename *string `json:"filename,omitempty"`
}

// PromptRequest is the request body for dispatching a prompt.
type PromptRequest struct {
	Parts     []interface{} `json:"parts"` // TextPartInput or FilePartInput
	MessageID *string       `json:"messageID,omitempty"`
	Model     *ModelInfo    `json:"model,omitempty"`
	Agent     *string       `json:"agent,omitempty"`
}

// PermissionReplyRequest is the request body for answering a permission ask.
type PermissionReplyRequest struct {
	Reply string `json:"reply"` // "once", "always", "reject"
}

// Permission reply values.
const (
	ReplyOnce   = "once"
	ReplyAlways = "always"
	ReplyReject = "reject"
)

// QuestionReplyRequest is the request body for answering a question ask.
// One answer list per question, each entry an option label.
type QuestionReplyRequest struct {
	Answers [][]string `json:"answers"`
}

// HealthResponse is the response from the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
