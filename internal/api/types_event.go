package api

import "encoding/json"

// Event represents one SSE event from the server. Properties is kept raw
// because its shape depends on Type; decode it into the matching payload
// variant below.
type Event struct {
	Type       string          `json:"type"`
	Properties json.RawMessage `json:"properties"`
}

// Event types pushed on the global stream.
const (
	EventServerConnected = "server.connected"

	EventSessionCreated   = "session.created"
	EventSessionDeleted   = "session.deleted"
	EventSessionUpdated   = "session.updated"
	EventSessionStatus    = "session.status"
	EventSessionIdle      = "session.idle"
	EventSessionCompacted = "session.compacted"
	EventSessionError     = "session.error"
	EventSessionDiff      = "session.diff"

	EventMessageUpdated = "message.updated"
	EventMessageRemoved = "message.removed"
	EventPartUpdated    = "message.part.updated"
	EventPartDelta      = "message.part.delta"
	EventPartRemoved    = "message.part.removed"

	EventFileEdited = "file.edited"

	EventPermissionAsked   = "permission.asked"
	EventPermissionUpdated = "permission.updated"
	EventPermissionReplied = "permission.replied"

	EventQuestionAsked    = "question.asked"
	EventQuestionReplied  = "question.replied"
	EventQuestionRejected = "question.rejected"

	EventTodoUpdated = "todo.updated"
)

// Decode unmarshals the event's properties into v. Missing fields are left
// at their zero values; decode failures leave v untouched and are reported
// so callers can degrade instead of dropping the stream.
func (e *Event) Decode(v interface{}) error {
	if len(e.Properties) == 0 {
		return nil
	}
	return json.Unmarshal(e.Properties, v)
}

// SessionPayload is carried by session.created/deleted/updated events.
type SessionPayload struct {
	Info Session `json:"info"`
}

// SessionStatusPayload is carried by session.status events.
type SessionStatusPayload struct {
	SessionID string        `json:"sessionID"`
	Status    SessionStatus `json:"status"`
}

// SessionScopePayload is carried by session.idle and session.compacted.
type SessionScopePayload struct {
	SessionID string `json:"sessionID"`
}

// ErrorData is the structured inner error carried by session.error.
type ErrorData struct {
	Message string `json:"message,omitempty"`
}

// ErrorInfo is the error object carried by session.error.
type ErrorInfo struct {
	Name    string    `json:"name,omitempty"`
	Message string    `json:"message,omitempty"`
	Data    ErrorData `json:"data,omitempty"`
}

// SessionErrorPayload is carried by session.error events.
type SessionErrorPayload struct {
	SessionID string     `json:"sessionID"`
	Error     *ErrorInfo `json:"error,omitempty"`
}

// MessagePayload is carried by message.updated events.
type MessagePayload struct {
	Info Message `json:"info"`
}

// MessageRemovedPayload is carried by message.removed events.
type MessageRemovedPayload struct {
	SessionID string `json:"sessionID"`
	MessageID string `json:"messageID"`
}

// PartPayload is carried by message.part.updated events.
type PartPayload struct {
	Part Part `json:"part"`
}

// PartDeltaPayload is carried by message.part.delta events. Field names the
// part field the delta appends to (currently only "text" is rendered).
type PartDeltaPayload struct {
	SessionID string `json:"sessionID"`
	MessageID string `json:"messageID"`
	PartID    string `json:"partID"`
	Field     string `json:"field"`
	Delta     string `json:"delta"`
}

// PartRemovedPayload is carried by message.part.removed events.
type PartRemovedPayload struct {
	SessionID string `json:"sessionID"`
	MessageID string `json:"messageID"`
	PartID    string `json:"partID"`
}

// FileEditedPayload is carried by file.edited events.
type FileEditedPayload struct {
	File string `json:"file"`
}

// SessionDiffPayload is carried by session.diff events.
type SessionDiffPayload struct {
	SessionID string     `json:"sessionID"`
	Diff      []FileDiff `json:"diff,omitempty"`
}

// PermissionAskedPayload is carried by permission.asked events.
type PermissionAskedPayload struct {
	ID        string   `json:"id"`
	SessionID string   `json:"sessionID"`
	Title     string   `json:"title,omitempty"`
	Patterns  []string `json:"patterns,omitempty"`
}

// PermissionUpdatedPayload is carried by permission.updated events.
type PermissionUpdatedPayload struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionID"`
	Title     string `json:"title,omitempty"`
}

// PermissionRepliedPayload is carried by permission.replied events.
type PermissionRepliedPayload struct {
	SessionID string `json:"sessionID"`
	RequestID string `json:"requestID,omitempty"`
	Reply     string `json:"reply,omitempty"`
}

// QuestionOption is one selectable answer of a question.
type QuestionOption struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Question is one prompt within a question.asked event.
type Question struct {
	Question string           `json:"question"`
	Header   string           `json:"header,omitempty"`
	Options  []QuestionOption `json:"options,omitempty"`
	Multiple bool             `json:"multiple,omitempty"`
}

// QuestionAskedPayload is carried by question.asked events.
type QuestionAskedPayload struct {
	ID        string     `json:"id"`
	SessionID string     `json:"sessionID"`
	Questions []Question `json:"questions,omitempty"`
}

// QuestionRepliedPayload is carried by question.replied events.
type QuestionRepliedPayload struct {
	SessionID string     `json:"sessionID"`
	RequestID string     `json:"requestID,omitempty"`
	Answers   [][]string `json:"answers,omitempty"`
}

// QuestionRejectedPayload is carried by question.rejected events.
type QuestionRejectedPayload struct {
	SessionID string `json:"sessionID"`
	RequestID string `json:"requestID,omitempty"`
}

// TodoPayload is carried by todo.updated events.
type TodoPayload struct {
	SessionID string `json:"sessionID"`
	Todos     []Todo `json:"todos,omitempty"`
}
