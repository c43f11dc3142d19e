package render

import (
	"github.com/tidwall/gjson"

	"github.com/tylium-run/oc-cli/internal/api"
)

// sessionIDPaths lists where event payloads carry their session identifier,
// probed in order. Scope events use the top-level field, entity events nest
// it under info or part.
var sessionIDPaths = []string{
	"sessionID",
	"info.id",
	"info.sessionID",
	"part.sessionID",
}

// MatchesSession reports whether ev belongs to sessionID. The connection
// handshake passes for every session; events carrying no recognizable
// session identifier are rejected rather than leaked across sessions.
func MatchesSession(ev *api.Event, sessionID string) bool {
	if ev == nil {
		return false
	}
	if ev.Type == api.EventServerConnected {
		return true
	}
	props := string(ev.Properties)
	for _, path := range sessionIDPaths {
		if v := gjson.Get(props, path); v.Exists() {
			if v.String() == sessionID {
				return true
			}
		}
	}
	return false
}

// SessionErrorText extracts the human-readable message from a session.error
// event, preferring the nested data message over the error's own, with a
// fixed fallback when neither is present.
func SessionErrorText(ev *api.Event) string {
	props := string(ev.Properties)
	if msg := gjson.Get(props, "error.data.message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	if msg := gjson.Get(props, "error.message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	return "Unknown error"
}
