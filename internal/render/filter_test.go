package render_test

import (
	"encoding/json"
	"testing"

	"github.com/tylium-run/oc-cli/internal/api"
	"github.com/tylium-run/oc-cli/internal/render"
)

func TestMatchesSession(t *testing.T) {
	cases := []struct {
		name  string
		typ   string
		props string
		want  bool
	}{
		{
			name:  "top-level sessionID",
			typ:   api.EventSessionIdle,
			props: `{"sessionID":"ses_1"}`,
			want:  true,
		},
		{
			name:  "session entity id",
			typ:   api.EventSessionCreated,
			props: `{"info":{"id":"ses_1","title":"Fix bug"}}`,
			want:  true,
		},
		{
			name:  "nested info sessionID",
			typ:   api.EventMessageUpdated,
			props: `{"info":{"id":"m1","sessionID":"ses_1","role":"user"}}`,
			want:  true,
		},
		{
			name:  "nested part sessionID",
			typ:   api.EventPartUpdated,
			props: `{"part":{"id":"p1","sessionID":"ses_1","type":"text"}}`,
			want:  true,
		},
		{
			name:  "connection handshake matches every session",
			typ:   api.EventServerConnected,
			props: `{}`,
			want:  true,
		},
		{
			name:  "other session rejected",
			typ:   api.EventSessionIdle,
			props: `{"sessionID":"ses_2"}`,
			want:  false,
		},
		{
			name:  "other session entity rejected",
			typ:   api.EventSessionCreated,
			props: `{"info":{"id":"ses_2"}}`,
			want:  false,
		},
		{
			name:  "no session identifier rejected",
			typ:   "storage.write",
			props: `{"key":"value"}`,
			want:  false,
		},
		{
			name:  "empty properties rejected",
			typ:   api.EventTodoUpdated,
			props: ``,
			want:  false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := &api.Event{Type: tc.typ, Properties: json.RawMessage(tc.props)}
			if got := render.MatchesSession(e, "ses_1"); got != tc.want {
				t.Errorf("MatchesSession(%s) = %v, want %v", tc.typ, got, tc.want)
			}
		})
	}

	t.Run("nil event rejected", func(t *testing.T) {
		if render.MatchesSession(nil, "ses_1") {
			t.Error("expected nil event to be rejected")
		}
	})
}

func TestSessionErrorText(t *testing.T) {
	cases := []struct {
		name  string
		props string
		want  string
	}{
		{
			name:  "nested data message wins",
			props: `{"sessionID":"ses_1","error":{"name":"ProviderError","message":"outer","data":{"message":"model overloaded"}}}`,
			want:  "model overloaded",
		},
		{
			name:  "error message as fallback",
			props: `{"sessionID":"ses_1","error":{"name":"ProviderError","message":"request failed"}}`,
			want:  "request failed",
		},
		{
			name:  "fixed fallback when nothing usable",
			props: `{"sessionID":"ses_1","error":{"name":"ProviderError"}}`,
			want:  "Unknown error",
		},
		{
			name:  "missing error object",
			props: `{"sessionID":"ses_1"}`,
			want:  "Unknown error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := &api.Event{Type: api.EventSessionError, Properties: json.RawMessage(tc.props)}
			if got := render.SessionErrorText(e); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
