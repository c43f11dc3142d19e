package api

import (
	"context"
	"net/http"
)

// ListSessions returns all sessions.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var result []Session
	if err := c.doRequest(ctx, http.MethodGet, "/session", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateSession creates a new session.
func (c *Client) CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error) {
	if req == nil {
		req = &CreateSessionRequest{}
	}
	var result Session
	if err := c.doRequest(ctx, http.MethodPost, "/session", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSession retrieves a session by ID.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var result Session
	if err := c.doRequest(ctx, http.MethodGet, "/session/"+sessionID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteSession deletes a session.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	var result bool
	return c.doRequest(ctx, http.MethodDelete, "/session/"+sessionID, nil, &result)
}

// UpdateSession updates a session's title.
func (c *Client) UpdateSession(ctx context.Context, sessionID string, req *UpdateSessionRequest) (*Session, error) {
	var result Session
	if err := c.doRequest(ctx, http.MethodPatch, "/session/"+sessionID, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AbortSession aborts an active session.
func (c *Client) AbortSession(ctx context.Context, sessionID string) error {
	var result bool
	return c.doRequest(ctx, http.MethodPost, "/session/"+sessionID+"/abort", nil, &result)
}

// SessionStatuses returns the sessionID → status map for sessions the server
// considers active. Idle sessions carry no entry.
func (c *Client) SessionStatuses(ctx context.Context) (map[string]SessionStatus, error) {
	var result map[string]SessionStatus
	if err := c.doRequest(ctx, http.MethodGet, "/session/status", nil, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = map[string]SessionStatus{}
	}
	return result, nil
}

// GetSessionDiff returns file diffs accumulated by a session.
func (c *Client) GetSessionDiff(ctx context.Context, sessionID string) ([]FileDiff, error) {
	var result []FileDiff
	if err := c.doRequest(ctx, http.MethodGet, "/session/"+sessionID+"/diff", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
