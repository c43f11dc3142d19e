package api

import (
	"context"
	"net/http"
)

// SendPrompt dispatches a prompt to a session. The server acknowledges with
// the queued user message and processes asynchronously; progress and
// completion arrive on the event subscription.
func (c *Client) SendPrompt(ctx context.Context, sessionID string, req *PromptRequest) (*Message, error) {
	var result Message
	if err := c.doRequest(ctx, http.MethodPost, "/session/"+sessionID+"/message", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
