package api

import (
	"context"
	"net/http"
)

// SubscribeEvents subscribes to the global event stream. Events from every
// session arrive on the returned channel; callers filter client-side. Cancel
// the context to stop subscribing; both channels close when the stream ends.
func (c *Client) SubscribeEvents(ctx context.Context) (<-chan *Event, <-chan error, error) {
	return c.doSSE(ctx, http.MethodGet, "/event", nil)
}
