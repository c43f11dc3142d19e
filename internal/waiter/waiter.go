// Package waiter implements the blocking wait-for-completion protocol: it
// consumes the server's connection-wide event stream, discards events for
// other sessions, and resolves when the watched session reports idle or
// error, when the timeout fires, or when the caller cancels.
package waiter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tylium-run/oc-cli/internal/api"
	"github.com/tylium-run/oc-cli/internal/render"
)

// Status is the resolution of one wait.
type Status string

const (
	// StatusIdle means the session finished its work.
	StatusIdle Status = "idle"
	// StatusError means the session reported an error or the event stream
	// ended before a terminal event arrived.
	StatusError Status = "error"
	// StatusTimeout means the wait deadline passed first.
	StatusTimeout Status = "timeout"
)

// autoReplyLimit bounds concurrent permission auto-replies.
const autoReplyLimit = 4

// autoReplyTimeout bounds each auto-reply request. Replies run on a detached
// context so canceling the wait never aborts a reply mid-flight.
const autoReplyTimeout = 10 * time.Second

// Result is the outcome of a completed wait. Waits that unwind through
// transport failure or caller cancellation return an error instead.
type Result struct {
	Status Status     `json:"status"`
	Err    string     `json:"error,omitempty"`
	Event  *api.Event `json:"event,omitempty"`
}

// Options configures a wait.
type Options struct {
	// Timeout bounds the wait; zero means wait indefinitely.
	Timeout time.Duration
	// AutoApprove replies "always" to every permission request the watched
	// session asks during the wait. Replies are best effort and unordered
	// relative to the stream.
	AutoApprove bool
	// Mirror receives the watched session's events as they arrive: raw JSON
	// lines by default, a formatted transcript with Pretty. Nil disables
	// mirroring.
	Mirror io.Writer
	Pretty bool
}

// Waiter is a single-use wait over one event subscription. New opens the
// subscription and arms the timer; Wait consumes it.
type Waiter struct {
	client    *api.Client
	sessionID string
	opts      Options

	subCtx context.Context
	cancel context.CancelFunc
	timer  *time.Timer

	// timedOut distinguishes a timer-fired cancellation from an external one
	// when the subscription unwinds.
	timedOut atomic.Bool

	events <-chan *api.Event
	errs   <-chan error

	renderer *render.Renderer
	replies  *errgroup.Group
}

// New subscribes to the event stream and arms the timeout timer. Callers
// that dispatch work after constructing the Waiter observe every event the
// work produces; subscribing after dispatch can miss the first events.
func New(ctx context.Context, client *api.Client, sessionID string, opts Options) (*Waiter, error) {
	subCtx, cancel := context.WithCancel(ctx)

	events, errs, err := client.SubscribeEvents(subCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe events: %w", err)
	}

	w := &Waiter{
		client:    client,
		sessionID: sessionID,
		opts:      opts,
		subCtx:    subCtx,
		cancel:    cancel,
		events:    events,
		errs:      errs,
		replies:   &errgroup.Group{},
	}
	w.replies.SetLimit(autoReplyLimit)

	if opts.Mirror != nil && opts.Pretty {
		w.renderer = render.New(opts.Mirror)
	}
	if opts.Timeout > 0 {
		w.timer = time.AfterFunc(opts.Timeout, func() {
			w.timedOut.Store(true)
			cancel()
		})
	}
	return w, nil
}

// Wait consumes the subscription until it resolves. It returns a Result for
// the idle, error, and timeout outcomes; it returns an error only for
// transport failures and caller cancellation. The subscription and timer are
// always released on return.
func (w *Waiter) Wait() (*Result, error) {
	defer w.cancel()
	defer func() {
		if w.timer != nil {
			w.timer.Stop()
		}
		if w.renderer != nil {
			w.renderer.Flush()
		}
		_ = w.replies.Wait()
	}()

	events, errs := w.events, w.errs
	for {
		select {
		case <-w.subCtx.Done():
			return w.resolveUnwind()

		case err, ok := <-errs:
			if !ok {
				// The stream goroutine closes this channel first; keep
				// draining buffered events before resolving.
				errs = nil
				continue
			}
			return nil, fmt.Errorf("event stream: %w", err)

		case ev, ok := <-events:
			if !ok {
				return w.resolveUnwind()
			}
			if res := w.observe(ev); res != nil {
				return res, nil
			}
		}
	}
}

// observe handles one stream event and returns a Result when it is terminal
// for the watched session.
func (w *Waiter) observe(ev *api.Event) *Result {
	if !render.MatchesSession(ev, w.sessionID) {
		return nil
	}
	w.mirror(ev)

	switch ev.Type {
	case api.EventPermissionAsked:
		if w.opts.AutoApprove {
			var p api.PermissionAskedPayload
			if err := ev.Decode(&p); err == nil && p.ID != "" {
				w.autoApprove(p.ID)
			}
		}
	case api.EventSessionIdle:
		return &Result{Status: StatusIdle, Event: ev}
	case api.EventSessionError:
		return &Result{Status: StatusError, Err: render.SessionErrorText(ev), Event: ev}
	}
	return nil
}

func (w *Waiter) mirror(ev *api.Event) {
	if w.opts.Mirror == nil {
		return
	}
	if w.renderer != nil {
		w.renderer.Render(ev)
		return
	}
	line, err := json.Marshal(ev)
	if err != nil {
		return
	}
	fmt.Fprintln(w.opts.Mirror, string(line))
}

func (w *Waiter) autoApprove(permissionID string) {
	w.replies.Go(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), autoReplyTimeout)
		defer cancel()
		if err := w.client.ReplyPermission(ctx, permissionID, api.ReplyAlways); err != nil {
			api.GetLogger().Warn("permission auto-reply failed",
				"permission_id", permissionID,
				"error", err.Error(),
			)
		}
		return nil
	})
}

// resolveUnwind classifies a subscription that ended without a terminal
// event: the timer fired, the caller canceled, or the server closed the
// stream. A closed stream resolves as an error because the session's fate is
// unknown.
func (w *Waiter) resolveUnwind() (*Result, error) {
	if w.timedOut.Load() {
		return &Result{
			Status: StatusTimeout,
			Err:    fmt.Sprintf("timed out after %s", w.opts.Timeout),
		}, nil
	}
	if w.subCtx.Err() != nil {
		return nil, context.Cause(w.subCtx)
	}
	return &Result{Status: StatusError, Err: "stream ended unexpectedly"}, nil
}

// WaitForSession subscribes and waits in one call.
func WaitForSession(ctx context.Context, client *api.Client, sessionID string, opts Options) (*Result, error) {
	w, err := New(ctx, client, sessionID, opts)
	if err != nil {
		return nil, err
	}
	return w.Wait()
}

// CheckSessionStatus is the fast-path probe: it verifies the session exists,
// then consults the status map. Fetch errors propagate untouched so callers
// can tell a missing session from a connectivity failure. Sessions absent
// from the map are idle; present entries are returned as reported.
func CheckSessionStatus(ctx context.Context, client *api.Client, sessionID string) (*api.SessionStatus, error) {
	if _, err := client.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	statuses, err := client.SessionStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch session statuses: %w", err)
	}

	if status, ok := statuses[sessionID]; ok {
		return &status, nil
	}
	return &api.SessionStatus{Type: api.StatusIdle}, nil
}
