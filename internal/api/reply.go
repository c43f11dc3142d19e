package api

import (
	"context"
	"fmt"
	"net/http"
)

// ReplyPermission answers a permission request. Reply must be one of
// ReplyOnce, ReplyAlways, ReplyReject.
func (c *Client) ReplyPermission(ctx context.Context, requestID, reply string) error {
	switch reply {
	case ReplyOnce, ReplyAlways, ReplyReject:
	default:
		return fmt.Errorf("invalid permission reply %q", reply)
	}
	var result bool
	return c.doRequest(ctx, http.MethodPost, "/permission/"+requestID+"/reply", &PermissionReplyRequest{Reply: reply}, &result)
}

// ReplyQuestion answers a question request with one answer list per question.
func (c *Client) ReplyQuestion(ctx context.Context, requestID string, answers [][]string) error {
	var result bool
	return c.doRequest(ctx, http.MethodPost, "/question/"+requestID+"/reply", &QuestionReplyRequest{Answers: answers}, &result)
}

// RejectQuestion declines to answer a question request.
func (c *Client) RejectQuestion(ctx context.Context, requestID string) error {
	var result bool
	return c.doRequest(ctx, http.MethodPost, "/question/"+requestID+"/reject", nil, &result)
}
