package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/itchan-dev/chanengine/shared/api"
	"github.com/itchan-dev/chanengine/shared/domain"
)

func threadPath(board domain.BoardCode, number domain.ThreadNumber) string {
	return fmt.Sprintf("/v1/%s/%d", url.PathEscape(board), number)
}

func adminThreadPath(board domain.BoardCode, number domain.ThreadNumber) string {
	return fmt.Sprintf("/v1/admin/%s/%d", url.PathEscape(board), number)
}

func (c *APIClient) CreateThread(ctx context.Context, board domain.BoardCode, data api.CreateThreadRequest) (api.CreateThreadResponse, error) {
	var response api.CreateThreadResponse
	err := c.do(ctx, http.MethodPost, "/v1/"+url.PathEscape(board), data, &response)
	return response, err
}

// GetThread fetches a thread with its posts. A zero opts returns every post.
func (c *APIClient) GetThread(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, opts domain.PostListOptions) (api.ThreadResponse, error) {
	var response api.ThreadResponse
	path := threadPath(board, number)
	query := url.Values{}
	if opts.After > 0 {
		query.Set("after", fmt.Sprint(opts.After))
	}
	if opts.Limit > 0 {
		query.Set("limit", fmt.Sprint(opts.Limit))
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	err := c.do(ctx, http.MethodGet, path, nil, &response)
	return response, err
}

func (c *APIClient) SetPinned(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, value bool) (domain.ThreadSummary, error) {
	return c.setFlag(ctx, adminThreadPath(board, number)+"/pinned", value)
}

func (c *APIClient) SetLocked(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, value bool) (domain.ThreadSummary, error) {
	return c.setFlag(ctx, adminThreadPath(board, number)+"/locked", value)
}

func (c *APIClient) setFlag(ctx context.Context, path string, value bool) (domain.ThreadSummary, error) {
	var summary domain.ThreadSummary
	err := c.do(ctx, http.MethodPut, path, api.SetFlagRequest{Value: &value}, &summary)
	return summary, err
}

func (c *APIClient) DeleteThread(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber) error {
	return c.do(ctx, http.MethodDelete, adminThreadPath(board, number), nil, nil)
}
