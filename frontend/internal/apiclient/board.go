package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/itchan-dev/chanengine/shared/api"
	"github.com/itchan-dev/chanengine/shared/domain"
)

// === Board Methods ===

func (c *APIClient) GetBoards(ctx context.Context) (api.BoardListResponse, error) {
	var response api.BoardListResponse
	if err := c.do(ctx, http.MethodGet, "/v1/boards", nil, &response); err != nil {
		return api.BoardListResponse{}, err
	}
	return response, nil
}

func (c *APIClient) CreateBoard(ctx context.Context, data api.CreateBoardRequest) (domain.Board, error) {
	var board domain.Board
	err := c.do(ctx, http.MethodPost, "/v1/admin/boards", data, &board)
	return board, err
}

// GetBoard fetches one page of a board listing. Pages start at 1.
func (c *APIClient) GetBoard(ctx context.Context, code domain.BoardCode, page int) (api.BoardThreadsResponse, error) {
	var response api.BoardThreadsResponse
	path := "/v1/" + url.PathEscape(code)
	if page > 1 {
		path = fmt.Sprintf("%s?page=%d", path, page)
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return api.BoardThreadsResponse{}, err
	}
	return response, nil
}

func (c *APIClient) GetPopular(ctx context.Context) ([]domain.ThreadSummary, error) {
	var response api.PopularThreadsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/popular", nil, &response); err != nil {
		return nil, err
	}
	return response.Threads, nil
}
