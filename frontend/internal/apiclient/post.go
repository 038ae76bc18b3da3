package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/itchan-dev/chanengine/shared/api"
	"github.com/itchan-dev/chanengine/shared/domain"
)

func (c *APIClient) CreateReply(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber, data api.CreatePostRequest) (domain.Post, error) {
	var post domain.Post
	err := c.do(ctx, http.MethodPost, threadPath(board, thread), data, &post)
	return post, err
}

func (c *APIClient) GetPost(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber, number domain.PostNumber) (domain.Post, error) {
	var post domain.Post
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", threadPath(board, thread), number), nil, &post)
	return post, err
}
