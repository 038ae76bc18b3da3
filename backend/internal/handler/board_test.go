package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/itchan-dev/chanengine/shared/api"
	"github.com/itchan-dev/chanengine/shared/domain"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBoardsHandler(t *testing.T) {
	h := newTestHandler()

	t.Run("successful request", func(t *testing.T) {
		h.board = &MockBoardService{MockList: func(ctx context.Context) ([]domain.Board, error) {
			return []domain.Board{{Code: "a", PostCount: 4}, {Code: "g", PostCount: 6}}, nil
		}}
		rr := serve(h, createRequest(t, http.MethodGet, "/v1/boards", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var resp api.BoardListResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Len(t, resp.Boards, 2)
		assert.Equal(t, int64(10), resp.TotalPosts)
	})

	t.Run("store unavailable", func(t *testing.T) {
		h.board = &MockBoardService{MockList: func(ctx context.Context) ([]domain.Board, error) {
			return nil, internal_errors.StoreUnavailable("Store unavailable", nil)
		}}
		rr := serve(h, createRequest(t, http.MethodGet, "/v1/boards", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		var resp api.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "store_unavailable", resp.Kind)
	})
}

func TestCreateBoardHandler(t *testing.T) {
	h := newTestHandler()
	route := "/v1/admin/boards"
	requestBody := []byte(`{"code": "g", "name": "Technology", "isNSFW": true}`)

	t.Run("successful request", func(t *testing.T) {
		var got domain.BoardCreationData
		h.board = &MockBoardService{MockCreate: func(ctx context.Context, data domain.BoardCreationData) (domain.Board, error) {
			got = data
			return domain.Board{Code: data.Code, Name: data.Name, IsNSFW: data.IsNSFW}, nil
		}}
		rr := serve(h, createRequest(t, http.MethodPost, route, requestBody))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, domain.BoardCreationData{Code: "g", Name: "Technology", IsNSFW: true}, got)
	})

	t.Run("duplicate code", func(t *testing.T) {
		h.board = &MockBoardService{MockCreate: func(ctx context.Context, data domain.BoardCreationData) (domain.Board, error) {
			return domain.Board{}, internal_errors.Conflict("Board already exists", nil)
		}}
		rr := serve(h, createRequest(t, http.MethodPost, route, requestBody))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rr := serve(h, createRequest(t, http.MethodPost, route, []byte(`{"code": "g"}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		rr := serve(h, createRequest(t, http.MethodPost, route, []byte(`{"code":`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unexpected error is hidden", func(t *testing.T) {
		h.board = &MockBoardService{MockCreate: func(ctx context.Context, data domain.BoardCreationData) (domain.Board, error) {
			return domain.Board{}, errors.New("pq: secret details")
		}}
		rr := serve(h, createRequest(t, http.MethodPost, route, requestBody))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "secret")
	})
}

func TestGetBoardHandler(t *testing.T) {
	h := newTestHandler()

	t.Run("defaults to first page", func(t *testing.T) {
		var gotPage int
		h.thread = &MockThreadService{MockList: func(ctx context.Context, board domain.BoardCode, page int) (domain.Board, domain.ThreadPage, error) {
			gotPage = page
			return domain.Board{Code: board}, domain.ThreadPage{Threads: []domain.ThreadSummary{{Thread: domain.Thread{Number: 1}}}, HasMore: true}, nil
		}}
		rr := serve(h, createRequest(t, http.MethodGet, "/v1/g", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, gotPage)
		var resp api.BoardThreadsResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "g", resp.Board.Code)
		assert.Equal(t, 1, resp.Page)
		assert.True(t, resp.HasMore)
		assert.Len(t, resp.Threads, 1)
	})

	t.Run("explicit page", func(t *testing.T) {
		var gotPage int
		h.thread = &MockThreadService{MockList: func(ctx context.Context, board domain.BoardCode, page int) (domain.Board, domain.ThreadPage, error) {
			gotPage = page
			return domain.Board{}, domain.ThreadPage{}, nil
		}}
		rr := serve(h, createRequest(t, http.MethodGet, "/v1/g?page=3", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 3, gotPage)
	})

	t.Run("invalid page", func(t *testing.T) {
		rr := serve(h, createRequest(t, http.MethodGet, "/v1/g?page=abc", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("board not found", func(t *testing.T) {
		h.thread = &MockThreadService{MockList: func(ctx context.Context, board domain.BoardCode, page int) (domain.Board, domain.ThreadPage, error) {
			return domain.Board{}, domain.ThreadPage{}, internal_errors.NotFound("Board not found")
		}}
		rr := serve(h, createRequest(t, http.MethodGet, "/v1/zz", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestGetPopularHandler(t *testing.T) {
	h := newTestHandler()
	h.thread = &MockThreadService{MockPopular: func(ctx context.Context) ([]domain.ThreadSummary, error) {
		return []domain.ThreadSummary{{Thread: domain.Thread{Board: "g", Number: 3, Replies: 9}}}, nil
	}}
	rr := serve(h, createRequest(t, http.MethodGet, "/v1/popular", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp api.PopularThreadsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Threads, 1)
	assert.Equal(t, 9, resp.Threads[0].Replies)
}
