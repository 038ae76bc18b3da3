package service

import (
	"context"

	"github.com/itchan-dev/chanengine/shared/config"
	"github.com/itchan-dev/chanengine/shared/domain"
)

// MockStorage mocks every storage interface the services declare.
type MockStorage struct {
	createBoardFunc    func(ctx context.Context, data domain.BoardCreationData) (domain.Board, error)
	getBoardFunc       func(ctx context.Context, code domain.BoardCode) (domain.Board, error)
	getBoardsFunc      func(ctx context.Context) ([]domain.Board, error)
	createThreadFunc   func(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, domain.Post, error)
	getThreadFunc      func(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, nReplies int) (domain.ThreadSummary, error)
	listThreadsFunc    func(ctx context.Context, board domain.BoardCode, opts domain.ThreadListOptions, nReplies int) (domain.ThreadPage, error)
	listPostsFunc      func(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber, opts domain.PostListOptions) ([]domain.Post, error)
	popularThreadsFunc func(ctx context.Context, limit int) ([]domain.ThreadSummary, error)
	setPinnedFunc      func(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, pinned bool) (domain.Thread, error)
	setLockedFunc      func(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, locked bool) (domain.Thread, error)
	deleteThreadFunc   func(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber) error
	createPostFunc     func(ctx context.Context, data domain.PostCreationData, policy domain.BumpPolicy) (domain.Post, domain.Thread, error)
	getPostFunc        func(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber, number domain.PostNumber) (domain.Post, error)
	reconcileFunc      func(ctx context.Context, board domain.BoardCode) (domain.ReconcileReport, error)
}

func (m *MockStorage) CreateBoard(ctx context.Context, data domain.BoardCreationData) (domain.Board, error) {
	if m.createBoardFunc != nil {
		return m.createBoardFunc(ctx, data)
	}
	return domain.Board{Code: data.Code, Name: data.Name}, nil
}

func (m *MockStorage) GetBoard(ctx context.Context, code domain.BoardCode) (domain.Board, error) {
	if m.getBoardFunc != nil {
		return m.getBoardFunc(ctx, code)
	}
	return domain.Board{Code: code}, nil
}

func (m *MockStorage) GetBoards(ctx context.Context) ([]domain.Board, error) {
	if m.getBoardsFunc != nil {
		return m.getBoardsFunc(ctx)
	}
	return []domain.Board{}, nil
}

func (m *MockStorage) CreateThread(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, domain.Post, error) {
	if m.createThreadFunc != nil {
		return m.createThreadFunc(ctx, data)
	}
	return domain.Thread{Board: data.Board, Number: 1}, domain.Post{Board: data.Board, ThreadNumber: 1, Number: 1, IsOp: true}, nil
}

func (m *MockStorage) GetThread(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, nReplies int) (domain.ThreadSummary, error) {
	if m.getThreadFunc != nil {
		return m.getThreadFunc(ctx, board, number, nReplies)
	}
	return domain.ThreadSummary{Thread: domain.Thread{Board: board, Number: number}}, nil
}

func (m *MockStorage) ListThreads(ctx context.Context, board domain.BoardCode, opts domain.ThreadListOptions, nReplies int) (domain.ThreadPage, error) {
	if m.listThreadsFunc != nil {
		return m.listThreadsFunc(ctx, board, opts, nReplies)
	}
	return domain.ThreadPage{Threads: []domain.ThreadSummary{}}, nil
}

func (m *MockStorage) ListPosts(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber, opts domain.PostListOptions) ([]domain.Post, error) {
	if m.listPostsFunc != nil {
		return m.listPostsFunc(ctx, board, thread, opts)
	}
	return []domain.Post{}, nil
}

func (m *MockStorage) PopularThreads(ctx context.Context, limit int) ([]domain.ThreadSummary, error) {
	if m.popularThreadsFunc != nil {
		return m.popularThreadsFunc(ctx, limit)
	}
	return []domain.ThreadSummary{}, nil
}

func (m *MockStorage) SetPinned(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, pinned bool) (domain.Thread, error) {
	if m.setPinnedFunc != nil {
		return m.setPinnedFunc(ctx, board, number, pinned)
	}
	return domain.Thread{Board: board, Number: number, IsPinned: pinned}, nil
}

func (m *MockStorage) SetLocked(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, locked bool) (domain.Thread, error) {
	if m.setLockedFunc != nil {
		return m.setLockedFunc(ctx, board, number, locked)
	}
	return domain.Thread{Board: board, Number: number, IsLocked: locked}, nil
}

func (m *MockStorage) DeleteThread(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber) error {
	if m.deleteThreadFunc != nil {
		return m.deleteThreadFunc(ctx, board, number)
	}
	return nil
}

func (m *MockStorage) CreatePost(ctx context.Context, data domain.PostCreationData, policy domain.BumpPolicy) (domain.Post, domain.Thread, error) {
	if m.createPostFunc != nil {
		return m.createPostFunc(ctx, data, policy)
	}
	return domain.Post{Board: data.Board, ThreadNumber: data.ThreadNumber, Number: 2}, domain.Thread{}, nil
}

func (m *MockStorage) GetPost(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber, number domain.PostNumber) (domain.Post, error) {
	if m.getPostFunc != nil {
		return m.getPostFunc(ctx, board, thread, number)
	}
	return domain.Post{Board: board, ThreadNumber: thread, Number: number}, nil
}

func (m *MockStorage) Reconcile(ctx context.Context, board domain.BoardCode) (domain.ReconcileReport, error) {
	if m.reconcileFunc != nil {
		return m.reconcileFunc(ctx, board)
	}
	return domain.ReconcileReport{}, nil
}

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{
		ThreadsPerPage:      10,
		RecentReplies:       5,
		PopularThreads:      6,
		MaxContentLength:    100,
		MaxSubjectLength:    20,
		MaxNameLength:       10,
		MaxBoardCode:        5,
		StoreRetries:        3,
		StoreRetryBaseDelay: 1,
	}}
}

func newTestServices(storage *MockStorage) (BoardService, ThreadService, ReplyService) {
	cfg := testConfig()
	v := NewValidator(cfg)
	r := NewRetrier(cfg)
	return NewBoard(storage, v, r), NewThread(storage, v, r, cfg), NewReply(storage, v, r, cfg)
}
