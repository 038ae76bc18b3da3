package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/chanengine/shared/config"
	"github.com/itchan-dev/chanengine/shared/domain"
)

type MockBoardService struct {
	MockCreate func(ctx context.Context, data domain.BoardCreationData) (domain.Board, error)
	MockList   func(ctx context.Context) ([]domain.Board, error)
	MockGet    func(ctx context.Context, code domain.BoardCode) (domain.Board, error)
}

func (m *MockBoardService) Create(ctx context.Context, data domain.BoardCreationData) (domain.Board, error) {
	if m.MockCreate != nil {
		return m.MockCreate(ctx, data)
	}
	return domain.Board{Code: data.Code, Name: data.Name}, nil
}

func (m *MockBoardService) List(ctx context.Context) ([]domain.Board, error) {
	if m.MockList != nil {
		return m.MockList(ctx)
	}
	return []domain.Board{}, nil
}

func (m *MockBoardService) Get(ctx context.Context, code domain.BoardCode) (domain.Board, error) {
	if m.MockGet != nil {
		return m.MockGet(ctx, code)
	}
	return domain.Board{Code: code}, nil
}

type MockThreadService struct {
	MockCreate    func(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, domain.Post, error)
	MockGet       func(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, opts domain.PostListOptions) (domain.ThreadSummary, []domain.Post, error)
	MockList      func(ctx context.Context, board domain.BoardCode, page int) (domain.Board, domain.ThreadPage, error)
	MockPopular   func(ctx context.Context) ([]domain.ThreadSummary, error)
	MockSetPinned func(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, pinned bool) (domain.ThreadSummary, error)
	MockSetLocked func(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, locked bool) (domain.ThreadSummary, error)
	MockDelete    func(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber) error
}

func (m *MockThreadService) Create(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, domain.Post, error) {
	if m.MockCreate != nil {
		return m.MockCreate(ctx, data)
	}
	return domain.Thread{}, domain.Post{}, nil
}

func (m *MockThreadService) Get(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, opts domain.PostListOptions) (domain.ThreadSummary, []domain.Post, error) {
	if m.MockGet != nil {
		return m.MockGet(ctx, board, number, opts)
	}
	return domain.ThreadSummary{}, []domain.Post{}, nil
}

func (m *MockThreadService) List(ctx context.Context, board domain.BoardCode, page int) (domain.Board, domain.ThreadPage, error) {
	if m.MockList != nil {
		return m.MockList(ctx, board, page)
	}
	return domain.Board{Code: board}, domain.ThreadPage{Threads: []domain.ThreadSummary{}}, nil
}

func (m *MockThreadService) Popular(ctx context.Context) ([]domain.ThreadSummary, error) {
	if m.MockPopular != nil {
		return m.MockPopular(ctx)
	}
	return []domain.ThreadSummary{}, nil
}

func (m *MockThreadService) SetPinned(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, pinned bool) (domain.ThreadSummary, error) {
	if m.MockSetPinned != nil {
		return m.MockSetPinned(ctx, board, number, pinned)
	}
	return domain.ThreadSummary{}, nil
}

func (m *MockThreadService) SetLocked(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, locked bool) (domain.ThreadSummary, error) {
	if m.MockSetLocked != nil {
		return m.MockSetLocked(ctx, board, number, locked)
	}
	return domain.ThreadSummary{}, nil
}

func (m *MockThreadService) Delete(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber) error {
	if m.MockDelete != nil {
		return m.MockDelete(ctx, board, number)
	}
	return nil
}

type MockReplyService struct {
	MockSubmit func(ctx context.Context, data domain.PostCreationData) (domain.Post, error)
	MockGet    func(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber, number domain.PostNumber) (domain.Post, error)
}

func (m *MockReplyService) Submit(ctx context.Context, data domain.PostCreationData) (domain.Post, error) {
	if m.MockSubmit != nil {
		return m.MockSubmit(ctx, data)
	}
	return domain.Post{}, nil
}

func (m *MockReplyService) Get(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber, number domain.PostNumber) (domain.Post, error) {
	if m.MockGet != nil {
		return m.MockGet(ctx, board, thread, number)
	}
	return domain.Post{}, nil
}

type MockReconciler struct {
	RunFunc func(ctx context.Context, board domain.BoardCode) (domain.ReconcileReport, error)
}

func (m *MockReconciler) Run(ctx context.Context, board domain.BoardCode) (domain.ReconcileReport, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, board)
	}
	return domain.ReconcileReport{}, nil
}

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func newTestHandler() *Handler {
	return New(&MockBoardService{}, &MockThreadService{}, &MockReplyService{}, &MockReconciler{}, &MockHealthChecker{}, &config.Config{})
}

// testRouter mounts the handler on the same paths the API uses, without auth.
func testRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/v1/boards", h.GetBoards)
	r.Get("/v1/popular", h.GetPopular)
	r.Post("/v1/admin/boards", h.CreateBoard)
	r.Post("/v1/admin/reconcile", h.Reconcile)
	r.Put("/v1/admin/{board}/{thread}/pinned", h.SetPinned)
	r.Put("/v1/admin/{board}/{thread}/locked", h.SetLocked)
	r.Delete("/v1/admin/{board}/{thread}", h.DeleteThread)
	r.Get("/v1/{board}", h.GetBoard)
	r.Post("/v1/{board}", h.CreateThread)
	r.Get("/v1/{board}/{thread}", h.GetThread)
	r.Post("/v1/{board}/{thread}", h.CreateReply)
	r.Get("/v1/{board}/{thread}/{post}", h.GetPost)
	return r
}
