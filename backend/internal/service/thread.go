package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/itchan-dev/chanengine/shared/config"
	"github.com/itchan-dev/chanengine/shared/domain"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
)

type ThreadService interface {
	Create(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, domain.Post, error)
	Get(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, opts domain.PostListOptions) (domain.ThreadSummary, []domain.Post, error)
	List(ctx context.Context, board domain.BoardCode, page int) (domain.Board, domain.ThreadPage, error)
	Popular(ctx context.Context) ([]domain.ThreadSummary, error)
	SetPinned(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, pinned bool) (domain.ThreadSummary, error)
	SetLocked(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, locked bool) (domain.ThreadSummary, error)
	Delete(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber) error
}

type Thread struct {
	storage   ThreadStorage
	validator ThreadValidator
	retrier   *Retrier
	cfg       *config.Public
}

type ThreadStorage interface {
	CreateThread(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, domain.Post, error)
	GetThread(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, nReplies int) (domain.ThreadSummary, error)
	GetBoard(ctx context.Context, code domain.BoardCode) (domain.Board, error)
	ListThreads(ctx context.Context, board domain.BoardCode, opts domain.ThreadListOptions, nReplies int) (domain.ThreadPage, error)
	ListPosts(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber, opts domain.PostListOptions) ([]domain.Post, error)
	PopularThreads(ctx context.Context, limit int) ([]domain.ThreadSummary, error)
	SetPinned(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, pinned bool) (domain.Thread, error)
	SetLocked(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, locked bool) (domain.Thread, error)
	DeleteThread(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber) error
}

type ThreadValidator interface {
	Post(data *domain.PostCreationData) error
	Subject(subject *domain.ThreadTitle) (*domain.ThreadTitle, error)
	BoardCode(code domain.BoardCode) error
	ThreadNumber(n domain.ThreadNumber) error
}

func NewThread(storage ThreadStorage, validator ThreadValidator, retrier *Retrier, cfg *config.Config) ThreadService {
	return &Thread{storage: storage, validator: validator, retrier: retrier, cfg: &cfg.Public}
}

func (s *Thread) validateRef(board domain.BoardCode, number domain.ThreadNumber) error {
	if err := s.validator.BoardCode(board); err != nil {
		return err
	}
	return s.validator.ThreadNumber(number)
}

// Create opens a thread. The OP goes through the same content rules as a reply.
func (s *Thread) Create(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, domain.Post, error) {
	if err := s.validator.BoardCode(data.Board); err != nil {
		return domain.Thread{}, domain.Post{}, err
	}
	subject, err := s.validator.Subject(data.Subject)
	if err != nil {
		return domain.Thread{}, domain.Post{}, err
	}
	data.Subject = subject
	data.Op.Board = data.Board
	if err := s.validator.Post(&data.Op); err != nil {
		return domain.Thread{}, domain.Post{}, err
	}
	if data.Op.Token == uuid.Nil {
		data.Op.Token = uuid.New()
	}

	var (
		thread domain.Thread
		op     domain.Post
	)
	err = s.retrier.Do(ctx, "create thread", func() error {
		var err error
		thread, op, err = s.storage.CreateThread(ctx, data)
		return err
	})
	if err != nil {
		return domain.Thread{}, domain.Post{}, err
	}
	postsCreated.WithLabelValues("op").Inc()
	return thread, op, nil
}

// Get returns the thread header and its posts. With zero opts every post is returned.
func (s *Thread) Get(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, opts domain.PostListOptions) (domain.ThreadSummary, []domain.Post, error) {
	if err := s.validateRef(board, number); err != nil {
		return domain.ThreadSummary{}, nil, err
	}
	if opts.After < 0 || opts.Limit < 0 || opts.Limit > math.MaxInt32 {
		return domain.ThreadSummary{}, nil, internal_errors.Validation("Invalid post range")
	}

	var (
		summary domain.ThreadSummary
		posts   []domain.Post
	)
	err := s.retrier.Do(ctx, "get thread", func() error {
		var err error
		if summary, err = s.storage.GetThread(ctx, board, number, s.cfg.RecentReplies); err != nil {
			return err
		}
		posts, err = s.storage.ListPosts(ctx, board, number, opts)
		return err
	})
	if err != nil {
		return domain.ThreadSummary{}, nil, err
	}
	return summary, posts, nil
}

// List returns one page of a board in canonical order.
func (s *Thread) List(ctx context.Context, board domain.BoardCode, page int) (domain.Board, domain.ThreadPage, error) {
	if err := s.validator.BoardCode(board); err != nil {
		return domain.Board{}, domain.ThreadPage{}, err
	}
	if page < 1 {
		return domain.Board{}, domain.ThreadPage{}, internal_errors.Validation("Page must be positive")
	}
	// the row offset (page-1)*size must stay a valid int4 for the query
	if page > math.MaxInt32/s.cfg.ThreadsPerPage {
		return domain.Board{}, domain.ThreadPage{}, internal_errors.Validation("Page is out of range")
	}

	var (
		b      domain.Board
		result domain.ThreadPage
	)
	opts := domain.ThreadListOptions{Page: page, PageSize: s.cfg.ThreadsPerPage}
	err := s.retrier.Do(ctx, "list threads", func() error {
		var err error
		if b, err = s.storage.GetBoard(ctx, board); err != nil {
			return err
		}
		result, err = s.storage.ListThreads(ctx, board, opts, s.cfg.RecentReplies)
		return err
	})
	if err != nil {
		return domain.Board{}, domain.ThreadPage{}, err
	}
	return b, result, nil
}

func (s *Thread) Popular(ctx context.Context) ([]domain.ThreadSummary, error) {
	var threads []domain.ThreadSummary
	err := s.retrier.Do(ctx, "popular threads", func() error {
		var err error
		threads, err = s.storage.PopularThreads(ctx, s.cfg.PopularThreads)
		return err
	})
	return threads, err
}

func (s *Thread) SetPinned(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, pinned bool) (domain.ThreadSummary, error) {
	return s.moderate(ctx, "set pinned", board, number, func() (domain.Thread, error) {
		return s.storage.SetPinned(ctx, board, number, pinned)
	})
}

func (s *Thread) SetLocked(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, locked bool) (domain.ThreadSummary, error) {
	return s.moderate(ctx, "set locked", board, number, func() (domain.Thread, error) {
		return s.storage.SetLocked(ctx, board, number, locked)
	})
}

// moderate applies a flag change and returns the thread as a board page shows it.
func (s *Thread) moderate(ctx context.Context, op string, board domain.BoardCode, number domain.ThreadNumber, apply func() (domain.Thread, error)) (domain.ThreadSummary, error) {
	if err := s.validateRef(board, number); err != nil {
		return domain.ThreadSummary{}, err
	}
	var summary domain.ThreadSummary
	err := s.retrier.Do(ctx, op, func() error {
		if _, err := apply(); err != nil {
			return err
		}
		var err error
		summary, err = s.storage.GetThread(ctx, board, number, s.cfg.RecentReplies)
		return err
	})
	return summary, err
}

func (s *Thread) Delete(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber) error {
	if err := s.validateRef(board, number); err != nil {
		return err
	}
	return s.retrier.Do(ctx, "delete thread", func() error {
		return s.storage.DeleteThread(ctx, board, number)
	})
}
