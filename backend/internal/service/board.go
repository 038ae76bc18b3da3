package service

import (
	"context"

	"github.com/itchan-dev/chanengine/shared/domain"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
)

type BoardService interface {
	Create(ctx context.Context, data domain.BoardCreationData) (domain.Board, error)
	List(ctx context.Context) ([]domain.Board, error)
	Get(ctx context.Context, code domain.BoardCode) (domain.Board, error)
}

type Board struct {
	storage   BoardStorage
	validator BoardValidator
	retrier   *Retrier
}

type BoardStorage interface {
	CreateBoard(ctx context.Context, data domain.BoardCreationData) (domain.Board, error)
	GetBoard(ctx context.Context, code domain.BoardCode) (domain.Board, error)
	GetBoards(ctx context.Context) ([]domain.Board, error)
}

type BoardValidator interface {
	Board(data *domain.BoardCreationData) error
	BoardCode(code domain.BoardCode) error
}

func NewBoard(storage BoardStorage, validator BoardValidator, retrier *Retrier) BoardService {
	return &Board{storage: storage, validator: validator, retrier: retrier}
}

// Create registers a board. A taken code is a Conflict the caller sees,
// it is not retried.
func (b *Board) Create(ctx context.Context, data domain.BoardCreationData) (domain.Board, error) {
	if err := b.validator.Board(&data); err != nil {
		return domain.Board{}, err
	}
	var (
		board     domain.Board
		ambiguous bool
	)
	err := b.retrier.DoUnavailable(ctx, "create board", func() error {
		var err error
		board, err = b.storage.CreateBoard(ctx, data)
		if internal_errors.Is(err, internal_errors.KindStoreUnavailable) {
			ambiguous = true
		}
		return err
	})
	if ambiguous && internal_errors.Is(err, internal_errors.KindConflict) {
		// an earlier attempt may have committed before the connection failed
		if existing, getErr := b.storage.GetBoard(ctx, data.Code); getErr == nil && existing.Name == data.Name && existing.Description == data.Description {
			return existing, nil
		}
	}
	return board, err
}

func (b *Board) List(ctx context.Context) ([]domain.Board, error) {
	var boards []domain.Board
	err := b.retrier.Do(ctx, "list boards", func() error {
		var err error
		boards, err = b.storage.GetBoards(ctx)
		return err
	})
	return boards, err
}

func (b *Board) Get(ctx context.Context, code domain.BoardCode) (domain.Board, error) {
	if err := b.validator.BoardCode(code); err != nil {
		return domain.Board{}, err
	}
	var board domain.Board
	err := b.retrier.Do(ctx, "get board", func() error {
		var err error
		board, err = b.storage.GetBoard(ctx, code)
		return err
	})
	return board, err
}
