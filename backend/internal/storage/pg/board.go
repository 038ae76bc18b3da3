package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/itchan-dev/chanengine/shared/domain"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
	"github.com/itchan-dev/chanengine/shared/storage/pg"
	"github.com/lib/pq"
)

const boardColumns = "code, name, description, is_nsfw, post_count, created_at"

func scanBoard(row rowScanner) (domain.Board, error) {
	var b domain.Board
	err := row.Scan(&b.Code, &b.Name, &b.Description, &b.IsNSFW, &b.PostCount, &b.CreatedAt)
	return b, err
}

func (s *Storage) CreateBoard(ctx context.Context, data domain.BoardCreationData) (domain.Board, error) {
	db, err := s.db(ctx)
	if err != nil {
		return domain.Board{}, err
	}
	board, err := scanBoard(db.QueryRowContext(ctx, `
		INSERT INTO boards (code, name, description, is_nsfw, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+boardColumns,
		data.Code, data.Name, data.Description, data.IsNSFW, now(),
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.Board{}, internal_errors.Conflict("Board already exists", err)
		}
		return domain.Board{}, classify("create board", err)
	}
	return board, nil
}

func (s *Storage) GetBoard(ctx context.Context, code domain.BoardCode) (domain.Board, error) {
	db, err := s.db(ctx)
	if err != nil {
		return domain.Board{}, err
	}
	board, err := scanBoard(db.QueryRowContext(ctx,
		"SELECT "+boardColumns+" FROM boards WHERE code = $1", code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Board{}, internal_errors.NotFound("Board not found")
		}
		return domain.Board{}, classify("get board", err)
	}
	return board, nil
}

func (s *Storage) GetBoards(ctx context.Context) ([]domain.Board, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT "+boardColumns+" FROM boards ORDER BY code")
	if err != nil {
		return nil, classify("get boards", err)
	}
	defer rows.Close()

	boards := []domain.Board{}
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("get boards", err)
	}
	return boards, nil
}

func boardExists(ctx context.Context, q pg.Querier, code domain.BoardCode) error {
	var exists bool
	err := q.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM boards WHERE code = $1)", code).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return internal_errors.NotFound("Board not found")
	}
	return nil
}

func incrementBoardPostCount(ctx context.Context, q pg.Querier, code domain.BoardCode) error {
	_, err := q.ExecContext(ctx, "UPDATE boards SET post_count = post_count + 1 WHERE code = $1", code)
	return err
}
