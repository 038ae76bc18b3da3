package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/itchan-dev/chanengine/shared/domain"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
	"github.com/itchan-dev/chanengine/shared/storage/pg"
)

const threadColumns = "t.board_code, t.thread_number, t.subject, t.is_pinned, t.is_locked, t.replies, t.images, t.last_bump_time, t.created_at"

func threadDest(t *domain.Thread, subject *sql.NullString) []any {
	return []any{&t.Board, &t.Number, subject, &t.IsPinned, &t.IsLocked, &t.Replies, &t.Images, &t.LastBumpTime, &t.CreatedAt}
}

func finishThread(t *domain.Thread, subject sql.NullString) {
	t.Subject = stringPtr(subject)
	t.LastBumpTime = t.LastBumpTime.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
}

func scanThread(row rowScanner) (domain.Thread, error) {
	var (
		t       domain.Thread
		subject sql.NullString
	)
	if err := row.Scan(threadDest(&t, &subject)...); err != nil {
		return t, err
	}
	finishThread(&t, subject)
	return t, nil
}

// getThread reads a live thread. Soft deleted threads are not found.
func getThread(ctx context.Context, q pg.Querier, board domain.BoardCode, number domain.ThreadNumber) (domain.Thread, error) {
	t, err := scanThread(q.QueryRowContext(ctx,
		"SELECT "+threadColumns+" FROM threads t WHERE t.board_code = $1 AND t.thread_number = $2 AND t.deleted_at IS NULL",
		board, number,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, internal_errors.NotFound("Thread not found")
		}
		return t, err
	}
	return t, nil
}

func getOp(ctx context.Context, q pg.Querier, board domain.BoardCode, number domain.ThreadNumber) (domain.Post, error) {
	p, err := scanPost(q.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts p WHERE p.board_code = $1 AND p.thread_number = $2 AND p.is_op",
		board, number,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, internal_errors.NotFound("Thread not found")
		}
		return p, err
	}
	return p, nil
}

// CreateThread allocates a thread number and stores the thread with its OP
// in one transaction. The OP takes FirstPostNumber.
func (s *Storage) CreateThread(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, domain.Post, error) {
	var (
		thread domain.Thread
		op     domain.Post
	)
	err := s.inTx(ctx, "create thread", func(tx *sql.Tx) error {
		existing, found, err := postByToken(ctx, tx, data.Op.Token)
		if err != nil {
			return err
		}
		if found {
			if existing.Board != data.Board || !existing.IsOp {
				return internal_errors.Validation("Token already used")
			}
			op = existing
			thread, err = getThread(ctx, tx, existing.Board, existing.ThreadNumber)
			return err
		}

		number, err := nextThreadNumber(ctx, tx, data.Board)
		if err != nil {
			return err
		}
		createdAt := now()
		images := 0
		if data.Op.HasImage() {
			images = 1
		}
		thread, err = scanThread(tx.QueryRowContext(ctx, `
			INSERT INTO threads AS t (board_code, thread_number, subject, images, post_seq, last_bump_time, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			RETURNING `+threadColumns,
			data.Board, number, nullableString(data.Subject), images, domain.FirstPostNumber, createdAt,
		))
		if err != nil {
			return err
		}

		op = domain.Post{
			Board:        data.Board,
			ThreadNumber: number,
			Number:       domain.FirstPostNumber,
			Name:         data.Op.Name,
			Content:      data.Op.Content,
			ImageURL:     data.Op.ImageURL,
			IsOp:         true,
			CreatedAt:    createdAt,
		}
		if err := insertPost(ctx, tx, op, data.Op.Token); err != nil {
			return err
		}
		return incrementBoardPostCount(ctx, tx, data.Board)
	})
	if err != nil {
		return domain.Thread{}, domain.Post{}, err
	}
	return thread, op, nil
}

// GetThread returns the thread with its OP and the last nReplies replies.
func (s *Storage) GetThread(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, nReplies int) (domain.ThreadSummary, error) {
	db, err := s.db(ctx)
	if err != nil {
		return domain.ThreadSummary{}, err
	}
	thread, err := getThread(ctx, db, board, number)
	if err != nil {
		return domain.ThreadSummary{}, classify("get thread", err)
	}
	op, err := getOp(ctx, db, board, number)
	if err != nil {
		return domain.ThreadSummary{}, classify("get thread op", err)
	}
	recent, err := recentReplies(ctx, db, board, []domain.ThreadNumber{number}, nReplies)
	if err != nil {
		return domain.ThreadSummary{}, classify("get thread replies", err)
	}
	return domain.ThreadSummary{Thread: thread, Op: op, RecentReplies: orEmpty(recent[number])}, nil
}

// GetRecentReplies returns the n most recent replies ascending by number.
func (s *Storage) GetRecentReplies(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, n int) ([]domain.Post, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := getThread(ctx, db, board, number); err != nil {
		return nil, classify("get recent replies", err)
	}
	recent, err := recentReplies(ctx, db, board, []domain.ThreadNumber{number}, n)
	if err != nil {
		return nil, classify("get recent replies", err)
	}
	return orEmpty(recent[number]), nil
}

func (s *Storage) SetPinned(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, pinned bool) (domain.Thread, error) {
	return s.setFlag(ctx, "set pinned", "is_pinned", board, number, pinned)
}

func (s *Storage) SetLocked(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber, locked bool) (domain.Thread, error) {
	return s.setFlag(ctx, "set locked", "is_locked", board, number, locked)
}

// setFlag writes a moderation flag. Writing the current value is a no-op
// apart from returning the thread.
func (s *Storage) setFlag(ctx context.Context, op, column string, board domain.BoardCode, number domain.ThreadNumber, value bool) (domain.Thread, error) {
	db, err := s.db(ctx)
	if err != nil {
		return domain.Thread{}, err
	}
	// column is one of two constants above
	t, err := scanThread(db.QueryRowContext(ctx, `
		UPDATE threads t SET `+column+` = $3
		WHERE t.board_code = $1 AND t.thread_number = $2 AND t.deleted_at IS NULL
		RETURNING `+threadColumns,
		board, number, value,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Thread{}, internal_errors.NotFound("Thread not found")
		}
		return domain.Thread{}, classify(op, err)
	}
	return t, nil
}

// DeleteThread hides a thread and its posts. Rows are kept so the thread and
// post numbers stay taken. The board's post count is left as is: it counts
// every post ever accepted, deleted or not.
func (s *Storage) DeleteThread(ctx context.Context, board domain.BoardCode, number domain.ThreadNumber) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		"UPDATE threads SET deleted_at = $3 WHERE board_code = $1 AND thread_number = $2 AND deleted_at IS NULL",
		board, number, now(),
	)
	if err != nil {
		return classify("delete thread", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify("delete thread", err)
	}
	if affected == 0 {
		return internal_errors.NotFound("Thread not found")
	}
	return nil
}

func orEmpty(posts []domain.Post) []domain.Post {
	if posts == nil {
		return []domain.Post{}
	}
	return posts
}
