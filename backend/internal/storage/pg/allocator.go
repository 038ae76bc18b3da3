package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/itchan-dev/chanengine/shared/domain"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
	"github.com/itchan-dev/chanengine/shared/storage/pg"
)

// Numbers come from counters kept on the parent row. The UPDATE takes the
// row lock, so concurrent allocations on the same board or thread serialize
// in the database and never observe the same value. Counters only grow:
// a number is never handed out twice even after its thread is deleted.

func nextThreadNumber(ctx context.Context, q pg.Querier, board domain.BoardCode) (domain.ThreadNumber, error) {
	var n domain.ThreadNumber
	err := q.QueryRowContext(ctx,
		"UPDATE boards SET thread_seq = thread_seq + 1 WHERE code = $1 RETURNING thread_seq",
		board,
	).Scan(&n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, internal_errors.NotFound("Board not found")
		}
		return 0, err
	}
	return n, nil
}

// lockedThread is the state of a thread row read under FOR UPDATE.
type lockedThread struct {
	replies  int
	isLocked bool
}

// lockThread takes the thread row lock and returns its state.
// Deleted threads are reported as not found.
func lockThread(ctx context.Context, q pg.Querier, board domain.BoardCode, thread domain.ThreadNumber) (lockedThread, error) {
	var t lockedThread
	err := q.QueryRowContext(ctx, `
		SELECT replies, is_locked
		FROM threads
		WHERE board_code = $1 AND thread_number = $2 AND deleted_at IS NULL
		FOR UPDATE`,
		board, thread,
	).Scan(&t.replies, &t.isLocked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, internal_errors.NotFound("Thread not found")
		}
		return t, err
	}
	return t, nil
}

func nextPostNumber(ctx context.Context, q pg.Querier, board domain.BoardCode, thread domain.ThreadNumber) (domain.PostNumber, error) {
	var n domain.PostNumber
	err := q.QueryRowContext(ctx,
		"UPDATE threads SET post_seq = post_seq + 1 WHERE board_code = $1 AND thread_number = $2 RETURNING post_seq",
		board, thread,
	).Scan(&n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, internal_errors.NotFound("Thread not found")
		}
		return 0, err
	}
	return n, nil
}

// NextThreadNumber issues a thread number outside of thread creation.
// The number is consumed even if no thread is ever stored under it.
func (s *Storage) NextThreadNumber(ctx context.Context, board domain.BoardCode) (domain.ThreadNumber, error) {
	var n domain.ThreadNumber
	err := s.inTx(ctx, "next thread number", func(tx *sql.Tx) error {
		var err error
		n, err = nextThreadNumber(ctx, tx, board)
		return err
	})
	return n, err
}

// NextPostNumber issues a post number in a thread outside of reply creation.
// Locked threads do not hand out numbers.
func (s *Storage) NextPostNumber(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber) (domain.PostNumber, error) {
	var n domain.PostNumber
	err := s.inTx(ctx, "next post number", func(tx *sql.Tx) error {
		t, err := lockThread(ctx, tx, board, thread)
		if err != nil {
			return err
		}
		if t.isLocked {
			return internal_errors.ThreadLocked("Thread is locked")
		}
		n, err = nextPostNumber(ctx, tx, board, thread)
		return err
	})
	return n, err
}
