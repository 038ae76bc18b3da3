package pg

import (
	"context"
	"database/sql"

	"github.com/itchan-dev/chanengine/shared/domain"
)

// Reconcile recomputes thread replies/images and board post counts from the
// posts table and reports how many rows were off. An empty board means all
// boards. Posts of deleted threads still count toward the board total.
func (s *Storage) Reconcile(ctx context.Context, board domain.BoardCode) (domain.ReconcileReport, error) {
	var report domain.ReconcileReport
	err := s.inTx(ctx, "reconcile", func(tx *sql.Tx) error {
		if board != "" {
			if err := boardExists(ctx, tx, board); err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE threads t
			SET replies = c.replies, images = c.images
			FROM (
				SELECT board_code, thread_number,
					(count(*) FILTER (WHERE NOT is_op))::int AS replies,
					(count(*) FILTER (WHERE image_url IS NOT NULL AND image_url <> ''))::int AS images
				FROM posts
				WHERE $1::text = '' OR board_code = $1::text
				GROUP BY board_code, thread_number
			) c
			WHERE t.board_code = c.board_code AND t.thread_number = c.thread_number
				AND (t.replies <> c.replies OR t.images <> c.images)`,
			board,
		)
		if err != nil {
			return err
		}
		if report.ThreadsRepaired, err = res.RowsAffected(); err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx, `
			UPDATE boards b
			SET post_count = c.posts
			FROM (
				SELECT bb.code, count(p.post_number) AS posts
				FROM boards bb
				LEFT JOIN posts p ON p.board_code = bb.code
				WHERE $1::text = '' OR bb.code = $1::text
				GROUP BY bb.code
			) c
			WHERE b.code = c.code AND b.post_count <> c.posts`,
			board,
		)
		if err != nil {
			return err
		}
		report.BoardsRepaired, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return domain.ReconcileReport{}, err
	}
	if report.ThreadsRepaired > 0 || report.BoardsRepaired > 0 {
		s.log.Warn("counters repaired", "board", board, "threads", report.ThreadsRepaired, "boards", report.BoardsRepaired)
	}
	return report, nil
}
