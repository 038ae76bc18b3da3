package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/itchan-dev/chanengine/shared/domain"
	"github.com/itchan-dev/chanengine/shared/storage/pg"
	"github.com/lib/pq"
)

// Canonical board order. thread_number breaks ties between equal bump times
// so page boundaries are deterministic.
const threadOrder = "t.is_pinned DESC, t.last_bump_time DESC, t.thread_number DESC"

func scanSummary(row rowScanner) (domain.ThreadSummary, error) {
	var (
		s        domain.ThreadSummary
		subject  sql.NullString
		imageURL sql.NullString
	)
	dest := threadDest(&s.Thread, &subject)
	dest = append(dest, &s.Op.Board, &s.Op.ThreadNumber, &s.Op.Number, &s.Op.Name, &s.Op.Content, &imageURL, &s.Op.IsOp, &s.Op.Sage, &s.Op.CreatedAt)
	if err := row.Scan(dest...); err != nil {
		return s, err
	}
	finishThread(&s.Thread, subject)
	s.Op.ImageURL = stringPtr(imageURL)
	s.Op.CreatedAt = s.Op.CreatedAt.UTC()
	s.RecentReplies = []domain.Post{}
	return s, nil
}

func scanSummaries(rows *sql.Rows) ([]domain.ThreadSummary, error) {
	defer rows.Close()
	summaries := []domain.ThreadSummary{}
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return summaries, nil
}

// ListThreads returns one page of a board: pinned threads first, then by
// bump time, newest first. Each summary carries the OP and the last
// nReplies replies. One extra row is fetched to compute HasMore.
func (s *Storage) ListThreads(ctx context.Context, board domain.BoardCode, opts domain.ThreadListOptions, nReplies int) (domain.ThreadPage, error) {
	db, err := s.db(ctx)
	if err != nil {
		return domain.ThreadPage{}, err
	}
	if err := boardExists(ctx, db, board); err != nil {
		return domain.ThreadPage{}, classify("list threads", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+threadColumns+`, `+postColumns+`
		FROM threads t
		JOIN posts p ON p.board_code = t.board_code AND p.thread_number = t.thread_number AND p.is_op
		WHERE t.board_code = $1 AND t.deleted_at IS NULL
		ORDER BY `+threadOrder+`
		LIMIT $2 OFFSET $3`,
		board, opts.PageSize+1, (opts.Page-1)*opts.PageSize,
	)
	if err != nil {
		return domain.ThreadPage{}, classify("list threads", err)
	}
	threads, err := scanSummaries(rows)
	if err != nil {
		return domain.ThreadPage{}, classify("list threads", err)
	}

	page := domain.ThreadPage{Threads: threads}
	if len(threads) > opts.PageSize {
		page.HasMore = true
		page.Threads = threads[:opts.PageSize]
	}
	if err := s.attachRecentReplies(ctx, db, board, page.Threads, nReplies); err != nil {
		return domain.ThreadPage{}, err
	}
	return page, nil
}

func (s *Storage) attachRecentReplies(ctx context.Context, q pg.Querier, board domain.BoardCode, threads []domain.ThreadSummary, n int) error {
	if len(threads) == 0 || n <= 0 {
		return nil
	}
	numbers := make([]domain.ThreadNumber, len(threads))
	for i := range threads {
		numbers[i] = threads[i].Number
	}
	recent, err := recentReplies(ctx, q, board, numbers, n)
	if err != nil {
		return classify("recent replies", err)
	}
	for i := range threads {
		threads[i].RecentReplies = orEmpty(recent[threads[i].Number])
	}
	return nil
}

// recentReplies fetches the last n replies of every listed thread in one query.
func recentReplies(ctx context.Context, q pg.Querier, board domain.BoardCode, threads []domain.ThreadNumber, n int) (map[domain.ThreadNumber][]domain.Post, error) {
	result := make(map[domain.ThreadNumber][]domain.Post, len(threads))
	if len(threads) == 0 || n <= 0 {
		return result, nil
	}
	rows, err := q.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM (
			SELECT *, row_number() OVER (PARTITION BY thread_number ORDER BY post_number DESC) AS rn
			FROM posts
			WHERE board_code = $1 AND thread_number = ANY($2) AND NOT is_op
		) p
		WHERE p.rn <= $3
		ORDER BY p.thread_number, p.post_number`,
		board, pq.Array(threads), n,
	)
	if err != nil {
		return nil, err
	}
	posts, err := scanPosts(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		result[p.ThreadNumber] = append(result[p.ThreadNumber], p)
	}
	return result, nil
}

// PopularThreads lists threads across all boards whose OP carries an image,
// most replied first.
func (s *Storage) PopularThreads(ctx context.Context, limit int) ([]domain.ThreadSummary, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT `+threadColumns+`, `+postColumns+`
		FROM threads t
		JOIN posts p ON p.board_code = t.board_code AND p.thread_number = t.thread_number AND p.is_op
		WHERE t.deleted_at IS NULL AND p.image_url IS NOT NULL AND p.image_url <> ''
		ORDER BY t.replies DESC, t.last_bump_time DESC, t.board_code, t.thread_number
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, classify("popular threads", err)
	}
	threads, err := scanSummaries(rows)
	if err != nil {
		return nil, classify("popular threads", err)
	}
	return threads, nil
}
