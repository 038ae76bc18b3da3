package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/itchan-dev/chanengine/shared/domain"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
	"github.com/itchan-dev/chanengine/shared/storage/pg"
)

const postColumns = "p.board_code, p.thread_number, p.post_number, p.name, p.content, p.image_url, p.is_op, p.sage, p.created_at"

func scanPost(row rowScanner) (domain.Post, error) {
	var (
		p        domain.Post
		imageURL sql.NullString
	)
	err := row.Scan(&p.Board, &p.ThreadNumber, &p.Number, &p.Name, &p.Content, &imageURL, &p.IsOp, &p.Sage, &p.CreatedAt)
	if err != nil {
		return p, err
	}
	p.ImageURL = stringPtr(imageURL)
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

func scanPosts(rows *sql.Rows) ([]domain.Post, error) {
	defer rows.Close()
	posts := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return posts, nil
}

func insertPost(ctx context.Context, q pg.Querier, p domain.Post, token uuid.UUID) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO posts (board_code, thread_number, post_number, name, content, image_url, is_op, sage, client_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.Board, p.ThreadNumber, p.Number, p.Name, p.Content, nullableString(p.ImageURL),
		p.IsOp, p.Sage, uuid.NullUUID{UUID: token, Valid: token != uuid.Nil}, p.CreatedAt,
	)
	return err
}

// postByToken finds a post persisted by an earlier attempt of the same request.
func postByToken(ctx context.Context, q pg.Querier, token uuid.UUID) (domain.Post, bool, error) {
	if token == uuid.Nil {
		return domain.Post{}, false, nil
	}
	p, err := scanPost(q.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts p WHERE p.client_token = $1", token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, false, nil
		}
		return domain.Post{}, false, err
	}
	return p, true, nil
}

// recordReply folds one accepted reply into the thread aggregate with a single
// UPDATE. lastBumpTime only moves forward.
func recordReply(ctx context.Context, q pg.Querier, p domain.Post, bump bool) (domain.Thread, error) {
	images := 0
	if p.HasImage() {
		images = 1
	}
	return scanThread(q.QueryRowContext(ctx, `
		UPDATE threads t
		SET replies = t.replies + 1,
			images = t.images + $3::int,
			last_bump_time = CASE
				WHEN $4::boolean THEN GREATEST(t.last_bump_time, $5)
				ELSE t.last_bump_time
			END
		WHERE t.board_code = $1 AND t.thread_number = $2
		RETURNING `+threadColumns,
		p.Board, p.ThreadNumber, images, bump, p.CreatedAt,
	))
}

// CreatePost appends a reply to a thread. Allocation, the post row, the
// thread counters and the board counter commit together or not at all.
// A locked thread is rejected before anything is written.
func (s *Storage) CreatePost(ctx context.Context, data domain.PostCreationData, policy domain.BumpPolicy) (domain.Post, domain.Thread, error) {
	var (
		post   domain.Post
		thread domain.Thread
	)
	err := s.inTx(ctx, "create post", func(tx *sql.Tx) error {
		existing, found, err := postByToken(ctx, tx, data.Token)
		if err != nil {
			return err
		}
		if found {
			if existing.Board != data.Board || existing.ThreadNumber != data.ThreadNumber || existing.IsOp {
				return internal_errors.Validation("Token already used")
			}
			post = existing
			thread, err = getThread(ctx, tx, data.Board, data.ThreadNumber)
			return err
		}

		state, err := lockThread(ctx, tx, data.Board, data.ThreadNumber)
		if err != nil {
			return err
		}
		if state.isLocked {
			return internal_errors.ThreadLocked("Thread is locked")
		}

		number, err := nextPostNumber(ctx, tx, data.Board, data.ThreadNumber)
		if err != nil {
			return err
		}
		post = domain.Post{
			Board:        data.Board,
			ThreadNumber: data.ThreadNumber,
			Number:       number,
			Name:         data.Name,
			Content:      data.Content,
			ImageURL:     data.ImageURL,
			Sage:         data.Sage,
			CreatedAt:    now(),
		}
		if err := insertPost(ctx, tx, post, data.Token); err != nil {
			return err
		}
		thread, err = recordReply(ctx, tx, post, policy.Bumps(state.replies, data.Sage))
		if err != nil {
			return err
		}
		return incrementBoardPostCount(ctx, tx, data.Board)
	})
	if err != nil {
		return domain.Post{}, domain.Thread{}, err
	}
	return post, thread, nil
}

func (s *Storage) GetPost(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber, number domain.PostNumber) (domain.Post, error) {
	db, err := s.db(ctx)
	if err != nil {
		return domain.Post{}, err
	}
	p, err := scanPost(db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN threads t ON t.board_code = p.board_code AND t.thread_number = p.thread_number
		WHERE p.board_code = $1 AND p.thread_number = $2 AND p.post_number = $3
			AND t.deleted_at IS NULL`,
		board, thread, number,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, internal_errors.NotFound("Post not found")
		}
		return domain.Post{}, classify("get post", err)
	}
	return p, nil
}

// ListPosts returns posts ascending by number, starting after opts.After.
// Passing the last seen number as After resumes the listing.
func (s *Storage) ListPosts(ctx context.Context, board domain.BoardCode, thread domain.ThreadNumber, opts domain.PostListOptions) ([]domain.Post, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := listPosts(ctx, db, board, thread, opts)
	if err != nil {
		return nil, classify("list posts", err)
	}
	if len(posts) == 0 {
		// empty page or missing thread
		if _, err := getThread(ctx, db, board, thread); err != nil {
			return nil, classify("list posts", err)
		}
	}
	return posts, nil
}

func listPosts(ctx context.Context, q pg.Querier, board domain.BoardCode, thread domain.ThreadNumber, opts domain.PostListOptions) ([]domain.Post, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN threads t ON t.board_code = p.board_code AND t.thread_number = p.thread_number
		WHERE p.board_code = $1 AND p.thread_number = $2 AND p.post_number > $3
			AND t.deleted_at IS NULL
		ORDER BY p.post_number
		LIMIT NULLIF($4::int, 0)`,
		board, thread, opts.After, opts.Limit,
	)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}
