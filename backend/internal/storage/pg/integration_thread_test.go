package pg

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/itchan-dev/chanengine/shared/domain"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================
// CreateThread Tests
// ==================

func TestCreateThread(t *testing.T) {
	ctx := context.Background()
	board := setupBoard(t)

	t.Run("Success", func(t *testing.T) {
		subject := "hello"
		thread, op, err := storage.CreateThread(ctx, domain.ThreadCreationData{
			Board:   board,
			Subject: &subject,
			Op:      domain.PostCreationData{Board: board, Name: "anon", Content: "first", ImageURL: imageURL("http://img/1.png")},
		})
		require.NoError(t, err)

		assert.Equal(t, board, thread.Board)
		require.NotNil(t, thread.Subject)
		assert.Equal(t, subject, *thread.Subject)
		assert.Zero(t, thread.Replies)
		assert.Equal(t, 1, thread.Images)
		assert.False(t, thread.IsPinned)
		assert.False(t, thread.IsLocked)
		assert.Equal(t, thread.CreatedAt, thread.LastBumpTime)

		assert.Equal(t, domain.FirstPostNumber, op.Number)
		assert.True(t, op.IsOp)
		assert.Equal(t, thread.Number, op.ThreadNumber)
		assert.Equal(t, "first", op.Content)

		summary, err := storage.GetThread(ctx, board, thread.Number, 5)
		require.NoError(t, err)
		assertSamePost(t, op, summary.Op)
		assert.Empty(t, summary.RecentReplies)
	})

	t.Run("Without image or subject", func(t *testing.T) {
		thread := createThread(t, board, nil)
		assert.Nil(t, thread.Subject)
		assert.Zero(t, thread.Images)
	})

	t.Run("Board not found", func(t *testing.T) {
		_, _, err := storage.CreateThread(ctx, domain.ThreadCreationData{Board: "nope", Op: domain.PostCreationData{Content: "x"}})
		assert.Equal(t, internal_errors.KindNotFound, internal_errors.KindOf(err))
	})

	t.Run("Idempotent token", func(t *testing.T) {
		data := domain.ThreadCreationData{Board: board, Op: domain.PostCreationData{Board: board, Content: "once", Token: uuid.New()}}
		first, _, err := storage.CreateThread(ctx, data)
		require.NoError(t, err)
		second, op, err := storage.CreateThread(ctx, data)
		require.NoError(t, err)
		assert.Equal(t, first.Number, second.Number)
		assert.Equal(t, "once", op.Content)
	})
}

func TestCreateThreadConcurrentNumbersAreUnique(t *testing.T) {
	board := setupBoard(t)
	const n = 20

	var wg sync.WaitGroup
	numbers := make(chan domain.ThreadNumber, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			thread, _, err := storage.CreateThread(context.Background(), domain.ThreadCreationData{
				Board: board,
				Op:    domain.PostCreationData{Board: board, Content: "race"},
			})
			if assert.NoError(t, err) {
				numbers <- thread.Number
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[domain.ThreadNumber]bool)
	for number := range numbers {
		assert.False(t, seen[number], "duplicate thread number %d", number)
		seen[number] = true
	}
	assert.Len(t, seen, n)
}

func TestNextThreadNumberIsMonotonic(t *testing.T) {
	ctx := context.Background()
	board := setupBoard(t)

	first, err := storage.NextThreadNumber(ctx, board)
	require.NoError(t, err)
	thread := createThread(t, board, nil)
	assert.Greater(t, thread.Number, first)

	_, err = storage.NextThreadNumber(ctx, "nope")
	assert.Equal(t, internal_errors.KindNotFound, internal_errors.KindOf(err))
}

// ==================
// Moderation Tests
// ==================

func TestSetPinned(t *testing.T) {
	ctx := context.Background()
	board := setupBoard(t)
	thread := createThread(t, board, nil)

	once, err := storage.SetPinned(ctx, board, thread.Number, true)
	require.NoError(t, err)
	twice, err := storage.SetPinned(ctx, board, thread.Number, true)
	require.NoError(t, err)

	assert.True(t, once.IsPinned)
	assert.Equal(t, once, twice)
	assert.Equal(t, thread.LastBumpTime, twice.LastBumpTime)

	unpinned, err := storage.SetPinned(ctx, board, thread.Number, false)
	require.NoError(t, err)
	assert.False(t, unpinned.IsPinned)

	_, err = storage.SetPinned(ctx, board, 9999, true)
	assert.Equal(t, internal_errors.KindNotFound, internal_errors.KindOf(err))
}

func TestSetLockedDoesNotTouchPinned(t *testing.T) {
	ctx := context.Background()
	board := setupBoard(t)
	thread := createThread(t, board, nil)

	_, err := storage.SetPinned(ctx, board, thread.Number, true)
	require.NoError(t, err)
	locked, err := storage.SetLocked(ctx, board, thread.Number, true)
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)
	assert.True(t, locked.IsPinned)

	opened, err := storage.SetLocked(ctx, board, thread.Number, false)
	require.NoError(t, err)
	assert.False(t, opened.IsLocked)
	assert.True(t, opened.IsPinned)
}

func TestDeleteThread(t *testing.T) {
	ctx := context.Background()
	board := setupBoard(t)
	thread := createThread(t, board, nil)
	post := reply(t, board, thread.Number, "hi")

	require.NoError(t, storage.DeleteThread(ctx, board, thread.Number))

	_, err := storage.GetThread(ctx, board, thread.Number, 5)
	assert.Equal(t, internal_errors.KindNotFound, internal_errors.KindOf(err))
	_, err = storage.GetPost(ctx, board, thread.Number, post.Number)
	assert.Equal(t, internal_errors.KindNotFound, internal_errors.KindOf(err))
	_, _, err = storage.CreatePost(ctx, domain.PostCreationData{Board: board, ThreadNumber: thread.Number, Content: "late"}, domain.BumpPolicy{})
	assert.Equal(t, internal_errors.KindNotFound, internal_errors.KindOf(err))

	err = storage.DeleteThread(ctx, board, thread.Number)
	assert.Equal(t, internal_errors.KindNotFound, internal_errors.KindOf(err))

	// the number stays taken
	next := createThread(t, board, nil)
	assert.Greater(t, next.Number, thread.Number)
}

func TestGetRecentReplies(t *testing.T) {
	ctx := context.Background()
	board := setupBoard(t)
	thread := createThread(t, board, nil)
	for _, c := range []string{"a", "b", "c", "d", "e", "f"} {
		reply(t, board, thread.Number, c)
	}

	recent, err := storage.GetRecentReplies(ctx, board, thread.Number, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, []domain.PostNumber{5, 6, 7}, []domain.PostNumber{recent[0].Number, recent[1].Number, recent[2].Number})
	assert.Equal(t, "f", recent[2].Content)

	_, err = storage.GetRecentReplies(ctx, board, 9999, 3)
	assert.Equal(t, internal_errors.KindNotFound, internal_errors.KindOf(err))
}
