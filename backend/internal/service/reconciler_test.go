package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/itchan-dev/chanengine/shared/domain"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcilerRun(t *testing.T) {
	var gotBoard domain.BoardCode
	storage := &MockStorage{
		reconcileFunc: func(ctx context.Context, board domain.BoardCode) (domain.ReconcileReport, error) {
			gotBoard = board
			return domain.ReconcileReport{ThreadsRepaired: 2, BoardsRepaired: 1}, nil
		},
	}
	r := NewReconciler(storage, NewValidator(testConfig()))

	report, err := r.Run(context.Background(), "g")
	require.NoError(t, err)
	assert.Equal(t, domain.ReconcileReport{ThreadsRepaired: 2, BoardsRepaired: 1}, report)
	assert.Equal(t, "g", gotBoard)

	_, err = r.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "", gotBoard)

	_, err = r.Run(context.Background(), "BAD!")
	assert.Equal(t, internal_errors.KindValidation, internal_errors.KindOf(err))
}

func TestReconcilerStartBackground(t *testing.T) {
	var runs atomic.Int32
	storage := &MockStorage{
		reconcileFunc: func(ctx context.Context, board domain.BoardCode) (domain.ReconcileReport, error) {
			runs.Add(1)
			return domain.ReconcileReport{}, nil
		},
	}
	r := NewReconciler(storage, NewValidator(testConfig()))

	ctx, cancel := context.WithCancel(context.Background())
	r.StartBackground(ctx, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
}
