package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/itchan-dev/chanengine/shared/config"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
	"github.com/itchan-dev/chanengine/shared/logger"
)

// Retrier re-runs store operations that failed with a transient kind:
// Conflict from racing allocations and StoreUnavailable. Everything else
// is returned on the first attempt.
type Retrier struct {
	retries   uint64
	baseDelay time.Duration
	log       *slog.Logger
}

func NewRetrier(cfg *config.Config) *Retrier {
	return &Retrier{
		retries:   uint64(cfg.Public.StoreRetries),
		baseDelay: cfg.RetryBaseDelay(),
		log:       logger.Component("retry"),
	}
}

type retryPolicy func(error) bool

func retriable(err error) bool {
	kind := internal_errors.KindOf(err)
	return kind == internal_errors.KindConflict || kind == internal_errors.KindStoreUnavailable
}

func unavailable(err error) bool {
	return internal_errors.Is(err, internal_errors.KindStoreUnavailable)
}

// Do calls fn until it succeeds, fails permanently, or retries run out.
// A Conflict left after the last retry is reported as StoreUnavailable so
// callers never see allocation races.
func (r *Retrier) Do(ctx context.Context, op string, fn func() error) error {
	return r.do(ctx, op, fn, retriable)
}

// DoUnavailable retries only StoreUnavailable. Conflicts reach the caller.
func (r *Retrier) DoUnavailable(ctx context.Context, op string, fn func() error) error {
	return r.do(ctx, op, fn, unavailable)
}

func (r *Retrier) do(ctx context.Context, op string, fn func() error, retry retryPolicy) error {
	b := backoff.NewExponentialBackOff()
	if r.baseDelay > 0 {
		b.InitialInterval = r.baseDelay
	}
	b.MaxElapsedTime = 0 // bounded by retries and ctx

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		err := fn()
		if err != nil && !retry(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, r.retries), ctx), func(err error, wait time.Duration) {
		kind := internal_errors.KindOf(err)
		storeRetries.WithLabelValues(op, string(kind)).Inc()
		r.log.Warn("retrying store operation", "op", op, "attempt", attempt, "kind", kind, "wait", wait, "error", err)
	})
	if errors.Is(err, context.DeadlineExceeded) && !retry(err) {
		// the request deadline ran out between attempts
		return internal_errors.StoreUnavailable("Store unavailable", err)
	}
	if err == nil || !retry(err) {
		return err
	}

	r.log.Error("store operation failed after retries", "op", op, "attempts", attempt, "error", err)
	if internal_errors.Is(err, internal_errors.KindConflict) {
		return internal_errors.StoreUnavailable("Store is busy, try again", err)
	}
	return err
}
