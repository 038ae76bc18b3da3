package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/itchan-dev/chanengine/shared/domain"
	"github.com/itchan-dev/chanengine/shared/logger"
)

type ReconcileStorage interface {
	Reconcile(ctx context.Context, board domain.BoardCode) (domain.ReconcileReport, error)
}

type BoardCodeValidator interface {
	BoardCode(code domain.BoardCode) error
}

// Reconciler recomputes thread and board counters from stored posts.
// Post creation is transactional, so in a healthy store it finds nothing.
type Reconciler struct {
	storage   ReconcileStorage
	validator BoardCodeValidator
	log       *slog.Logger
}

func NewReconciler(storage ReconcileStorage, validator BoardCodeValidator) *Reconciler {
	return &Reconciler{storage: storage, validator: validator, log: logger.Component("reconciler")}
}

// Run reconciles one board, or every board when board is empty.
func (r *Reconciler) Run(ctx context.Context, board domain.BoardCode) (domain.ReconcileReport, error) {
	if board != "" {
		if err := r.validator.BoardCode(board); err != nil {
			return domain.ReconcileReport{}, err
		}
	}
	start := time.Now()
	report, err := r.storage.Reconcile(ctx, board)
	if err != nil {
		return domain.ReconcileReport{}, err
	}
	countersRepaired.WithLabelValues("thread").Add(float64(report.ThreadsRepaired))
	countersRepaired.WithLabelValues("board").Add(float64(report.BoardsRepaired))
	r.log.Info("reconcile completed",
		"board", board,
		"threads_repaired", report.ThreadsRepaired,
		"boards_repaired", report.BoardsRepaired,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// StartBackground runs a full reconcile every interval until ctx is done.
func (r *Reconciler) StartBackground(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	r.log.Info("started background reconcile", "interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := r.Run(ctx, ""); err != nil {
					r.log.Error("reconcile failed", "error", err)
				}
			case <-ctx.Done():
				r.log.Info("background reconcile shutting down")
				return
			}
		}
	}()
}
