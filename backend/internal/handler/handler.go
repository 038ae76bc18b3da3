package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/itchan-dev/chanengine/backend/internal/service"
	"github.com/itchan-dev/chanengine/shared/config"
	"github.com/itchan-dev/chanengine/shared/domain"
	"github.com/itchan-dev/chanengine/shared/logger"
)

type Reconciler interface {
	Run(ctx context.Context, board domain.BoardCode) (domain.ReconcileReport, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	board      service.BoardService
	thread     service.ThreadService
	reply      service.ReplyService
	reconciler Reconciler
	health     HealthChecker
	cfg        *config.Config
}

func New(board service.BoardService, thread service.ThreadService, reply service.ReplyService, reconciler Reconciler, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{
		board:      board,
		thread:     thread,
		reply:      reply,
		reconciler: reconciler,
		health:     health,
		cfg:        cfg,
	}
}

// writeJSON encodes v before touching the response so an encoding failure
// can still produce a clean 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
