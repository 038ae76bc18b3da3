package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	h := newTestHandler()
	rr := httptest.NewRecorder()

	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestReady(t *testing.T) {
	t.Run("returns 200 OK when database is available", func(t *testing.T) {
		h := newTestHandler()
		rr := httptest.NewRecorder()

		h.Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ok", rr.Body.String())
	})

	t.Run("returns 503 when database is unavailable", func(t *testing.T) {
		h := newTestHandler()
		h.health = &MockHealthChecker{PingFunc: func(ctx context.Context) error {
			return errors.New("connection refused")
		}}
		rr := httptest.NewRecorder()

		h.Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "database unavailable", rr.Body.String())
	})

	t.Run("ping gets a deadline", func(t *testing.T) {
		h := newTestHandler()
		h.health = &MockHealthChecker{PingFunc: func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return nil
		}}
		h.Ready(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ready", nil))
	})
}
