package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/itchan-dev/chanengine/backend/internal/setup"
	mw "github.com/itchan-dev/chanengine/shared/middleware"
	"github.com/itchan-dev/chanengine/shared/middleware/metrics"
)

// New creates and configures a new chi router with all the routes.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// setup CORS for the presentation layer
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.Public.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	// Backend CSP: strict policy (JSON API only, no scripts/styles needed)
	backendCSP := "default-src 'none'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.BehindTLS, backendCSP))

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(middleware.Timeout(deps.Config.RequestTimeout()))

		// Admin routes
		v1.Route("/admin", func(admin chi.Router) {
			admin.Use(deps.AuthMiddleware.AdminOnly())
			admin.Post("/boards", h.CreateBoard)
			admin.Post("/reconcile", h.Reconcile)
			admin.Put("/{board}/{thread}/pinned", h.SetPinned)
			admin.Put("/{board}/{thread}/locked", h.SetLocked)
			admin.Delete("/{board}/{thread}", h.DeleteThread)
		})

		v1.Get("/boards", h.GetBoards)
		v1.Get("/popular", h.GetPopular)

		v1.Get("/{board}", h.GetBoard)
		v1.Post("/{board}", h.CreateThread)
		v1.Get("/{board}/{thread}", h.GetThread)
		v1.Post("/{board}/{thread}", h.CreateReply)
		v1.Get("/{board}/{thread}/{post}", h.GetPost)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	return r
}
