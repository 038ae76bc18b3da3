package setup

import (
	"context"

	"github.com/itchan-dev/chanengine/backend/internal/handler"
	"github.com/itchan-dev/chanengine/backend/internal/service"
	"github.com/itchan-dev/chanengine/backend/internal/storage/pg"
	"github.com/itchan-dev/chanengine/shared/config"
	"github.com/itchan-dev/chanengine/shared/jwt"
	mw "github.com/itchan-dev/chanengine/shared/middleware"
	sharedpg "github.com/itchan-dev/chanengine/shared/storage/pg"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	Reconciler     *service.Reconciler
	AuthMiddleware *mw.Auth
	Config         *config.Config
}

// SetupDependencies initializes all dependencies required for the application.
// The store handle is shared by the whole process; the caller shuts it down.
func SetupDependencies(ctx context.Context, handle *sharedpg.Handle, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, handle, cfg)
	if err != nil {
		return nil, err
	}

	validator := service.NewValidator(cfg)
	retrier := service.NewRetrier(cfg)

	board := service.NewBoard(storage, validator, retrier)
	thread := service.NewThread(storage, validator, retrier, cfg)
	reply := service.NewReply(storage, validator, retrier, cfg)
	reconciler := service.NewReconciler(storage, validator)

	h := handler.New(board, thread, reply, reconciler, storage, cfg)
	// admin tokens are minted offline, so the ttl is unused here
	jwtService := jwt.New(cfg.JwtKey(), 0)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		Reconciler:     reconciler,
		AuthMiddleware: mw.NewAuth(jwtService),
		Config:         cfg,
	}, nil
}
