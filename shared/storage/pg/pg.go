// Package pg provides core PostgreSQL primitives shared by storage layers.
//
// Core Components:
//   - Querier: transaction-agnostic database operations
//   - WithTx: transaction boilerplate
//   - Connect: configured connection establishment
//   - Handle: the process-wide, lazily connected database handle
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/itchan-dev/chanengine/shared/config"
	"github.com/itchan-dev/chanengine/shared/logger"
	_ "github.com/lib/pq" // Registers the PostgreSQL driver
)

// Querier is satisfied by both *sql.DB and *sql.Tx, so the same query code
// runs inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ConnectionConfig holds database connection pool settings.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// DefaultConnectionConfig mirrors the pool the engine was sized for:
// at most 10 connections, 2 kept warm, idle ones closed after 30s.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 30 * time.Second,
		PingTimeout:     5 * time.Second,
	}
}

func DSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Private.Pg.Host, cfg.Private.Pg.Port,
		cfg.Private.Pg.User, cfg.Private.Pg.Password,
		cfg.Private.Pg.Dbname)
}

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.Config, connCfg ConnectionConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(connCfg.MaxOpenConns)
	db.SetMaxIdleConns(connCfg.MaxIdleConns)
	db.SetConnMaxLifetime(connCfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(connCfg.ConnMaxIdleTime)

	pingCtx := ctx
	if connCfg.PingTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, connCfg.PingTimeout)
		defer cancel()
	}
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// WithTx runs fn in a transaction; fn's error rolls it back.
func WithTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op if transaction is already committed

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var ErrHandleClosed = errors.New("database handle is shut down")

// Handle is the process-wide database handle. It connects on first use,
// is shared by every request, and is torn down once on shutdown.
// No mutex is held while connecting: concurrent first callers may both
// dial, the loser closes its pool and adopts the winner's.
type Handle struct {
	cfg     *config.Config
	connCfg ConnectionConfig
	connect func(context.Context, *config.Config, ConnectionConfig) (*sql.DB, error)

	db     atomic.Pointer[sql.DB]
	closed atomic.Bool
}

func NewHandle(cfg *config.Config, connCfg ConnectionConfig) *Handle {
	return &Handle{cfg: cfg, connCfg: connCfg, connect: Connect}
}

var (
	defaultHandle atomic.Pointer[Handle]
)

// Default returns the process-wide handle, creating it from cfg on the first call.
// Later calls ignore cfg.
func Default(cfg *config.Config) *Handle {
	if h := defaultHandle.Load(); h != nil {
		return h
	}
	defaultHandle.CompareAndSwap(nil, NewHandle(cfg, DefaultConnectionConfig()))
	return defaultHandle.Load()
}

// DB returns the connected pool, connecting if this is the first use.
// A failed connect is not cached; the next call tries again.
func (h *Handle) DB(ctx context.Context) (*sql.DB, error) {
	if db := h.db.Load(); db != nil {
		return db, nil
	}
	if h.closed.Load() {
		return nil, ErrHandleClosed
	}

	db, err := h.connect(ctx, h.cfg, h.connCfg)
	if err != nil {
		return nil, err
	}
	if !h.db.CompareAndSwap(nil, db) {
		db.Close()
		if winner := h.db.Load(); winner != nil {
			return winner, nil
		}
		return nil, ErrHandleClosed
	}
	if h.closed.Load() {
		// Shutdown raced with us; don't leak the pool.
		h.Shutdown()
		return nil, ErrHandleClosed
	}
	logger.Log.Info("connected to database", "component", "pg", "host", h.cfg.Private.Pg.Host, "dbname", h.cfg.Private.Pg.Dbname)
	return db, nil
}

// Ping verifies the store is reachable.
func (h *Handle) Ping(ctx context.Context) error {
	db, err := h.DB(ctx)
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Shutdown closes the pool. The handle cannot be reused afterwards.
func (h *Handle) Shutdown() error {
	h.closed.Store(true)
	if db := h.db.Swap(nil); db != nil {
		return db.Close()
	}
	return nil
}
