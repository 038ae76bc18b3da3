package pg

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/itchan-dev/chanengine/shared/config"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
	"github.com/itchan-dev/chanengine/shared/logger"
	"github.com/itchan-dev/chanengine/shared/storage/pg"
)

//go:embed migrations/schema.sql
var schema string

// schemaLockKey serializes schema bootstrap across processes starting together.
const schemaLockKey = 0x6368616e // "chan"

type Storage struct {
	handle *pg.Handle
	cfg    *config.Config
	log    *slog.Logger
}

// New wires the storage to the process-wide handle and makes sure tables and
// indexes exist. The engine must not serve traffic before this returns.
func New(ctx context.Context, handle *pg.Handle, cfg *config.Config) (*Storage, error) {
	s := &Storage{handle: handle, cfg: cfg, log: logger.Component("storage")}
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) EnsureSchema(ctx context.Context) error {
	err := s.inTx(ctx, "ensure schema", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", schemaLockKey); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, schema)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	s.log.Info("database indexes initialized")
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return classify("ping", s.handle.Ping(ctx))
}

func (s *Storage) Cleanup() error {
	return s.handle.Shutdown()
}

func (s *Storage) db(ctx context.Context) (*sql.DB, error) {
	db, err := s.handle.DB(ctx)
	if err != nil {
		return nil, internal_errors.StoreUnavailable("Store unavailable", err)
	}
	return db, nil
}

// inTx runs fn in one transaction and classifies whatever comes out of it.
func (s *Storage) inTx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	return classify(op, pg.WithTx(ctx, db, fn))
}

// database anyway rounds to microseconds
func now() time.Time {
	return time.Now().UTC().Round(time.Microsecond)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func nullableString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
