package pg

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"net/http"

	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
	"github.com/itchan-dev/chanengine/shared/storage/pg"
	"github.com/lib/pq"
)

const (
	uniqueViolation      = "23505"
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
	adminShutdown        = "57P01"
	cannotConnectNow     = "57P03"
	tooManyConnections   = "53300"
)

// classify maps driver errors onto the engine's error kinds.
// Errors that already carry a kind pass through untouched.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var kinded *internal_errors.ErrorWithStatusCode
	if errors.As(err, &kinded) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation, serializationFailure, deadlockDetected:
			return internal_errors.Conflict(fmt.Sprintf("%s: concurrent write conflict", op), err)
		case adminShutdown, cannotConnectNow, tooManyConnections:
			return internal_errors.StoreUnavailable("Store unavailable", err)
		}
		switch pqErr.Code.Class() {
		case "08": // connection exception
			return internal_errors.StoreUnavailable("Store unavailable", err)
		case "22": // data exception, e.g. an out of range number
			return &internal_errors.ErrorWithStatusCode{
				Message:    "Invalid input",
				StatusCode: http.StatusBadRequest,
				Kind:       internal_errors.KindValidation,
				Err:        err,
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var netErr net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, pg.ErrHandleClosed),
		errors.As(err, &netErr):
		return internal_errors.StoreUnavailable("Store unavailable", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
