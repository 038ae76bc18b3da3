package errors

import (
	"errors"
	"net/http"
)

// Kind is the stable error category exposed to callers.
type Kind string

const (
	KindInternal         Kind = "internal"
	KindNotFound         Kind = "not_found"
	KindValidation       Kind = "validation"
	KindThreadLocked     Kind = "thread_locked"
	KindConflict         Kind = "conflict"
	KindStoreUnavailable Kind = "store_unavailable"
	KindUnauthorized     Kind = "unauthorized"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
	Kind       Kind
	Err        error
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func (e *ErrorWithStatusCode) Unwrap() error {
	return e.Err
}

func NotFound(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusNotFound, Kind: KindNotFound}
}

func Validation(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusBadRequest, Kind: KindValidation}
}

func ThreadLocked(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusForbidden, Kind: KindThreadLocked}
}

// Conflict is retried internally when it comes from number allocation.
// Board creation surfaces it as is.
func Conflict(msg string, cause error) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusConflict, Kind: KindConflict, Err: cause}
}

func StoreUnavailable(msg string, cause error) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusServiceUnavailable, Kind: KindStoreUnavailable, Err: cause}
}

func Unauthorized(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusUnauthorized, Kind: KindUnauthorized}
}

// KindOf returns the Kind of the first ErrorWithStatusCode in err's chain,
// KindInternal otherwise.
func KindOf(err error) Kind {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) && e.Kind != "" {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
