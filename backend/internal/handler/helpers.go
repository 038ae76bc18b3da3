package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/itchan-dev/chanengine/shared/domain"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
)

// parseIntParam parses an integer parameter from a string and returns a meaningful error
func parseIntParam(param string, paramName string) (int64, error) {
	val, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, internal_errors.Validation(fmt.Sprintf("Invalid %s: must be an integer", paramName))
	}
	return val, nil
}

// optionalIntQuery returns def when the query parameter is absent.
func optionalIntQuery(r *http.Request, name string, def int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return parseIntParam(raw, name)
}

func boardParam(r *http.Request) domain.BoardCode {
	return chi.URLParam(r, "board")
}

func threadParam(r *http.Request) (domain.ThreadNumber, error) {
	return parseIntParam(chi.URLParam(r, "thread"), "thread number")
}

// parseToken accepts an empty token; the service then generates one.
func parseToken(raw string) uuid.UUID {
	if raw == "" {
		return uuid.Nil
	}
	// already validated by DecodeValidate
	return uuid.MustParse(raw)
}
