package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/itchan-dev/chanengine/shared/api"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
	"github.com/itchan-dev/chanengine/shared/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteErrorAndStatusCode renders err as api.ErrorResponse.
// Errors without a status code become 500 and their text is not leaked.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"
	var e *internal_errors.ErrorWithStatusCode
	if errors.As(err, &e) {
		status = e.StatusCode
		message = e.Message
	}
	if status >= http.StatusInternalServerError {
		logger.Log.Error("request failed", "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: message, Kind: string(internal_errors.KindOf(err))})
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := Decode(r, body); err != nil {
		return err
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("request validation failed", "error", err)
		return internal_errors.Validation("Required fields missing or malformed")
	}
	return nil
}

func Decode(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("request decode failed", "error", err)
		return internal_errors.Validation("Body is invalid json")
	}
	return nil
}
