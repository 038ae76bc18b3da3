package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/itchan-dev/chanengine/shared/api"
	internal_errors "github.com/itchan-dev/chanengine/shared/errors"
)

const defaultTimeout = 10 * time.Second

// APIClient struct handles all communication with the backend API.
type APIClient struct {
	BaseURL    string
	HttpClient *http.Client
	// AdminToken is sent as a bearer token. Only admin operations need it.
	AdminToken string
}

// New creates a new client for interacting with the backend.
func New(baseURL string) *APIClient {
	return &APIClient{
		BaseURL:    baseURL,
		HttpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// do is the single, unified helper for making API requests.
// A non-nil in is sent as json; a non-nil out receives the decoded 2xx body.
// Non-2xx responses become *errors.ErrorWithStatusCode carrying the server's kind.
func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		jsonBody, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.AdminToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AdminToken)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return internal_errors.StoreUnavailable("backend unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("cannot decode %s %s response: %w", method, path, err)
	}
	return nil
}

func responseError(resp *http.Response) error {
	e := &internal_errors.ErrorWithStatusCode{
		Message:    fmt.Sprintf("backend returned status %d", resp.StatusCode),
		StatusCode: resp.StatusCode,
		Kind:       internal_errors.KindInternal,
	}
	var body api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			e.Message = body.Error
		}
		if body.Kind != "" {
			e.Kind = internal_errors.Kind(body.Kind)
		}
	}
	return e
}
