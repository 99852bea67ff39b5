package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/solotter/internal/shared"
)

// codeRateLimitExceeded is Twitter's error code for an exhausted rate-limit window.
const codeRateLimitExceeded = 88

// APIError is a non-2xx response from the Twitter API. It matches [shared.ErrRemoteAPI] with [errors.Is].
type APIError struct {
	Endpoint   string
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != 0 {
		return fmt.Sprintf("twitter API error on %s (status %d, code %d): %s", e.Endpoint, e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("twitter API error on %s (status %d): %s", e.Endpoint, e.StatusCode, msg)
}

func (e *APIError) Unwrap() error { return shared.ErrRemoteAPI }

// RateLimited reports whether the request was rejected by a rate limit.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.Code == codeRateLimitExceeded
}

// Temporary reports whether repeating the request may succeed.
func (e *APIError) Temporary() bool {
	return e.RateLimited() || e.StatusCode >= 500
}

// Unauthorized reports whether the credentials were rejected.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// parseAPIError decodes either {"errors":[{"code","message"}]} or {"error":"..."} bodies.
func parseAPIError(endpoint string, status int, body []byte) *APIError {
	apiErr := &APIError{Endpoint: endpoint, StatusCode: status}

	var payload struct {
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	switch {
	case len(payload.Errors) > 0:
		apiErr.Code = payload.Errors[0].Code
		apiErr.Message = payload.Errors[0].Message
	case payload.Error != "":
		apiErr.Message = payload.Error
	}
	return apiErr
}

// IsRateLimited reports whether err carries a rate-limited [APIError].
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.RateLimited()
}
