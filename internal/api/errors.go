package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError represents an error returned by the ClickUp API.
type APIError struct {
	StatusCode int
	Code       string // ClickUp ECODE, e.g. "OAUTH_025"
	Message    string
}

// newAPIError builds an APIError, decoding ClickUp's {"err","ECODE"} body when present.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: string(body)}

	var payload struct {
		Err   string `json:"err"`
		ECode string `json:"ECODE"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Err != "" {
		apiErr.Message = payload.Err
		apiErr.Code = payload.ECode
	}
	return apiErr
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error (status %d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error is a 404 Not Found error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized returns true if the error is a 401 Unauthorized error.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401
}

// IsForbidden returns true if the error is a 403 Forbidden error.
func (e *APIError) IsForbidden() bool {
	return e.StatusCode == 403
}

// IsRateLimited returns true if the error is a 429 Too Many Requests error.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsServerError returns true if the error is a 5xx server error.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsAPIError checks if an error is, or wraps, an APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsUnauthorized reports whether err wraps a 401 from the API.
func IsUnauthorized(err error) bool {
	apiErr, ok := IsAPIError(err)
	return ok && apiErr.IsUnauthorized()
}
