package b2api

import (
	"errors"
	"fmt"
)

// Error codes the client inspects. The provider reports token problems only
// post hoc, via these codes on a failed call; it never exposes token expiry
// up front.
const (
	CodeBadAuthToken     = "bad_auth_token"
	CodeExpiredAuthToken = "expired_auth_token"
)

// APIError is the JSON error body the provider returns for non-2xx
// responses.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("b2: %s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("b2: %s (%d)", e.Code, e.Status)
}

// AuthExpired reports whether the error signals an expired or invalid
// authorization token.
func (e *APIError) AuthExpired() bool {
	return e.Code == CodeBadAuthToken || e.Code == CodeExpiredAuthToken
}

// IsAuthExpired returns true if err carries an APIError whose code marks the
// authorization token as expired or invalid.
func IsAuthExpired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.AuthExpired()
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an
// APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
