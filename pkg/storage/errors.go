package storage

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/inkhost/b2store/pkg/b2api"
)

// Sentinel errors for storage operations. The host platform's error
// handling keys off the kind, not the message string, so the HTTP status
// mapping in mapStatus must stay exact.
var (
	// ErrBadRequest indicates the provider rejected the request as malformed.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized indicates the request lacked valid authorization.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the key lacks permission for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrInternal indicates an unclassified provider or transport failure.
	ErrInternal = errors.New("internal storage error")
)

// ConfigError represents a configuration validation failure at
// construction. The adapter is unusable when construction fails.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "storage config: " + e.Field + ": " + e.Message
}

// StorageError wraps operation failures with context.
type StorageError struct {
	// Op is the operation that failed (e.g. "Read", "Exists").
	Op string

	// Bucket is the bucket name.
	Bucket string

	// Key is the storage path, if applicable.
	Key string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Bucket, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error indicates a missing object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// mapStatus converts a provider HTTP status to the storage error taxonomy.
func mapStatus(status int, cause error) error {
	var kind error
	switch status {
	case http.StatusBadRequest:
		kind = ErrBadRequest
	case http.StatusUnauthorized:
		kind = ErrUnauthorized
	case http.StatusForbidden:
		kind = ErrForbidden
	case http.StatusNotFound:
		kind = ErrNotFound
	default:
		kind = ErrInternal
	}
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// mapAPIError classifies err by the HTTP status it carries; errors without
// a status (transport failures) map to ErrInternal.
func mapAPIError(err error) error {
	if status := b2api.StatusOf(err); status != 0 {
		return mapStatus(status, err)
	}
	return fmt.Errorf("%w: %w", ErrInternal, err)
}
