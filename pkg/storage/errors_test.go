package storage

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkhost/b2store/pkg/b2api"
)

func TestMapStatus_ExactTaxonomy(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrInternal},
		{http.StatusInternalServerError, ErrInternal},
		{http.StatusServiceUnavailable, ErrInternal},
	}

	for _, tt := range tests {
		err := mapStatus(tt.status, nil)
		assert.True(t, errors.Is(err, tt.want), "status %d", tt.status)
	}
}

func TestMapAPIError_KeepsCause(t *testing.T) {
	cause := &b2api.APIError{Status: 404, Code: "not_found", Message: "no such file"}
	err := mapAPIError(cause)

	assert.True(t, errors.Is(err, ErrNotFound))

	var apiErr *b2api.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "not_found", apiErr.Code)
}

func TestMapAPIError_TransportFailureIsInternal(t *testing.T) {
	err := mapAPIError(errors.New("connection refused"))
	assert.True(t, errors.Is(err, ErrInternal))
}

func TestStorageError_Formatting(t *testing.T) {
	err := &StorageError{Op: "Read", Bucket: "my_bucket", Key: "images/a.png", Err: ErrNotFound}
	assert.Equal(t, "Read: my_bucket/images/a.png: object not found", err.Error())
	assert.True(t, IsNotFound(err))
}
