package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: "gcs"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}

func TestNew_InvalidConfigFailsFast(t *testing.T) {
	// Missing credentials surface as construction errors, not as a
	// half-initialized adapter.
	_, err := New(context.Background(), Config{Driver: DriverB2}, nil)
	require.Error(t, err)

	_, err = New(context.Background(), Config{Driver: DriverS3}, nil)
	require.Error(t, err)
}
