// Package driver selects and constructs a storage adapter from
// configuration.
package driver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inkhost/b2store/pkg/storage"
	"github.com/inkhost/b2store/pkg/storage/s3gateway"
)

// Driver names a storage backend.
type Driver string

const (
	// DriverB2 is the native REST API adapter (default).
	DriverB2 Driver = "b2"

	// DriverS3 is the S3-compatible gateway adapter.
	DriverS3 Driver = "s3"
)

// Config selects a driver and carries both adapters' configuration.
type Config struct {
	Driver Driver
	B2     storage.Config
	S3     s3gateway.Config
}

// New constructs a ready adapter for the configured driver. An empty driver
// selects the native adapter.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (storage.Adapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case "", DriverB2:
		return storage.NewB2(ctx, cfg.B2, storage.WithLogger(logger))
	case DriverS3:
		return s3gateway.New(ctx, cfg.S3, s3gateway.WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
