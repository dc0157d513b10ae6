// Package upload orchestrates a single logical upload against the provider,
// including the one-shot re-authorization retry when the provider reports an
// expired or invalid token.
package upload

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inkhost/b2store/pkg/b2api"
	"github.com/inkhost/b2store/pkg/urlx"
)

// Reason classifies upload failures. Only ReasonAuthExpired triggers the
// single retry; the others propagate immediately.
type Reason string

const (
	ReasonAuthExpired      Reason = "auth_expired"
	ReasonProviderRejected Reason = "provider_rejected"
	ReasonTransportFailure Reason = "transport_failure"
)

// Error is a typed upload failure.
type Error struct {
	Reason Reason
	Path   string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("upload %s: %s: %v", e.Path, e.Reason, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ReasonOf returns the failure reason carried by err, or "" when err is not
// an upload Error.
func ReasonOf(err error) Reason {
	var uploadErr *Error
	if errors.As(err, &uploadErr) {
		return uploadErr.Reason
	}
	return ""
}

// TargetClient is the slice of the API client the coordinator needs.
type TargetClient interface {
	GetUploadURL(ctx context.Context, auth b2api.Auth, bucketID string) (*b2api.UploadTarget, error)
	UploadFile(ctx context.Context, target *b2api.UploadTarget, fileName string, data []byte, contentType string) (*b2api.FileVersion, error)
}

// Session is the re-authorization hook used by the retry path.
type Session interface {
	Auth() b2api.Auth
	Reauthorize(ctx context.Context) error
}

// Coordinator performs logical uploads for one resolved bucket. Per upload
// it makes at most one re-authorization call, at most two upload-target
// requests, and at most one byte-transfer attempt.
type Coordinator struct {
	client   TargetClient
	session  Session
	bucketID string
	baseURL  string
	logger   *zap.Logger
}

// New creates a Coordinator. baseURL is the already-derived public download
// base; it is not recomputed per upload.
func New(client TargetClient, sess Session, bucketID, baseURL string, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		client:   client,
		session:  sess,
		bucketID: bucketID,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Upload stores data under storagePath and returns the public download URL.
func (c *Coordinator) Upload(ctx context.Context, data []byte, storagePath string) (string, error) {
	target, err := c.acquireTarget(ctx, false)
	if err != nil {
		return "", &Error{Reason: classify(err), Path: storagePath, Err: err}
	}

	if _, err := c.client.UploadFile(ctx, target, storagePath, data, ""); err != nil {
		return "", &Error{Reason: classify(err), Path: storagePath, Err: err}
	}

	url := urlx.Join(c.baseURL, storagePath)
	c.logger.Debug("upload complete",
		zap.String("path", storagePath),
		zap.Int("size", len(data)),
		zap.String("url", url))
	return url, nil
}

// acquireTarget requests a fresh upload target. On an expired or invalid
// token it re-authorizes and retries exactly once; the retried flag stops
// any further recursion.
func (c *Coordinator) acquireTarget(ctx context.Context, retried bool) (*b2api.UploadTarget, error) {
	target, err := c.client.GetUploadURL(ctx, c.session.Auth(), c.bucketID)
	if err == nil {
		return target, nil
	}
	if retried || !b2api.IsAuthExpired(err) {
		return nil, err
	}

	c.logger.Info("upload token expired, re-authorizing", zap.String("bucket_id", c.bucketID))
	if authErr := c.session.Reauthorize(ctx); authErr != nil {
		return nil, authErr
	}
	return c.acquireTarget(ctx, true)
}

// classify maps an underlying failure to an upload reason.
func classify(err error) Reason {
	switch {
	case b2api.IsAuthExpired(err):
		return ReasonAuthExpired
	case b2api.StatusOf(err) != 0:
		return ReasonProviderRejected
	default:
		return ReasonTransportFailure
	}
}
