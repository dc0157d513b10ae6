// Package bucket resolves the configured bucket identifier to a definitive
// (id, name) pair.
package bucket

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inkhost/b2store/pkg/b2api"
)

// ErrBucketNotFound indicates the remote lookup returned no matching bucket.
// Fatal to adapter initialization.
var ErrBucketNotFound = errors.New("bucket not found")

// Resolved is the definitive bucket identity for the adapter's lifetime.
// The provider's bucket identity does not change without reconstruction.
type Resolved struct {
	ID   string
	Name string
}

// Lister is the slice of the API client the resolver needs.
type Lister interface {
	ListBuckets(ctx context.Context, auth b2api.Auth, accountID, bucketID string) (*b2api.ListBucketsResponse, error)
}

// Session is the authorization state the resolver consults.
type Session interface {
	HasBucketRestriction(bucketID string) bool
	Restriction() (id, name string, ok bool)
	Auth() b2api.Auth
	AccountID() string
}

// Resolve determines the bucket identity using a three-tier policy, first
// match wins:
//
//  1. Both id and name configured: use them directly, no remote call.
//  2. The application key is restricted to the configured bucket: trust the
//     provider's own statement of identity from the authorize response.
//  3. Remote lookup via b2_list_buckets, which requires listing permission.
func Resolve(ctx context.Context, bucketID, bucketName string, sess Session, client Lister, logger *zap.Logger) (Resolved, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if bucketID != "" && bucketName != "" {
		return Resolved{ID: bucketID, Name: bucketName}, nil
	}

	if sess.HasBucketRestriction(bucketID) {
		id, name, _ := sess.Restriction()
		logger.Debug("bucket resolved from key restriction",
			zap.String("bucket_id", id),
			zap.String("bucket_name", name))
		return Resolved{ID: id, Name: name}, nil
	}

	resp, err := client.ListBuckets(ctx, sess.Auth(), sess.AccountID(), bucketID)
	if err != nil {
		return Resolved{}, fmt.Errorf("resolve bucket %s: %w", bucketID, err)
	}
	if len(resp.Buckets) == 0 {
		return Resolved{}, fmt.Errorf("resolve bucket %s: %w", bucketID, ErrBucketNotFound)
	}

	resolved := Resolved{ID: bucketID, Name: resp.Buckets[0].BucketName}
	logger.Debug("bucket resolved from remote lookup",
		zap.String("bucket_id", resolved.ID),
		zap.String("bucket_name", resolved.Name))
	return resolved, nil
}
