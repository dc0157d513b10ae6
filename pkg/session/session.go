// Package session manages the provider-side authorization session: the
// token, the account's base URLs, and any bucket restriction carried by the
// application key.
//
// The provider does not expose token expiry, so no local clock-based
// tracking is attempted. Every "expired token" signal comes from a failed
// downstream call, which re-authorizes through Reauthorize.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/inkhost/b2store/pkg/b2api"
)

// ErrAuth marks authorization failures for errors.Is checks.
var ErrAuth = errors.New("authorization failed")

// AuthError wraps the underlying cause of a failed authorize call.
type AuthError struct {
	Err error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("session: authorization failed: %v", e.Err)
}

// Unwrap supports errors.Is(err, ErrAuth) and unwrapping the cause.
func (e *AuthError) Unwrap() []error {
	return []error{ErrAuth, e.Err}
}

// BucketRestriction is the single bucket a restricted application key is
// scoped to, as stated by the provider in the authorize response.
type BucketRestriction struct {
	BucketID   string
	BucketName string
}

// State is the result of one successful authorize call. It is replaced
// wholesale on re-authorization and never partially mutated.
type State struct {
	AccountID   string
	Token       string
	APIURL      string
	DownloadURL string
	ObtainedAt  time.Time
	Restriction *BucketRestriction
}

// Authorizer is the slice of the API client the session needs.
type Authorizer interface {
	Authorize(ctx context.Context, keyID, key string) (*b2api.AuthorizeResponse, error)
}

// Session holds the current authorization state for one adapter instance.
// It is safe for concurrent use: readers snapshot the state under a read
// lock, and re-authorization swaps it atomically.
type Session struct {
	client Authorizer
	keyID  string
	key    string
	logger *zap.Logger

	mu    sync.RWMutex
	state *State
}

// New creates an unauthorized session. Call Authorize before use.
func New(client Authorizer, keyID, key string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{client: client, keyID: keyID, key: key, logger: logger}
}

// Authorize obtains a fresh token and replaces the session state. On
// failure any previously-held state is left untouched.
func (s *Session) Authorize(ctx context.Context) error {
	resp, err := s.client.Authorize(ctx, s.keyID, s.key)
	if err != nil {
		s.logger.Warn("authorization failed", zap.Error(err))
		return &AuthError{Err: err}
	}

	next := &State{
		AccountID:   resp.AccountID,
		Token:       resp.AuthorizationToken,
		APIURL:      resp.APIURL,
		DownloadURL: resp.DownloadURL,
		ObtainedAt:  time.Now(),
	}
	if resp.Allowed.BucketID != "" {
		next.Restriction = &BucketRestriction{
			BucketID:   resp.Allowed.BucketID,
			BucketName: resp.Allowed.BucketName,
		}
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.logger.Debug("authorization refreshed",
		zap.String("account_id", next.AccountID),
		zap.Bool("bucket_restricted", next.Restriction != nil))
	return nil
}

// Reauthorize fetches a fresh token regardless of the current token's age.
// Used by the upload retry path after the provider reports an expired or
// invalid token.
func (s *Session) Reauthorize(ctx context.Context) error {
	return s.Authorize(ctx)
}

// State returns the current authorization state, or nil before the first
// successful Authorize. The returned value is immutable.
func (s *Session) State() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Auth returns the API URL and token for the current state. Zero-valued
// before the first successful Authorize.
func (s *Session) Auth() b2api.Auth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return b2api.Auth{}
	}
	return b2api.Auth{APIURL: s.state.APIURL, Token: s.state.Token}
}

// AccountID returns the authorized account id, or "" before authorization.
func (s *Session) AccountID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return ""
	}
	return s.state.AccountID
}

// DownloadURL returns the provider's download base URL for this account.
func (s *Session) DownloadURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return ""
	}
	return s.state.DownloadURL
}

// HasBucketRestriction reports whether the current state carries a bucket
// restriction matching bucketID.
func (s *Session) HasBucketRestriction(bucketID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state != nil && s.state.Restriction != nil && s.state.Restriction.BucketID == bucketID
}

// Restriction returns the restricted bucket identity, if any.
func (s *Session) Restriction() (id, name string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil || s.state.Restriction == nil {
		return "", "", false
	}
	return s.state.Restriction.BucketID, s.state.Restriction.BucketName, true
}
