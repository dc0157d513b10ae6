package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/inkhost/b2store/pkg/b2api"
	"github.com/inkhost/b2store/pkg/bucket"
	"github.com/inkhost/b2store/pkg/session"
	"github.com/inkhost/b2store/pkg/upload"
	"github.com/inkhost/b2store/pkg/urlx"
)

// deleteListLimit bounds the single version-listing page used by Delete.
const deleteListLimit = 1000

// Config configures the B2 adapter.
//
// Values are resolved once at construction and never mutated. The host
// sources them from explicit configuration with environment-variable
// fallback (B2_APPLICATION_KEY_ID and friends); explicit non-empty values
// win over environment.
type Config struct {
	// ApplicationKeyID and ApplicationKey are the credential pair
	// (required).
	ApplicationKeyID string
	ApplicationKey   string

	// BucketID is the opaque bucket identifier (required).
	BucketID string

	// BucketName skips the remote bucket lookup when set.
	BucketName string

	// DownloadURL, when set, is used verbatim as the base for all
	// generated URLs (CDN fronting). Otherwise the provider's own
	// download domain is used.
	DownloadURL string

	// PathPrefix is prepended to every storage path.
	PathPrefix string
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.ApplicationKeyID == "" {
		return &ConfigError{Field: "ApplicationKeyID", Message: "application key id is required"}
	}
	if c.ApplicationKey == "" {
		return &ConfigError{Field: "ApplicationKey", Message: "application key is required"}
	}
	if c.BucketID == "" {
		return &ConfigError{Field: "BucketID", Message: "bucket id is required"}
	}
	return nil
}

// B2 implements Adapter against the provider's native REST API.
type B2 struct {
	client  *b2api.Client
	session *session.Session
	bucket  bucket.Resolved
	uploads *upload.Coordinator
	baseURL string
	prefix  string
	namer   Namer
	logger  *zap.Logger
}

var _ Adapter = (*B2)(nil)

// B2Option configures the adapter.
type B2Option func(*B2)

// WithLogger sets the structured logger for the adapter and every component
// it builds. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) B2Option {
	return func(b *B2) { b.logger = logger }
}

// WithNamer replaces the collision-free naming collaborator. The host
// platform injects its own; tests and the CLI use the UUID default.
func WithNamer(n Namer) B2Option {
	return func(b *B2) { b.namer = n }
}

// WithClient replaces the API client, e.g. to point at a test server or to
// apply rate limiting.
func WithClient(c *b2api.Client) B2Option {
	return func(b *B2) { b.client = c }
}

// NewB2 constructs a ready adapter: it validates configuration, authorizes,
// resolves the bucket identity, and derives the public base URL before
// returning. A returned adapter is fully initialized; a failed construction
// returns the causing ConfigError, authorization, or bucket resolution
// error.
func NewB2(ctx context.Context, cfg Config, opts ...B2Option) (*B2, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &B2{
		prefix: cfg.PathPrefix,
		namer:  UUIDNamer{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.client == nil {
		b.client = b2api.NewClient(b2api.WithLogger(b.logger))
	}

	b.session = session.New(b.client, cfg.ApplicationKeyID, cfg.ApplicationKey, b.logger)
	if err := b.session.Authorize(ctx); err != nil {
		return nil, err
	}

	resolved, err := bucket.Resolve(ctx, cfg.BucketID, cfg.BucketName, b.session, b.client, b.logger)
	if err != nil {
		return nil, err
	}
	b.bucket = resolved

	b.baseURL = urlx.Base(cfg.DownloadURL, b.session.DownloadURL(), resolved.Name)
	b.uploads = upload.New(b.client, b.session, resolved.ID, b.baseURL, b.logger)

	b.logger.Info("storage adapter ready",
		zap.String("bucket_id", resolved.ID),
		zap.String("bucket_name", resolved.Name),
		zap.String("base_url", b.baseURL))
	return b, nil
}

// Save uploads the local file behind image under targetDir with a
// collision-free name.
func (b *B2) Save(ctx context.Context, image Image, targetDir string) (string, error) {
	data, err := os.ReadFile(image.Path)
	if err != nil {
		return "", fmt.Errorf("read source file %s: %w", image.Path, err)
	}

	if targetDir == "" {
		targetDir = DefaultTargetDir()
	}
	dir := urlx.JoinPath(b.prefix, targetDir)
	name := b.namer.UniqueName(dir, image.Name)

	return b.uploads.Upload(ctx, data, urlx.JoinPath(dir, name))
}

// SaveRaw uploads data verbatim under targetPath.
func (b *B2) SaveRaw(ctx context.Context, data []byte, targetPath string) (string, error) {
	return b.uploads.Upload(ctx, data, urlx.JoinPath(b.prefix, targetPath))
}

// Exists issues a metadata-only retrieval for the storage path. 200 maps to
// true and 404 to false; any other status is an error, never a boolean.
func (b *B2) Exists(ctx context.Context, fileName, targetDir string) (bool, error) {
	path := urlx.JoinPath(b.prefix, targetDir, fileName)

	_, err := b.client.DownloadFileByName(ctx, b.session.Auth(), b.session.DownloadURL(), b.bucket.Name, path, true)
	if err == nil {
		return true, nil
	}
	if b2api.StatusOf(err) == http.StatusNotFound {
		return false, nil
	}
	return false, &StorageError{Op: "Exists", Bucket: b.bucket.Name, Key: path, Err: mapAPIError(err)}
}

// Delete removes every listed version of the file. Version deletions are
// issued concurrently; the aggregate result reflects all of them. Zero
// versions yields false without error.
func (b *B2) Delete(ctx context.Context, fileName, targetDir string) (bool, error) {
	path := urlx.JoinPath(b.prefix, targetDir, fileName)

	listing, err := b.client.ListFileVersions(ctx, b.session.Auth(), b.bucket.ID, path, deleteListLimit)
	if err != nil {
		return false, &StorageError{Op: "Delete", Bucket: b.bucket.Name, Key: path, Err: mapAPIError(err)}
	}

	versions := make([]b2api.FileVersion, 0, len(listing.Files))
	for _, f := range listing.Files {
		if f.FileName == path {
			versions = append(versions, f)
		}
	}
	if len(versions) == 0 {
		return false, nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, v := range versions {
		wg.Add(1)
		go func(v b2api.FileVersion) {
			defer wg.Done()
			if err := b.client.DeleteFileVersion(ctx, b.session.Auth(), v.FileID, v.FileName); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(v)
	}
	wg.Wait()

	if firstErr != nil {
		return false, &StorageError{Op: "Delete", Bucket: b.bucket.Name, Key: path, Err: mapAPIError(firstErr)}
	}

	b.logger.Debug("deleted file versions",
		zap.String("path", path),
		zap.Int("versions", len(versions)))
	return true, nil
}

// Read downloads the full content at path. A known base-URL prefix is
// stripped to obtain the provider-relative file name; already-relative
// paths pass through unchanged.
func (b *B2) Read(ctx context.Context, path string) ([]byte, error) {
	name := urlx.Strip(b.baseURL, path)

	result, err := b.client.DownloadFileByName(ctx, b.session.Auth(), b.session.DownloadURL(), b.bucket.Name, name, false)
	if err != nil {
		return nil, &StorageError{Op: "Read", Bucket: b.bucket.Name, Key: name, Err: mapAPIError(err)}
	}
	return result.Body, nil
}

// Serve returns a pass-through middleware: content is served directly from
// the provider or the fronting CDN, never proxied through the adapter.
func (b *B2) Serve() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

// DownloadURL is a pure function of the cached base URL and an optional
// trailing path segment.
func (b *B2) DownloadURL(subPath string) string {
	if subPath == "" {
		return b.baseURL
	}
	return urlx.Join(b.baseURL, subPath)
}

// ListVersions returns a single page of file versions under prefix,
// including the adapter's path prefix. Used by operational tooling.
func (b *B2) ListVersions(ctx context.Context, prefix string) ([]b2api.FileVersion, error) {
	path := urlx.JoinPath(b.prefix, prefix)
	listing, err := b.client.ListFileVersions(ctx, b.session.Auth(), b.bucket.ID, path, deleteListLimit)
	if err != nil {
		return nil, &StorageError{Op: "ListVersions", Bucket: b.bucket.Name, Key: path, Err: mapAPIError(err)}
	}
	return listing.Files, nil
}

// Bucket returns the resolved bucket identity.
func (b *B2) Bucket() bucket.Resolved {
	return b.bucket
}

// BaseURL returns the public download base URL.
func (b *B2) BaseURL() string {
	return b.baseURL
}

// Session exposes the authorization session for diagnostics.
func (b *B2) Session() *session.Session {
	return b.session
}
