package s3gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/inkhost/b2store/pkg/storage"
	"github.com/inkhost/b2store/pkg/urlx"
)

// Gateway implements storage.Adapter against the S3-compatible endpoint.
type Gateway struct {
	client  *s3.Client
	bucket  string
	baseURL string
	prefix  string
	namer   storage.Namer
	logger  *zap.Logger
}

var _ storage.Adapter = (*Gateway)(nil)

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

// WithNamer replaces the collision-free naming collaborator.
func WithNamer(n storage.Namer) Option {
	return func(g *Gateway) { g.namer = n }
}

// New creates a Gateway over the configured S3-compatible endpoint. The
// application key pair is applied as static credentials; path-style
// addressing is forced, as the gateway expects.
func New(ctx context.Context, cfg Config, opts ...Option) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.KeyID, cfg.Key, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	baseURL := cfg.DownloadURL
	if baseURL == "" {
		baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	g := &Gateway{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		prefix:  cfg.PathPrefix,
		namer:   storage.UUIDNamer{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Save uploads the local file behind image under targetDir with a
// collision-free name.
func (g *Gateway) Save(ctx context.Context, image storage.Image, targetDir string) (string, error) {
	data, err := os.ReadFile(image.Path)
	if err != nil {
		return "", fmt.Errorf("read source file %s: %w", image.Path, err)
	}

	if targetDir == "" {
		targetDir = storage.DefaultTargetDir()
	}
	dir := urlx.JoinPath(g.prefix, targetDir)
	name := g.namer.UniqueName(dir, image.Name)

	return g.put(ctx, data, urlx.JoinPath(dir, name))
}

// SaveRaw uploads data verbatim under targetPath.
func (g *Gateway) SaveRaw(ctx context.Context, data []byte, targetPath string) (string, error) {
	return g.put(ctx, data, urlx.JoinPath(g.prefix, targetPath))
}

func (g *Gateway) put(ctx context.Context, data []byte, key string) (string, error) {
	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(g.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", g.wrapError("SaveRaw", key, err)
	}

	url := urlx.Join(g.baseURL, key)
	g.logger.Debug("uploaded object",
		zap.String("key", key),
		zap.Int("size", len(data)))
	return url, nil
}

// Exists reports whether fileName exists under targetDir via a HeadObject
// call.
func (g *Gateway) Exists(ctx context.Context, fileName, targetDir string) (bool, error) {
	key := urlx.JoinPath(g.prefix, targetDir, fileName)

	_, err := g.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	wrapped := g.wrapError("Exists", key, err)
	if storage.IsNotFound(wrapped) {
		return false, nil
	}
	return false, wrapped
}

// Delete removes every listed version of the file. Deletions are issued
// concurrently; the aggregate result reflects all of them.
func (g *Gateway) Delete(ctx context.Context, fileName, targetDir string) (bool, error) {
	key := urlx.JoinPath(g.prefix, targetDir, fileName)

	listing, err := g.client.ListObjectVersions(ctx, &s3.ListObjectVersionsInput{
		Bucket: aws.String(g.bucket),
		Prefix: aws.String(key),
	})
	if err != nil {
		return false, g.wrapError("Delete", key, err)
	}

	versions := make([]types.ObjectVersion, 0, len(listing.Versions))
	for _, v := range listing.Versions {
		if aws.ToString(v.Key) == key {
			versions = append(versions, v)
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
		go func(v types.ObjectVersion) {
			defer wg.Done()
			_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket:    aws.String(g.bucket),
				Key:       v.Key,
				VersionId: v.VersionId,
			})
			if err != nil {
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
		return false, g.wrapError("Delete", key, firstErr)
	}
	return true, nil
}

// Read downloads the full content at path, stripping the known base-URL
// prefix first.
func (g *Gateway) Read(ctx context.Context, path string) ([]byte, error) {
	key := urlx.Strip(g.baseURL, path)

	out, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, g.wrapError("Read", key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, g.wrapError("Read", key, err)
	}
	return data, nil
}

// Serve returns a pass-through middleware; content is served from the
// endpoint or CDN directly.
func (g *Gateway) Serve() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

// DownloadURL is a pure function of the base URL and an optional trailing
// path segment.
func (g *Gateway) DownloadURL(subPath string) string {
	if subPath == "" {
		return g.baseURL
	}
	return urlx.Join(g.baseURL, subPath)
}

// wrapError converts SDK errors to the storage error taxonomy.
func (g *Gateway) wrapError(op, key string, err error) error {
	kind := storage.ErrInternal

	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	var apiErr smithy.APIError

	switch {
	case errors.As(err, &notFound), errors.As(err, &noSuchKey):
		kind = storage.ErrNotFound
	case errors.As(err, &apiErr):
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			kind = storage.ErrNotFound
		case "AccessDenied", "Forbidden":
			kind = storage.ErrForbidden
		case "InvalidAccessKeyId", "SignatureDoesNotMatch":
			kind = storage.ErrUnauthorized
		case "InvalidRequest", "InvalidArgument":
			kind = storage.ErrBadRequest
		}
	}

	return &storage.StorageError{
		Op:     op,
		Bucket: g.bucket,
		Key:    key,
		Err:    fmt.Errorf("%w: %w", kind, err),
	}
}
