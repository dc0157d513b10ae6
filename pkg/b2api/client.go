// Package b2api implements a stateless client for the Backblaze B2 native
// REST API.
//
// The client holds no session state: authorization tokens and API base URLs
// are passed in per call via Auth. Session lifecycle (obtaining and
// refreshing tokens) belongs to pkg/session.
package b2api

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultAuthEndpoint is the fixed entry point for b2_authorize_account.
// Every other call goes to the account-specific API URL returned by it.
const DefaultAuthEndpoint = "https://api.backblazeb2.com"

// apiPrefix is the versioned path prefix for all native API calls.
const apiPrefix = "/b2api/v2/"

// DefaultContentType lets the provider sniff the MIME type server-side.
const DefaultContentType = "b2/x-auto"

// Client is a thin wrapper around the provider's REST API.
//
// It is safe for concurrent use. An optional client-side rate limiter is
// applied to every request before it is sent.
type Client struct {
	httpClient   *http.Client
	authEndpoint string
	limiter      *rate.Limiter
	logger       *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAuthEndpoint overrides the authorize entry point. Used by tests and
// for provider-compatible endpoints.
func WithAuthEndpoint(endpoint string) Option {
	return func(c *Client) { c.authEndpoint = strings.TrimRight(endpoint, "/") }
}

// WithRateLimit applies a client-side requests-per-second cap across all
// calls made through this client.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: 2 * time.Minute},
		authEndpoint: DefaultAuthEndpoint,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authorize exchanges an application key pair for an authorization token and
// the account's API and download base URLs.
func (c *Client) Authorize(ctx context.Context, keyID, key string) (*AuthorizeResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.authEndpoint+apiPrefix+"b2_authorize_account", nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(keyID, key)

	var out AuthorizeResponse
	if err := c.send(req, &out); err != nil {
		return nil, fmt.Errorf("authorize account: %w", err)
	}

	c.logger.Debug("authorized account",
		zap.String("account_id", out.AccountID),
		zap.String("api_url", out.APIURL))
	return &out, nil
}

// ListBuckets looks up buckets for the account. A non-empty bucketID limits
// the result to that single bucket.
func (c *Client) ListBuckets(ctx context.Context, auth Auth, accountID, bucketID string) (*ListBucketsResponse, error) {
	body := map[string]string{"accountId": accountID}
	if bucketID != "" {
		body["bucketId"] = bucketID
	}

	var out ListBucketsResponse
	if err := c.call(ctx, auth, "b2_list_buckets", body, &out); err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	return &out, nil
}

// GetUploadURL obtains a fresh single-use upload target for the bucket.
func (c *Client) GetUploadURL(ctx context.Context, auth Auth, bucketID string) (*UploadTarget, error) {
	var out UploadTarget
	if err := c.call(ctx, auth, "b2_get_upload_url", map[string]string{"bucketId": bucketID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadFile transfers data to the given upload target under fileName.
// An empty contentType lets the provider auto-detect.
func (c *Client) UploadFile(ctx context.Context, target *UploadTarget, fileName string, data []byte, contentType string) (*FileVersion, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = DefaultContentType
	}

	sum := sha1.Sum(data)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.UploadURL, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", target.AuthorizationToken)
	req.Header.Set("X-Bz-File-Name", escapeFileName(fileName))
	req.Header.Set("X-Bz-Content-Sha1", hex.EncodeToString(sum[:]))
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(data))

	var out FileVersion
	if err := c.send(req, &out); err != nil {
		return nil, err
	}

	c.logger.Debug("uploaded file",
		zap.String("file_name", out.FileName),
		zap.Int64("size", out.ContentLength))
	return &out, nil
}

// DownloadFileByName fetches a file by bucket name and file name from the
// account's download base URL. With headOnly the request carries no body
// transfer; only metadata is returned.
func (c *Client) DownloadFileByName(ctx context.Context, auth Auth, downloadURL, bucketName, fileName string, headOnly bool) (*DownloadResult, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	method := http.MethodGet
	if headOnly {
		method = http.MethodHead
	}

	u := strings.TrimRight(downloadURL, "/") + "/file/" + bucketName + "/" + escapeFileName(fileName)
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	if auth.Token != "" {
		req.Header.Set("Authorization", auth.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	result := &DownloadResult{
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		ContentSha1:   resp.Header.Get("X-Bz-Content-Sha1"),
	}
	if !headOnly {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read download body: %w", err)
		}
		result.Body = body
		result.ContentLength = int64(len(body))
	}
	return result, nil
}

// ListFileVersions returns a single page of file versions whose names start
// with prefix. maxCount is clamped to the provider's page limit of 1000.
func (c *Client) ListFileVersions(ctx context.Context, auth Auth, bucketID, prefix string, maxCount int) (*ListFileVersionsResponse, error) {
	if maxCount <= 0 || maxCount > 1000 {
		maxCount = 1000
	}

	body := map[string]any{
		"bucketId":     bucketID,
		"maxFileCount": maxCount,
	}
	if prefix != "" {
		body["prefix"] = prefix
		body["startFileName"] = prefix
	}

	var out ListFileVersionsResponse
	if err := c.call(ctx, auth, "b2_list_file_versions", body, &out); err != nil {
		return nil, fmt.Errorf("list file versions: %w", err)
	}
	return &out, nil
}

// DeleteFileVersion removes one specific version of a file.
func (c *Client) DeleteFileVersion(ctx context.Context, auth Auth, fileID, fileName string) error {
	body := map[string]string{"fileId": fileID, "fileName": fileName}
	if err := c.call(ctx, auth, "b2_delete_file_version", body, &struct{}{}); err != nil {
		return fmt.Errorf("delete file version %s: %w", fileID, err)
	}
	return nil
}

// call POSTs a JSON body to the named API operation and decodes the JSON
// response into out.
func (c *Client) call(ctx context.Context, auth Auth, operation string, body, out any) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	u := strings.TrimRight(auth.APIURL, "/") + apiPrefix + operation
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", auth.Token)
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, out)
}

// send executes the request and decodes a 2xx JSON response into out.
// Non-2xx responses are decoded into an APIError.
func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// decodeError turns a non-2xx response into an *APIError. HEAD responses
// and malformed bodies still yield an APIError carrying the HTTP status.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(body) > 0 {
		_ = json.Unmarshal(body, apiErr)
	}
	if apiErr.Status == 0 {
		apiErr.Status = resp.StatusCode
	}
	return apiErr
}

// escapeFileName percent-encodes a storage path for use in URLs and the
// X-Bz-File-Name header, keeping "/" segment separators literal.
func escapeFileName(name string) string {
	segments := strings.Split(name, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
