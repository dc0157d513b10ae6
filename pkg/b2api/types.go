package b2api

// Auth carries the per-session values every API call needs: the account's
// API base URL and the authorization token issued alongside it.
type Auth struct {
	// APIURL is the base URL for API calls, e.g. "https://api001.backblazeb2.com".
	APIURL string

	// Token is the account authorization token.
	Token string
}

// AuthorizeResponse is the body of a successful b2_authorize_account call.
type AuthorizeResponse struct {
	AccountID          string  `json:"accountId"`
	AuthorizationToken string  `json:"authorizationToken"`
	APIURL             string  `json:"apiUrl"`
	DownloadURL        string  `json:"downloadUrl"`
	Allowed            Allowed `json:"allowed"`
}

// Allowed describes the capabilities of the application key used to
// authorize. BucketID and BucketName are set only for keys restricted
// to a single bucket.
type Allowed struct {
	Capabilities []string `json:"capabilities"`
	BucketID     string   `json:"bucketId"`
	BucketName   string   `json:"bucketName"`
	NamePrefix   string   `json:"namePrefix"`
}

// UploadTarget is a single-use upload destination returned by
// b2_get_upload_url. The provider issues a fresh target per call; targets
// must not be cached across uploads.
type UploadTarget struct {
	BucketID           string `json:"bucketId"`
	UploadURL          string `json:"uploadUrl"`
	AuthorizationToken string `json:"authorizationToken"`
}

// FileVersion is one version of a stored file, as returned by
// b2_upload_file and b2_list_file_versions.
type FileVersion struct {
	FileID          string `json:"fileId"`
	FileName        string `json:"fileName"`
	ContentLength   int64  `json:"contentLength"`
	ContentSha1     string `json:"contentSha1"`
	ContentType     string `json:"contentType"`
	UploadTimestamp int64  `json:"uploadTimestamp"`
	Action          string `json:"action"`
}

// ListFileVersionsResponse is the body of a b2_list_file_versions call.
// NextFileName/NextFileID are null when the listing is complete.
type ListFileVersionsResponse struct {
	Files        []FileVersion `json:"files"`
	NextFileName *string       `json:"nextFileName"`
	NextFileID   *string       `json:"nextFileId"`
}

// Bucket identifies a provider-side bucket by its opaque id and
// human-readable name.
type Bucket struct {
	BucketID   string `json:"bucketId"`
	BucketName string `json:"bucketName"`
	BucketType string `json:"bucketType"`
}

// ListBucketsResponse is the body of a b2_list_buckets call.
type ListBucketsResponse struct {
	Buckets []Bucket `json:"buckets"`
}

// DownloadResult holds the outcome of a download-by-name call. Body is nil
// for metadata-only (HEAD) requests.
type DownloadResult struct {
	Body          []byte
	ContentType   string
	ContentLength int64
	ContentSha1   string
}
