// Package s3gateway implements the storage adapter contract over the
// provider's S3-compatible endpoint using the AWS SDK.
//
// It serves deployments that front the bucket with S3 tooling or that lack
// native-API permissions. The gateway only accepts the application key pair
// as static credentials; no credential chain or instance-metadata lookup is
// involved.
package s3gateway

// Config configures the S3-gateway adapter.
type Config struct {
	// Endpoint is the S3-compatible endpoint URL, e.g.
	// "https://s3.us-west-004.backblazeb2.com" (required).
	Endpoint string

	// Region is the endpoint region, e.g. "us-west-004" (required).
	Region string

	// KeyID and Key are the application key pair, used as static S3
	// credentials (required).
	KeyID string
	Key   string

	// Bucket is the bucket name (required; the S3 API addresses buckets
	// by name, not id).
	Bucket string

	// DownloadURL, when set, is used verbatim as the base for generated
	// URLs. Otherwise URLs are composed from Endpoint and Bucket.
	DownloadURL string

	// PathPrefix is prepended to every storage path.
	PathPrefix string
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return &ConfigError{Field: "Endpoint", Message: "s3 endpoint is required"}
	}
	if c.Region == "" {
		return &ConfigError{Field: "Region", Message: "region is required"}
	}
	if c.KeyID == "" || c.Key == "" {
		return &ConfigError{Field: "KeyID/Key", Message: "application key pair is required"}
	}
	if c.Bucket == "" {
		return &ConfigError{Field: "Bucket", Message: "bucket name is required"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "s3gateway config: " + e.Field + ": " + e.Message
}
