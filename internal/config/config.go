// Package config loads adapter configuration from an optional YAML file and
// B2_* environment variables.
//
// Precedence, highest first: environment variables, then the config file,
// then defaults. Callers that set fields explicitly on the returned struct
// (for example the host platform passing a config object) override both.
package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/inkhost/b2store/pkg/storage"
	"github.com/inkhost/b2store/pkg/storage/driver"
	"github.com/inkhost/b2store/pkg/storage/s3gateway"
)

// Config is the full adapter configuration.
type Config struct {
	// Driver selects the storage backend: "b2" (default) or "s3".
	Driver string `mapstructure:"driver"`

	ApplicationKeyID string `mapstructure:"application_key_id"`
	ApplicationKey   string `mapstructure:"application_key"`
	BucketID         string `mapstructure:"bucket_id"`
	BucketName       string `mapstructure:"bucket_name"`
	DownloadURL      string `mapstructure:"download_url"`
	PathPrefix       string `mapstructure:"path_prefix"`

	S3        S3Config        `mapstructure:"s3"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// S3Config configures the S3-gateway driver.
type S3Config struct {
	Endpoint string `mapstructure:"endpoint"`
	Region   string `mapstructure:"region"`
}

// LoggingConfig configures process logging.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// RateLimitConfig caps client-side requests per second. Zero disables the
// limiter.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// envKeys are the keys bound to B2_* environment variables.
var envKeys = []string{
	"driver",
	"application_key_id",
	"application_key",
	"bucket_id",
	"bucket_name",
	"download_url",
	"path_prefix",
	"s3.endpoint",
	"s3.region",
	"logging.level",
	"rate_limit.rps",
	"rate_limit.burst",
}

// Load reads configuration from the given file path (optional; empty skips
// the file) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("driver", string(driver.DriverB2))
	v.SetDefault("logging.level", "info")
	v.SetDefault("rate_limit.burst", 1)

	v.SetEnvPrefix("B2")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// DriverConfig maps the loaded configuration onto the driver factory's
// config.
func (c *Config) DriverConfig() driver.Config {
	return driver.Config{
		Driver: driver.Driver(c.Driver),
		B2: storage.Config{
			ApplicationKeyID: c.ApplicationKeyID,
			ApplicationKey:   c.ApplicationKey,
			BucketID:         c.BucketID,
			BucketName:       c.BucketName,
			DownloadURL:      c.DownloadURL,
			PathPrefix:       c.PathPrefix,
		},
		S3: s3gateway.Config{
			Endpoint:    c.S3.Endpoint,
			Region:      c.S3.Region,
			KeyID:       c.ApplicationKeyID,
			Key:         c.ApplicationKey,
			Bucket:      c.BucketName,
			DownloadURL: c.DownloadURL,
			PathPrefix:  c.PathPrefix,
		},
	}
}
