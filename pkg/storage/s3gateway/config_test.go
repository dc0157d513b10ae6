package s3gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Endpoint: "https://s3.us-west-004.backblazeb2.com",
		Region:   "us-west-004",
		KeyID:    "key_id",
		Key:      "key",
		Bucket:   "my_bucket",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing endpoint", func(c *Config) { c.Endpoint = "" }, "Endpoint"},
		{"missing region", func(c *Config) { c.Region = "" }, "Region"},
		{"missing key", func(c *Config) { c.Key = "" }, "KeyID/Key"},
		{"missing bucket", func(c *Config) { c.Bucket = "" }, "Bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
