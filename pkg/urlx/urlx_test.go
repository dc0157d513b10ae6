package urlx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBase_ConfiguredURLWinsVerbatim(t *testing.T) {
	base := Base("https://cdn.example.com/assets", "https://f002.backblazeb2.com", "my_bucket")
	assert.Equal(t, "https://cdn.example.com/assets", base)
}

func TestBase_DerivedFromProviderAndBucket(t *testing.T) {
	base := Base("", "https://f002.backblazeb2.com", "my_bucket")
	assert.Equal(t, "https://f002.backblazeb2.com/file/my_bucket", base)
}

func TestBase_TrailingSlashOnProviderURL(t *testing.T) {
	base := Base("", "https://f002.backblazeb2.com/", "my_bucket")
	assert.Equal(t, "https://f002.backblazeb2.com/file/my_bucket", base)
}

func TestJoin_SingleSeparator(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"no slashes", "https://x.example.com", "a/b.png", "https://x.example.com/a/b.png"},
		{"trailing slash on base", "https://x.example.com/", "a/b.png", "https://x.example.com/a/b.png"},
		{"leading slash on path", "https://x.example.com", "/a/b.png", "https://x.example.com/a/b.png"},
		{"both slashes", "https://x.example.com/", "/a/b.png", "https://x.example.com/a/b.png"},
		{"empty path", "https://x.example.com/", "", "https://x.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.base, tt.path))
		})
	}
}

func TestStrip(t *testing.T) {
	base := "https://f002.backblazeb2.com/file/my_bucket"

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full url", base + "/images/a.png", "images/a.png"},
		{"base with trailing slash", base + "/" + "images/a.png", "images/a.png"},
		{"already relative", "images/a.png", "images/a.png"},
		{"leading slash", "/images/a.png", "images/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(base, tt.in))
		})
	}
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "prefix/2026/08/a.png", JoinPath("prefix", "2026/08", "a.png"))
	assert.Equal(t, "a.png", JoinPath("", "", "a.png"))
	assert.Equal(t, "prefix/a.png", JoinPath("/prefix/", "/a.png"))
	assert.Equal(t, "", JoinPath())
}
