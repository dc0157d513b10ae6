// Package urlx derives and composes public download URLs and
// provider-relative storage paths.
package urlx

import "strings"

// Base returns the public download base URL. A configured downloadURL wins
// verbatim (custom domain / CDN fronting); otherwise the provider's own
// download URL is composed with the bucket name.
func Base(configured, providerDownloadURL, bucketName string) string {
	if configured != "" {
		return configured
	}
	return strings.TrimRight(providerDownloadURL, "/") + "/file/" + bucketName
}

// Join composes base and path with exactly one "/" between them, regardless
// of trailing or leading slashes in either operand.
func Join(base, path string) string {
	base = strings.TrimRight(base, "/")
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return base
	}
	return base + "/" + path
}

// Strip removes the base-URL prefix from full, yielding the
// provider-relative file name. When full is already provider-relative this
// is a no-op apart from trimming a leading slash.
func Strip(base, full string) string {
	base = strings.TrimRight(base, "/")
	if base != "" && strings.HasPrefix(full, base) {
		full = full[len(base):]
	}
	return strings.TrimLeft(full, "/")
}

// JoinPath composes storage-path segments with single "/" separators,
// skipping empty segments. Storage paths are always relative, never in
// absolute-URL form.
func JoinPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}
