// Package storage implements the content platform's storage plugin contract
// on top of Backblaze B2.
//
// Adapters implement the six-method contract the host platform loads
// (save, save-raw, exists, delete, read, serve, download-url generation).
// Host-provided behavior the adapter depends on - collision-free file
// naming and the default target directory - is injected as collaborators
// rather than inherited.
package storage

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Image is the host platform's representation of an uploaded media object:
// its original name and the local path it was spooled to.
type Image struct {
	Name string
	Path string
}

// Adapter is the plugin contract consumed by the host platform.
//
// Construction is performed by driver factories that return only
// fully-initialized adapters: authorization and bucket resolution complete
// before the adapter is handed out, so no operation can observe partial
// session or bucket state.
type Adapter interface {
	// Save uploads the local file behind image under targetDir (the
	// host default when empty), using a collision-free name. Returns the
	// public download URL.
	Save(ctx context.Context, image Image, targetDir string) (string, error)

	// SaveRaw uploads data verbatim under targetPath and returns the
	// public download URL.
	SaveRaw(ctx context.Context, data []byte, targetPath string) (string, error)

	// Exists reports whether fileName exists under targetDir. Only a
	// definitive provider answer produces a bool; any status other than
	// 200 or 404 is returned as an error, never folded into false.
	Exists(ctx context.Context, fileName, targetDir string) (bool, error)

	// Delete removes every stored version of fileName under targetDir.
	// Returns true iff at least one version was deleted; zero versions
	// yields false without error.
	Delete(ctx context.Context, fileName, targetDir string) (bool, error)

	// Read downloads the full content at path, which may be a public URL
	// bearing the adapter's base prefix or an already provider-relative
	// storage path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Serve returns the middleware the host mounts for content requests.
	// Downloads are served directly from the provider/CDN, so the
	// middleware is a pass-through.
	Serve() func(http.Handler) http.Handler

	// DownloadURL returns the public URL for subPath, or the base URL
	// itself when subPath is empty. No network access.
	DownloadURL(subPath string) string
}

// Namer produces collision-free storage file names. The host platform
// provides its own implementation; UUIDNamer is the standalone default.
type Namer interface {
	UniqueName(dir, fileName string) string
}

// UUIDNamer names files by a fresh UUID while keeping the original
// extension.
type UUIDNamer struct{}

// UniqueName implements Namer.
func (UUIDNamer) UniqueName(_ string, fileName string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(fileName))
}

// DefaultTargetDir returns the host platform's date-based default target
// directory, e.g. "2026/08".
func DefaultTargetDir() string {
	return time.Now().Format("2006/01")
}
