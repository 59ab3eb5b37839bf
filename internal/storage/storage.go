// Package storage persists uploaded files and returns their public URL.
package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"mx70/internal/model"

	"github.com/google/uuid"
)

// BlobStore stores an object under key and returns the URL it can be fetched from.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds the storage key for an upload: <kind>/<uuid>_<name>.
func ObjectKey(kind model.UploadKind, name string) string {
	base := unsafeName.ReplaceAllString(filepath.Base(name), "_")
	base = strings.Trim(base, "_.")
	if base == "" {
		base = "upload"
	}
	return path.Join(string(kind), uuid.NewString()+"_"+base)
}
