// Package storage persists uploaded product images on local disk or S3.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Folder is where product images live, both on disk and as the URL path.
const Folder = "images/products"

var (
	// ErrNotFound is returned when an image does not exist.
	ErrNotFound = errors.New("image not found")

	// ErrInvalidName is returned for names that could escape the folder.
	ErrInvalidName = errors.New("invalid image name")
)

// ImageStore persists product images by generated name.
type ImageStore interface {
	// Save stores the content under a new unique name derived from
	// originalName and returns that name.
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes the image. Deleting a missing image is not an error.
	Delete(ctx context.Context, name string) error
}

// GenerateName returns uuid + "-" + the base name of original.
func GenerateName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20, r == '/', r == ':':
			return -1
		}
		return r
	}, base)
	if base == "" || base == "." || base == ".." {
		base = "image"
	}
	return uuid.NewString() + "-" + base
}

// URL returns the public path of a stored image.
func URL(name string) string {
	return "/" + path.Join(Folder, name)
}

// NameFromURL extracts the stored name from a URL produced by URL. It
// returns "" for anything else.
func NameFromURL(url string) string {
	prefix := "/" + Folder + "/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	name := strings.TrimPrefix(url, prefix)
	if validName(name) != nil {
		return ""
	}
	return name
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return ErrInvalidName
	}
	return nil
}
