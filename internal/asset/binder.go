package asset

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/llanteria/llanteria/internal/common/config"
)

// ErrNotImage rejects uploads whose declared content type is outside the
// image/ family. Checked before anything touches the database.
var ErrNotImage = errors.New("uploaded file is not an image")

// Stored describes one persisted upload. Records hold the Name as a
// reference; the bytes belong to the storage root.
type Stored struct {
	Name string
	MIME string
	Size int64
}

// Binder owns the upload storage root and the mapping between stored names
// and public URLs.
type Binder struct {
	dir        string
	publicBase string
}

func NewBinder(cfg config.UploadsConfig) *Binder {
	return &Binder{
		dir:        cfg.Dir,
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
	}
}

// Store validates the declared type and persists the bytes under a fresh
// UUID-based name. The storage root is created on first use.
func (b *Binder) Store(filename, contentType string, src io.Reader) (*Stored, error) {
	if b == nil {
		return nil, fmt.Errorf("binder is nil")
	}

	declared := contentType
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		declared = mt
	}
	if !strings.HasPrefix(declared, "image/") {
		return nil, ErrNotImage
	}

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	dst, err := os.Create(filepath.Join(b.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &Stored{Name: name, MIME: declared, Size: size}, nil
}

// ResolveURL rewrites a bare stored name into a fetchable URL. Empty names
// pass through so records without an image stay untouched.
func (b *Binder) ResolveURL(name string) string {
	if b == nil || name == "" {
		return name
	}
	return b.publicBase + "/" + name
}

// Dir is the storage root, for the static file route.
func (b *Binder) Dir() string {
	return b.dir
}
