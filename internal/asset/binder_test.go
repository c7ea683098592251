package asset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/llanteria/llanteria/internal/common/config"
)

func testBinder(t *testing.T) *Binder {
	t.Helper()
	return NewBinder(config.UploadsConfig{
		Dir:        filepath.Join(t.TempDir(), "uploads"),
		PublicBase: "http://localhost:3000/uploads/",
	})
}

func TestStoreRejectsNonImage(t *testing.T) {
	b := testBinder(t)

	_, err := b.Store("report.pdf", "application/pdf", strings.NewReader("%PDF"))
	if !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}

	// Rejection must not create the storage root.
	if _, err := os.Stat(b.Dir()); !os.IsNotExist(err) {
		t.Fatalf("storage root should not exist after rejection")
	}
}

func TestStorePersistsWithGeneratedName(t *testing.T) {
	b := testBinder(t)

	stored, err := b.Store("llanta.PNG", "image/png; charset=binary", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !strings.HasSuffix(stored.Name, ".png") {
		t.Fatalf("expected lowercased extension, got %s", stored.Name)
	}
	if stored.MIME != "image/png" {
		t.Fatalf("expected parsed media type, got %s", stored.MIME)
	}
	if stored.Size != int64(len("png-bytes")) {
		t.Fatalf("size mismatch: %d", stored.Size)
	}

	data, err := os.ReadFile(filepath.Join(b.Dir(), stored.Name))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("stored bytes mismatch")
	}
}

func TestStoreGeneratesUniqueNames(t *testing.T) {
	b := testBinder(t)

	a, err := b.Store("x.jpg", "image/jpeg", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Store a: %v", err)
	}
	c, err := b.Store("x.jpg", "image/jpeg", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Store b: %v", err)
	}
	if a.Name == c.Name {
		t.Fatalf("expected distinct names, both %s", a.Name)
	}
}

func TestResolveURL(t *testing.T) {
	b := testBinder(t)

	if got := b.ResolveURL(""); got != "" {
		t.Fatalf("empty name must pass through, got %q", got)
	}
	if got := b.ResolveURL("abc.png"); got != "http://localhost:3000/uploads/abc.png" {
		t.Fatalf("unexpected URL: %s", got)
	}
}
