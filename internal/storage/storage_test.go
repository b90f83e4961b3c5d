package storage

import (
	"os"
	"testing"
)

// chdir switches to dir for the duration of the test; it stands in for
// t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q) failed: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}

// Locations are URL paths relative to the working directory, so tests run
// from a scratch directory.
func TestLocalStore_SaveResolveRemove(t *testing.T) {
	chdir(t, t.TempDir())
	store := NewLocalStore("static")

	location, err := store.Save(CategoryQRCodes, "CH-1.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if location != "/static/qr_codes/CH-1.png" {
		t.Errorf("location = %q, want /static/qr_codes/CH-1.png", location)
	}

	path, ok := store.Resolve(location)
	if !ok {
		t.Fatalf("Resolve(%q) = not found", location)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored content = %q, want %q", data, "png-bytes")
	}

	if err := store.Remove(location); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if _, ok := store.Resolve(location); ok {
		t.Error("Resolve() should fail after Remove()")
	}
}

func TestLocalStore_ResolveMissing(t *testing.T) {
	chdir(t, t.TempDir())
	store := NewLocalStore("static")

	if _, ok := store.Resolve(""); ok {
		t.Error("empty location should not resolve")
	}
	if _, ok := store.Resolve("/static/pdfs/nope.pdf"); ok {
		t.Error("missing file should not resolve")
	}
}

func TestLocalStore_RemoveMissingIsNoop(t *testing.T) {
	chdir(t, t.TempDir())
	store := NewLocalStore("static")
	if err := store.Remove("/static/pdfs/nope.pdf"); err != nil {
		t.Errorf("Remove(missing) = %v, want nil", err)
	}
}

func TestNewLocalStore_DefaultBaseDir(t *testing.T) {
	store := NewLocalStore("")
	if store.baseDir != "static" {
		t.Errorf("baseDir = %q, want static", store.baseDir)
	}
}
