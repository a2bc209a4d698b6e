package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// Real FS Tests
//
// We're NOT testing os.ReadFile, os.Remove etc (that's Go's job).
// We ARE testing:
//   - Exists() - our convenience method
//   - WriteFileAtomic() - our atomic write wrapper
// =============================================================================

func TestReal_Exists_ReturnsFalseForNonExistent(t *testing.T) {
	t.Parallel()

	fs := NewReal()

	exists, err := fs.Exists(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	if err != nil {
		t.Fatalf("err=%v, want=nil", err)
	}

	if got, want := exists, false; got != want {
		t.Fatalf("exists=%v, want=%v", got, want)
	}
}

func TestReal_Exists_ReturnsTrueForFileAndDir(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	dir := t.TempDir()
	path := filepath.Join(dir, "exists.txt")

	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	for _, p := range []string{path, dir} {
		exists, err := fs.Exists(p)
		if err != nil {
			t.Fatalf("Exists(%s) err=%v", p, err)
		}

		if !exists {
			t.Errorf("Exists(%s)=false, want=true", p)
		}
	}
}

func TestReal_WriteFileAtomic_ReplacesContent(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	path := filepath.Join(t.TempDir(), "slot.json")

	if err := fs.WriteFileAtomic(path, []byte("first"), 0o600); err != nil {
		t.Fatalf("first write: %v", err)
	}

	if err := fs.WriteFileAtomic(path, []byte("second"), 0o600); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if got, want := string(data), "second"; got != want {
		t.Errorf("content=%q, want=%q", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	if got, want := info.Mode().Perm(), os.FileMode(0o600); got != want {
		t.Errorf("perm=%v, want=%v", got, want)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	if got, want := len(entries), 1; got != want {
		t.Errorf("dir entries=%d, want=%d (temp file left behind?)", got, want)
	}
}

func TestReal_WriteFileAtomic_MissingDirFails(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	path := filepath.Join(t.TempDir(), "missing", "slot.json")

	if err := fs.WriteFileAtomic(path, []byte("x"), 0o600); err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}

func TestReal_ReadFile_MissingIsNotExist(t *testing.T) {
	t.Parallel()

	_, err := NewReal().ReadFile(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v, want os.ErrNotExist", err)
	}
}
