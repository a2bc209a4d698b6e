package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/calvinalkan/agent-todo/internal/fs"
)

const (
	dirPerms  = 0o750
	filePerms = 0o600

	fileExt = ".json"
)

// File is a [Store] keeping each key in its own file under a directory.
// Writes go through [fs.FS.WriteFileAtomic], so a reader never sees a
// half-written value.
type File struct {
	fs  fs.FS
	dir string
}

// OpenFile returns a File store on the real filesystem, creating dir.
func OpenFile(dir string) (*File, error) {
	return NewFile(fs.NewReal(), dir)
}

// NewFile returns a File store on fsys, creating dir.
func NewFile(fsys fs.FS, dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("open file store: dir is empty")
	}

	err := fsys.MkdirAll(dir, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("open file store: %w", err)
	}

	return &File{fs: fsys, dir: dir}, nil
}

// Path returns the file that holds key.
func (f *File) Path(key string) string {
	return filepath.Join(f.dir, key+fileExt)
}

// Dir returns the store directory.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	if err := ValidateKey(key); err != nil {
		return "", false, err
	}

	data, err := f.fs.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("read %s: %w", key, err)
	}

	return string(data), true, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	// The directory may have been removed since open.
	err := f.fs.MkdirAll(f.dir, dirPerms)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	err = f.fs.WriteFileAtomic(f.Path(key), []byte(value), filePerms)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	return nil
}

func (f *File) Remove(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	err := f.fs.Remove(f.Path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}

	return nil
}

// Close is a no-op; File holds no open handles.
func (f *File) Close() error {
	return nil
}

var _ Store = (*File)(nil)
