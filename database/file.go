package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend stores every collection as <dir>/<name>.json.
type FileBackend struct {
	dir string
}

var _ Backend = (*FileBackend)(nil)

// NewFileBackend creates dir when it does not exist yet.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) path(name string) string {
	return filepath.Join(f.dir, name+".json")
}

func (f *FileBackend) Read(ctx context.Context, name string, dest interface{}) error {
	data, err := os.ReadFile(f.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNoDocument
	}
	if err != nil {
		return err
	}
	if err := decodeRecords(data, dest); err != nil {
		return fmt.Errorf("%s: %w", f.path(name), err)
	}
	return nil
}

// Write replaces the file through a rename so a crash never leaves a
// half-written collection behind.
func (f *FileBackend) Write(ctx context.Context, name string, records interface{}) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(name))
}

func (f *FileBackend) Remove(ctx context.Context, name string) error {
	err := os.Remove(f.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (f *FileBackend) Ping(ctx context.Context) error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", f.dir)
	}
	return nil
}

func (f *FileBackend) Close(ctx context.Context) error {
	return nil
}
