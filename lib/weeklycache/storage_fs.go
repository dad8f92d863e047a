package weeklycache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FilesystemStorage keeps every entry in its own <name>.json file, a name
// containing "/" lands in a subdirectory.
type FilesystemStorage struct {
	dir string
}

func NewFilesystemStorage(dir string) (FilesystemStorage, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return FilesystemStorage{}, err
	}
	return FilesystemStorage{dir: dir}, nil
}

func (s FilesystemStorage) Path(name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(name)+".json")
}

func (s FilesystemStorage) Exists(ctx context.Context, name string) (bool, error) {
	info, err := os.Stat(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (s FilesystemStorage) Read(ctx context.Context, name string) ([]byte, error) {
	contents, err := os.ReadFile(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotCached
	}
	return contents, err
}

// Write goes through a temporary file in the same directory followed by a
// rename, readers only ever see a complete file.
func (s FilesystemStorage) Write(ctx context.Context, name string, contents []byte) error {
	path := s.Path(name)
	dir := filepath.Dir(path)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(contents)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
