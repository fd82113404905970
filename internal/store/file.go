package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileStore keeps one markdown file per record in a directory. Identifiers
// are the file paths.
type FileStore struct {
	dir string
}

// NewFileStore returns a store over dir. The directory is created on first
// write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// List returns the .md files ordered by modification time, then name.
// A missing directory has no records.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read memory dir: %w", err)
	}

	type file struct {
		name    string
		modTime time.Time
	}
	var files []file
	for _, e := range entries {
		if !e.Type().IsRegular() || !isMarkdown(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, file{name: e.Name(), modTime: info.ModTime()})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].modTime.Equal(files[j].modTime) {
			return files[i].modTime.Before(files[j].modTime)
		}
		return files[i].name < files[j].name
	})

	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = s.ID(f.name)
	}
	return ids, nil
}

func (s *FileStore) Read(ctx context.Context, id string) (string, error) {
	b, err := os.ReadFile(id)
	if errors.Is(err, fs.ErrNotExist) {
		return "", notFound(id)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *FileStore) Write(ctx context.Context, id, content string) error {
	if err := os.MkdirAll(filepath.Dir(id), 0o755); err != nil {
		return fmt.Errorf("create memory dir: %w", err)
	}
	if err := os.WriteFile(id, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	err := os.Remove(id)
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(id)
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) Exists(ctx context.Context, id string) (bool, error) {
	_, err := os.Stat(id)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (s *FileStore) ID(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *FileStore) Location() string {
	return s.dir
}

func (s *FileStore) Close() error {
	return nil
}
