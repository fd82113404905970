package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), ".memory"))
}

// backends runs fn against every Store implementation.
func backends(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("files", func(t *testing.T) { fn(t, newTestFileStore(t)) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newTestStore(t)) })
}

func TestWriteAndRead(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		id := s.ID("abc123-2024-01-15.md")

		if err := s.Write(ctx, id, "## Summary\n\nworld"); err != nil {
			t.Fatalf("write: %v", err)
		}

		got, err := s.Read(ctx, id)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if got != "## Summary\n\nworld" {
			t.Errorf("unexpected content %q", got)
		}

		ok, err := s.Exists(ctx, id)
		if err != nil || !ok {
			t.Errorf("expected record to exist, got %v, %v", ok, err)
		}
	})
}

func TestReadMissing(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		_, err := s.Read(context.Background(), s.ID("missing.md"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDelete(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		id := s.ID("a.md")
		s.Write(ctx, id, "data")

		if err := s.Delete(ctx, id); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if ok, _ := s.Exists(ctx, id); ok {
			t.Error("expected record to be gone")
		}
		if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestListEmpty(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ids, err := s.List(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(ids) != 0 {
			t.Errorf("expected no records, got %v", ids)
		}
	})
}

func TestSQLiteListInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, name := range []string{"c.md", "a.md", "b.md"} {
		s.Write(ctx, name, name)
	}
	// Rewriting keeps the original position.
	s.Write(ctx, "c.md", "changed")

	ids, _ := s.List(ctx)
	want := []string{"c.md", "a.md", "b.md"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %v", len(want), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], ids[i])
		}
	}
}

func TestFileListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	base := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	for i, name := range []string{"zz-2024-12-01.md", "aa-2024-12-02.md", "mm-2024-12-03.md"} {
		id := s.ID(name)
		s.Write(ctx, id, name)
		mt := base.Add(time.Duration(i) * time.Hour)
		if err := os.Chtimes(id, mt, mt); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}
	os.WriteFile(s.ID("notes.txt"), []byte("ignored"), 0o644)
	os.Mkdir(s.ID("sub.md"), 0o755)

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{s.ID("zz-2024-12-01.md"), s.ID("aa-2024-12-02.md"), s.ID("mm-2024-12-03.md")}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], ids[i])
		}
	}
}

func TestFreeID(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		id, _ := FreeID(ctx, s, "consolidated-1000", ".md")
		if id != s.ID("consolidated-1000.md") {
			t.Errorf("unexpected id %q", id)
		}
		s.Write(ctx, id, "first")

		id2, _ := FreeID(ctx, s, "consolidated-1000", ".md")
		if id2 != s.ID("consolidated-1000-2.md") {
			t.Errorf("expected suffixed id, got %q", id2)
		}
	})
}

func TestReadAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.Write(ctx, "a.md", "alpha")
	s.Write(ctx, "b.md", "beta")

	records, err := ReadAll(ctx, s)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(records) != 2 || records[0].Content != "alpha" || records[1].ID != "b.md" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(BackendFiles, dir, "")
	if err != nil {
		t.Fatalf("open files: %v", err)
	}
	if s.Location() != dir {
		t.Errorf("unexpected location %q", s.Location())
	}

	s, err = Open(BackendSQLite, dir, filepath.Join(dir, "m.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s.Close()

	if _, err := Open("s3", dir, ""); err == nil {
		t.Error("expected error for unknown backend")
	}
}
