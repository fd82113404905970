// Package store provides the memory record store interface with directory
// and SQLite implementations.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rcliao/memory-cultivation/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("memory not found")

// Store defines the memory record storage interface. Identifiers are opaque
// to callers; build new ones with ID.
type Store interface {
	// List returns every record identifier in capture order, oldest first.
	List(ctx context.Context) ([]string, error)

	// Read returns a record's content. Missing records wrap ErrNotFound.
	Read(ctx context.Context, id string) (string, error)

	// Write creates or replaces a record.
	Write(ctx context.Context, id, content string) error

	// Delete removes a record. Missing records wrap ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Exists reports whether a record exists.
	Exists(ctx context.Context, id string) (bool, error)

	// ID returns the identifier of a record with the given file name.
	ID(name string) string

	// Location is the path holding the records, used when committing them.
	Location() string

	// Close closes the store.
	Close() error
}

// ReadAll loads every record in list order.
func ReadAll(ctx context.Context, s Store) ([]model.MemoryRecord, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}

	records := make([]model.MemoryRecord, 0, len(ids))
	for _, id := range ids {
		content, err := s.Read(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, model.MemoryRecord{ID: id, Content: content})
	}
	return records, nil
}

// FreeID returns s.ID(base+ext), or base-2+ext, base-3+ext, ... for the first
// identifier not already taken.
func FreeID(ctx context.Context, s Store, base, ext string) (string, error) {
	for n := 1; ; n++ {
		name := base + ext
		if n > 1 {
			name = fmt.Sprintf("%s-%d%s", base, n, ext)
		}
		id := s.ID(name)
		exists, err := s.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check %s: %w", id, err)
		}
		if !exists {
			return id, nil
		}
	}
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func isMarkdown(name string) bool {
	return strings.HasSuffix(name, ".md")
}
