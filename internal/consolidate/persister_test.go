package consolidate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/memory-cultivation/internal/store"
)

var consolidatedAt = time.Date(2024, 12, 20, 23, 30, 0, 0, time.UTC)

func TestRender_WithDateRange(t *testing.T) {
	got := Render("Body text", []string{"b-2024-12-15.md", "a-2024-12-01.md"}, consolidatedAt)

	want := "# Consolidated Memory\n\n" +
		"**Original files**: 2\n" +
		"**Date range**: 2024-12-01 to 2024-12-15\n" +
		"**Consolidated**: 2024-12-20\n\n" +
		"---\n\n" +
		"Body text"
	assert.Equal(t, want, got)
}

func TestRender_WithoutDates(t *testing.T) {
	got := Render("Body", []string{"no-date.md"}, consolidatedAt)

	assert.NotContains(t, got, "Date range")
	assert.Equal(t, "# Consolidated Memory\n\n**Original files**: 1\n**Consolidated**: 2024-12-20\n\n---\n\nBody", got)
}

func TestRender_UsesUTCDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	at := time.Date(2024, 12, 21, 5, 0, 0, 0, tokyo) // 2024-12-20 20:00 UTC

	assert.Contains(t, Render("b", nil, at), "**Consolidated**: 2024-12-20\n")
}

func TestPersist(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, nil)
	originals := []string{s.ID("x-2024-12-01.md"), s.ID("y-2024-12-15.md"), s.ID("z.md")}

	id, err := NewPersister(s, nil).Persist(ctx, "merged", originals, consolidatedAt)
	require.NoError(t, err)
	assert.Equal(t, s.ID("consolidated-1734737400000.md"), id)

	content, err := s.Read(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, content, "**Original files**: 3\n")
	assert.Contains(t, content, "**Date range**: 2024-12-01 to 2024-12-15\n")
	assert.True(t, strings.HasSuffix(content, "\n\n---\n\nmerged"))
}

func TestPersist_SameInstantDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, nil)
	p := NewPersister(s, nil)

	first, err := p.Persist(ctx, "first", []string{"a.md"}, consolidatedAt)
	require.NoError(t, err)
	second, err := p.Persist(ctx, "second", []string{"b.md"}, consolidatedAt)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, s.ID("consolidated-1734737400000-2.md"), second)

	got, _ := s.Read(ctx, first)
	assert.True(t, strings.HasSuffix(got, "first"))
}

type failingWriteStore struct {
	*store.FileStore
}

func (failingWriteStore) Write(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestPersist_WriteFailurePropagates(t *testing.T) {
	s := failingWriteStore{newStore(t, nil)}

	_, err := NewPersister(s, nil).Persist(context.Background(), "x", []string{"a.md"}, consolidatedAt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
