package store

import (
	"context"
	"testing"
)

func TestSearch_Basic(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		s.Write(ctx, s.ID("a1-2024-12-01.md"), "## Summary\n\nAdded goroutine pool to the Indexer")
		s.Write(ctx, s.ID("b2-2024-12-02.md"), "## Summary\n\nPython bindings for the indexer")
		s.Write(ctx, s.ID("c3-2024-12-03.md"), "## Summary\n\nRust borrow checker notes")

		results, err := Search(ctx, s, SearchParams{Query: "indexer"})
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].Line != 3 || results[0].MatchLine != "Python bindings for the indexer" {
			t.Fatalf("unexpected match %+v", results[0])
		}

		// Search by identifier
		results, err = Search(ctx, s, SearchParams{Query: "c3-2024"})
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 || results[0].Line != 0 {
			t.Fatalf("expected identifier-only match, got %+v", results)
		}

		// No results
		results, err = Search(ctx, s, SearchParams{Query: "javascript"})
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Fatalf("expected 0 results, got %d", len(results))
		}
	})
}

func TestSearch_Limit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		s.Write(ctx, name, "shared text")
	}

	results, err := Search(ctx, s, SearchParams{Query: "shared", Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "c.md" || results[1].ID != "b.md" {
		t.Fatalf("expected newest first, got %s, %s", results[0].ID, results[1].ID)
	}
}

func TestSearch_DeletedExcluded(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		id := s.ID("gone.md")
		s.Write(ctx, id, "this should not appear")
		s.Delete(ctx, id)

		results, err := Search(ctx, s, SearchParams{Query: "should not appear"})
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Fatalf("expected 0, got %d", len(results))
		}
	})
}
