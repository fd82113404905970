package store

import (
	"context"
	"strings"
)

// SearchParams holds parameters for searching memory records.
type SearchParams struct {
	Query string
	Limit int
}

// SearchResult is a record matching a search, with the first matching line.
type SearchResult struct {
	ID        string `json:"id"`
	Line      int    `json:"line,omitempty"`
	MatchLine string `json:"match_line,omitempty"`
}

// Search finds records whose identifier or content contains the query,
// case-insensitively, newest first.
func Search(ctx context.Context, s Store, p SearchParams) ([]SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	query := strings.ToLower(strings.TrimSpace(p.Query))

	records, err := ReadAll(ctx, s)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	for i := len(records) - 1; i >= 0 && len(results) < limit; i-- {
		r := records[i]
		line, text := matchLine(r.Content, query)
		if line == 0 && !strings.Contains(strings.ToLower(r.ID), query) {
			continue
		}
		results = append(results, SearchResult{ID: r.ID, Line: line, MatchLine: text})
	}
	return results, nil
}

// matchLine returns the 1-based number and trimmed text of the first line
// containing query, or 0 when none does.
func matchLine(content, query string) (int, string) {
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(strings.ToLower(line), query) {
			return i + 1, strings.TrimSpace(line)
		}
	}
	return 0, ""
}
