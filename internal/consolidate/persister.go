package consolidate

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/memory-cultivation/internal/model"
	"github.com/rcliao/memory-cultivation/internal/store"
)

// Persister writes approved consolidations as new records.
type Persister struct {
	store  store.Store
	logger *zap.Logger
}

// NewPersister creates a persister writing to s.
func NewPersister(s store.Store, logger *zap.Logger) *Persister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Persister{store: s, logger: logger}
}

// Persist stores content as a consolidated record replacing originals and
// returns its identifier, consolidated-<unix millis of at>.md. If that
// identifier is taken a numeric suffix is added. Write failures are returned.
func (p *Persister) Persist(ctx context.Context, content string, originals []string, at time.Time) (string, error) {
	id, err := store.FreeID(ctx, p.store, fmt.Sprintf("consolidated-%d", at.UnixMilli()), ".md")
	if err != nil {
		return "", err
	}

	if err := p.store.Write(ctx, id, Render(content, originals, at)); err != nil {
		return "", fmt.Errorf("save consolidated memory: %w", err)
	}

	p.logger.Info("consolidated memory saved", zap.String("id", id), zap.Int("originals", len(originals)))
	return id, nil
}

// Render builds the stored text of a consolidated record. The date range line
// appears only when at least one original identifier embeds a date.
func Render(content string, originals []string, at time.Time) string {
	var dates []string
	for _, id := range originals {
		if d, ok := model.RecordDate(id); ok {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	var b strings.Builder
	b.WriteString("# Consolidated Memory\n\n")
	fmt.Fprintf(&b, "**Original files**: %d\n", len(originals))
	if len(dates) > 0 {
		fmt.Fprintf(&b, "**Date range**: %s to %s\n", dates[0], dates[len(dates)-1])
	}
	fmt.Fprintf(&b, "**Consolidated**: %s\n", at.UTC().Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(content)
	return b.String()
}
