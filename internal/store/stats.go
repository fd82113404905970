package store

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rcliao/memory-cultivation/internal/model"
)

// Stats holds store statistics.
type Stats struct {
	Location       string `json:"location"`
	TotalRecords   int    `json:"total_records"`
	Consolidated   int    `json:"consolidated"`
	ContentBytes   int    `json:"content_bytes"`
	OldestDate     string `json:"oldest_date,omitempty"`
	NewestDate     string `json:"newest_date,omitempty"`
	PendingBatches int    `json:"pending_batches"`
}

// CollectStats reads every record and summarizes the store. batchSize is
// used to report how many batches a cultivation run would present.
func CollectStats(ctx context.Context, s Store, batchSize int) (*Stats, error) {
	records, err := ReadAll(ctx, s)
	if err != nil {
		return nil, err
	}

	st := &Stats{Location: s.Location(), TotalRecords: len(records)}
	var dates []string
	for _, r := range records {
		st.ContentBytes += len(r.Content)
		if IsConsolidated(r.ID) {
			st.Consolidated++
		}
		if d, ok := model.RecordDate(r.ID); ok {
			dates = append(dates, d)
		}
	}
	if len(dates) > 0 {
		sort.Strings(dates)
		st.OldestDate = dates[0]
		st.NewestDate = dates[len(dates)-1]
	}
	if batchSize > 0 && len(records) > batchSize {
		st.PendingBatches = (len(records) + batchSize - 1) / batchSize
	}
	return st, nil
}

// IsConsolidated reports whether id names a consolidated record.
func IsConsolidated(id string) bool {
	return strings.HasPrefix(filepath.Base(id), "consolidated-")
}
