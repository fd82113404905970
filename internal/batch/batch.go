// Package batch splits memory identifiers into bounded, ordered batches.
package batch

import (
	"fmt"

	"github.com/rcliao/memory-cultivation/internal/model"
)

// Partition splits ids into consecutive batches of at most size identifiers,
// numbered from 1. Concatenating the batches reproduces ids exactly.
func Partition(ids []string, size int) []model.Batch {
	if size < 1 {
		panic(fmt.Sprintf("batch: invalid size %d", size))
	}
	if len(ids) == 0 {
		return nil
	}

	batches := make([]model.Batch, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		files := make([]string, end-start)
		copy(files, ids[start:end])
		batches = append(batches, model.Batch{
			Files:       files,
			BatchNumber: len(batches) + 1,
		})
	}
	return batches
}
