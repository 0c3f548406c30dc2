package retrieval

import (
	"sort"

	"github.com/hyperjump/oshiete/internal/models"
)

// Merge concatenates per-namespace candidate lists, sorts globally by score
// descending, and truncates to topK. The sort is stable over the concatenation
// in caller namespace order, so equal scores keep their per-namespace rank and
// the ordering is deterministic for identical inputs.
func Merge(perNamespace [][]models.RetrievedChunk, topK int) []models.RetrievedChunk {
	total := 0
	for _, chunks := range perNamespace {
		total += len(chunks)
	}
	merged := make([]models.RetrievedChunk, 0, total)
	for _, chunks := range perNamespace {
		merged = append(merged, chunks...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > topK {
		merged = merged[:topK]
	}
	return merged
}
