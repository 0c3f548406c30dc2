// Package vector provides access to the shared vector index, partitioned by
// framework namespace.
package vector

import (
	"context"

	"github.com/hyperjump/oshiete/internal/models"
)

// Index queries one namespace of the vector index for nearest neighbours.
// Implementations are read-only and safe for concurrent use.
type Index interface {
	// Query returns up to topK candidates from the given namespace, sorted by
	// score descending. A failure is reported as NamespaceQueryError and must
	// not affect queries against sibling namespaces.
	Query(ctx context.Context, vector []float32, namespace string, topK int) ([]models.RetrievedChunk, error)

	// Stats returns index-wide statistics for health reporting.
	Stats(ctx context.Context) (*models.IndexStats, error)
}
