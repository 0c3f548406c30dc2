// Package retrieval provides multi-namespace retrieval over the vector index:
// one embedding per query, a concurrent per-namespace fan-out, and a global
// merge of the candidates.
package retrieval

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/oshiete/internal/embedding"
	"github.com/hyperjump/oshiete/internal/models"
	"github.com/hyperjump/oshiete/internal/vector"
)

// Retriever fans a query out across framework namespaces and merges the results.
type Retriever struct {
	embedder embedding.Embedder
	index    vector.Index
	logger   *zap.Logger
}

// NewRetriever creates a retriever with the given dependencies.
func NewRetriever(embedder embedding.Embedder, index vector.Index, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		logger:   logger,
	}
}

// namespaceResult is the outcome of one namespace query: either chunks or an
// error, never both. Collecting these before merging keeps failure isolation
// explicit.
type namespaceResult struct {
	namespace string
	chunks    []models.RetrievedChunk
	err       error
}

// Search embeds query once, queries every namespace concurrently for topK
// candidates each, and returns the global top topK by score. A failed
// namespace contributes zero results; only an embedding failure aborts the
// search. When every namespace fails the result is empty, not an error.
func (r *Retriever) Search(ctx context.Context, query string, namespaces []string, topK int) ([]models.RetrievedChunk, error) {
	if len(namespaces) == 0 || topK <= 0 {
		return []models.RetrievedChunk{}, nil
	}

	queryVector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]namespaceResult, len(namespaces))
	var wg sync.WaitGroup
	for i, ns := range namespaces {
		wg.Add(1)
		go func(i int, ns string) {
			defer wg.Done()
			// Each namespace is asked for the full topK: the global top
			// set may be dominated by a single namespace.
			chunks, err := r.index.Query(ctx, queryVector, ns, topK)
			results[i] = namespaceResult{namespace: ns, chunks: chunks, err: err}
		}(i, ns)
	}
	wg.Wait()

	perNamespace := make([][]models.RetrievedChunk, 0, len(results))
	for _, res := range results {
		if res.err != nil {
			r.logger.Warn("namespace query failed",
				zap.String("namespace", res.namespace),
				zap.Error(res.err))
			continue
		}
		tagged := make([]models.RetrievedChunk, len(res.chunks))
		for j, c := range res.chunks {
			c.Framework = res.namespace
			tagged[j] = c
		}
		perNamespace = append(perNamespace, tagged)
	}

	return Merge(perNamespace, topK), nil
}
