package vector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hyperjump/oshiete/internal/models"
)

// StaticIndex is an in-memory Index with preset per-namespace chunks, used in
// tests and local development without a Milvus deployment. Namespaces can be
// scripted to fail to exercise fault isolation.
type StaticIndex struct {
	mu         sync.Mutex
	chunks     map[string][]models.RetrievedChunk
	failing    map[string]error
	dimension  int
	queryCount int
}

// NewStaticIndex returns an empty static index reporting the given dimension.
func NewStaticIndex(dimension int) *StaticIndex {
	return &StaticIndex{
		chunks:    make(map[string][]models.RetrievedChunk),
		failing:   make(map[string]error),
		dimension: dimension,
	}
}

// Add registers chunks under a namespace.
func (s *StaticIndex) Add(namespace string, chunks ...models.RetrievedChunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[namespace] = append(s.chunks[namespace], chunks...)
}

// Fail makes every query against namespace return the given error.
func (s *StaticIndex) Fail(namespace string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[namespace] = err
}

// QueryCount returns how many Query calls have been made.
func (s *StaticIndex) QueryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryCount
}

// Query returns up to topK of the namespace's chunks, sorted by score descending.
func (s *StaticIndex) Query(ctx context.Context, vector []float32, namespace string, topK int) ([]models.RetrievedChunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryCount++

	if err := s.failing[namespace]; err != nil {
		return nil, &models.NamespaceQueryError{Namespace: namespace, Err: err}
	}
	if topK <= 0 {
		return nil, &models.NamespaceQueryError{Namespace: namespace, Err: fmt.Errorf("top_k must be positive, got %d", topK)}
	}

	out := append([]models.RetrievedChunk(nil), s.chunks[namespace]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

// Stats reports the preset dimension, total chunk count, and namespace list.
func (s *StaticIndex) Stats(ctx context.Context) (*models.IndexStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	namespaces := make([]string, 0, len(s.chunks))
	var total int64
	for ns, chunks := range s.chunks {
		namespaces = append(namespaces, ns)
		total += int64(len(chunks))
	}
	sort.Strings(namespaces)
	return &models.IndexStats{
		TotalVectors: total,
		Dimension:    s.dimension,
		Namespaces:   namespaces,
	}, nil
}
