// Package models defines core data structures for requests, responses, and
// retrieved documentation chunks.
package models

// RetrievedChunk is one candidate documentation fragment returned by a vector
// index query. ID is unique within its namespace, not globally. Framework is
// the namespace the chunk came from; the index itself does not return it, so
// the retriever attaches it at merge time.
type RetrievedChunk struct {
	ID        string                 `json:"id"`
	Text      string                 `json:"text"`
	Score     float64                `json:"score"`
	Metadata  map[string]interface{} `json:"metadata"`
	URL       string                 `json:"url,omitempty"`
	Framework string                 `json:"framework,omitempty"`
}

// IndexStats describes the state of the vector index, used for health reporting.
type IndexStats struct {
	TotalVectors int64    `json:"total_vectors"`
	Dimension    int      `json:"dimension"`
	Namespaces   []string `json:"namespaces"`
}
