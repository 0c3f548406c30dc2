package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"github.com/hyperjump/oshiete/internal/config"
	"github.com/hyperjump/oshiete/internal/models"
)

// Field names in the documentation collection. The ingestion pipeline (out of
// scope here) writes chunks with this schema; one partition per framework.
const (
	FieldID       = "id"
	FieldText     = "text"
	FieldURL      = "url"
	FieldMetadata = "metadata"
)

// milvusDefaultPartition is the partition Milvus creates implicitly; it is not
// a framework namespace.
const milvusDefaultPartition = "_default"

// MilvusIndex implements Index against a Milvus collection whose partitions
// are the framework namespaces.
type MilvusIndex struct {
	client      *milvusclient.Client
	collection  string
	vectorField string
}

// NewMilvusIndex connects to Milvus and returns an index handle. The handle is
// long-lived and shared across requests.
func NewMilvusIndex(ctx context.Context, cfg *config.MilvusConfig) (*MilvusIndex, error) {
	c, err := milvusclient.New(ctx, &milvusclient.ClientConfig{Address: cfg.Address})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Milvus at %s: %w", cfg.Address, err)
	}
	return &MilvusIndex{
		client:      c,
		collection:  cfg.Collection,
		vectorField: cfg.VectorField,
	}, nil
}

// Query searches one partition for the topK nearest neighbours of vector.
func (m *MilvusIndex) Query(ctx context.Context, vector []float32, namespace string, topK int) ([]models.RetrievedChunk, error) {
	opt := milvusclient.NewSearchOption(m.collection, topK, []entity.Vector{entity.FloatVector(vector)}).
		WithANNSField(m.vectorField).
		WithPartitions(namespace).
		WithOutputFields(FieldText, FieldURL, FieldMetadata)

	resultSets, err := m.client.Search(ctx, opt)
	if err != nil {
		return nil, &models.NamespaceQueryError{Namespace: namespace, Err: err}
	}

	var chunks []models.RetrievedChunk
	for _, rs := range resultSets {
		textCol := rs.GetColumn(FieldText)
		urlCol := rs.GetColumn(FieldURL)
		metaCol := rs.GetColumn(FieldMetadata)
		for i := 0; i < rs.ResultCount; i++ {
			chunk := models.RetrievedChunk{
				ID:       columnString(rs.IDs, i),
				Metadata: map[string]interface{}{},
			}
			if i < len(rs.Scores) {
				chunk.Score = float64(rs.Scores[i])
			}
			if textCol != nil {
				if text, err := textCol.GetAsString(i); err == nil {
					chunk.Text = text
				}
			}
			if urlCol != nil {
				if url, err := urlCol.GetAsString(i); err == nil {
					chunk.URL = url
				}
			}
			if metaCol != nil {
				if raw, err := metaCol.GetAsString(i); err == nil && raw != "" {
					_ = json.Unmarshal([]byte(raw), &chunk.Metadata)
				}
			}
			if chunk.URL == "" {
				if u, ok := chunk.Metadata["url"].(string); ok {
					chunk.URL = u
				}
			}
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

// Stats reports vector count, dimension, and the partition (namespace) list.
func (m *MilvusIndex) Stats(ctx context.Context) (*models.IndexStats, error) {
	desc, err := m.client.DescribeCollection(ctx, milvusclient.NewDescribeCollectionOption(m.collection))
	if err != nil {
		return nil, fmt.Errorf("describe collection %q: %w", m.collection, err)
	}
	dimension := 0
	if desc.Schema != nil {
		for _, f := range desc.Schema.Fields {
			if f.Name != m.vectorField {
				continue
			}
			if d, ok := f.TypeParams["dim"]; ok {
				dimension, _ = strconv.Atoi(d)
			}
		}
	}

	stats, err := m.client.GetCollectionStats(ctx, milvusclient.NewGetCollectionStatsOption(m.collection))
	if err != nil {
		return nil, fmt.Errorf("collection stats %q: %w", m.collection, err)
	}
	var total int64
	if rows, ok := stats["row_count"]; ok {
		total, _ = strconv.ParseInt(rows, 10, 64)
	}

	partitions, err := m.client.ListPartitions(ctx, milvusclient.NewListPartitionOption(m.collection))
	if err != nil {
		return nil, fmt.Errorf("list partitions %q: %w", m.collection, err)
	}
	namespaces := make([]string, 0, len(partitions))
	for _, p := range partitions {
		if p == milvusDefaultPartition {
			continue
		}
		namespaces = append(namespaces, p)
	}

	return &models.IndexStats{
		TotalVectors: total,
		Dimension:    dimension,
		Namespaces:   namespaces,
	}, nil
}

// Close releases the Milvus connection.
func (m *MilvusIndex) Close(ctx context.Context) error {
	return m.client.Close(ctx)
}

// columnString reads entry i of col as a string, converting integer IDs.
func columnString(col interface {
	GetAsString(int) (string, error)
	GetAsInt64(int) (int64, error)
}, i int) string {
	if col == nil {
		return ""
	}
	if s, err := col.GetAsString(i); err == nil {
		return s
	}
	if v, err := col.GetAsInt64(i); err == nil {
		return strconv.FormatInt(v, 10)
	}
	return ""
}
