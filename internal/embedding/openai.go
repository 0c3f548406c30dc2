package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hyperjump/oshiete/internal/config"
	"github.com/hyperjump/oshiete/internal/models"
)

// Client calls an OpenAI-compatible embeddings endpoint. The handle is
// long-lived and stateless per call, safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	httpClient *http.Client
}

// NewClient creates an embedding client from config.
func NewClient(cfg *config.EmbeddingConfig) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

type embeddingRequest struct {
	Model      string `json:"model"`
	Input      string `json:"input"`
	Dimensions int    `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Embed returns the embedding vector for text. Failures are reported as
// ProviderError; the caller does not retry.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(embeddingRequest{
		Model:      c.model,
		Input:      text,
		Dimensions: c.dimensions,
	})
	if err != nil {
		return nil, &models.ProviderError{Provider: "embedding", Op: "marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, &models.ProviderError{Provider: "embedding", Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.ProviderError{Provider: "embedding", Op: "call", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.ProviderError{Provider: "embedding", Op: "read response", Err: err}
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &models.ProviderError{Provider: "embedding", Op: "parse response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return nil, &models.ProviderError{
			Provider: "embedding",
			Op:       "call",
			Err:      fmt.Errorf("%s: %s", resp.Status, msg),
		}
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, &models.ProviderError{
			Provider: "embedding",
			Op:       "call",
			Err:      fmt.Errorf("empty embedding in response"),
		}
	}
	return parsed.Data[0].Embedding, nil
}

// Dimensions returns the configured embedding dimension.
func (c *Client) Dimensions() int {
	return c.dimensions
}
