package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hyperjump/oshiete/internal/config"
	"github.com/hyperjump/oshiete/internal/models"
)

func newTestClient(url string) *Client {
	return NewClient(&config.EmbeddingConfig{
		BaseURL:        url,
		Model:          "text-embedding-3-small",
		Dimensions:     4,
		TimeoutSeconds: 5,
		APIKey:         "test-key",
	})
}

func TestClientEmbed(t *testing.T) {
	var gotAuth string
	var gotReq embeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{0.1, 0.2, 0.3, 0.4}},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	vec, err := c.Embed(context.Background(), "what is a hook?")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 4 {
		t.Errorf("vector length: got %d", len(vec))
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header: got %q", gotAuth)
	}
	if gotReq.Model != "text-embedding-3-small" || gotReq.Input != "what is a hook?" || gotReq.Dimensions != 4 {
		t.Errorf("request payload: got %+v", gotReq)
	}
}

func TestClientEmbedProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "quota exceeded", "type": "rate_limit"},
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Embed(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error")
	}
	var perr *models.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
	if perr.Provider != "embedding" {
		t.Errorf("provider: got %q", perr.Provider)
	}
}

func TestClientEmbedEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Embed(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestMockEmbedderDeterminism(t *testing.T) {
	e := NewMockEmbedder(8)
	a, _ := e.Embed(context.Background(), "same text")
	b, _ := e.Embed(context.Background(), "same text")
	c, _ := e.Embed(context.Background(), "other text")
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("same text should produce identical embeddings")
		}
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts produced identical embeddings")
	}
}
