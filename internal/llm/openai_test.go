package llm

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

func newTestLLM(url string) *HTTPClient {
	return NewHTTPClient(&config.LLMConfig{
		BaseURL:        url,
		APIKey:         "test-key",
		TimeoutSeconds: 5,
	})
}

func TestCompleteSendsSystemPromptFirst(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "the answer"}},
			},
		})
	}))
	defer srv.Close()

	text, err := newTestLLM(srv.URL).Complete(context.Background(), "be helpful",
		[]Message{
			{Role: "user", Content: "earlier"},
			{Role: "assistant", Content: "reply"},
			{Role: "user", Content: "now"},
		},
		CompletionOptions{Model: "gpt-4o", MaxTokens: 2000, Temperature: 0.1})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "the answer" {
		t.Errorf("text: got %q", text)
	}
	if len(gotReq.Messages) != 4 {
		t.Fatalf("message count: got %d", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != "be helpful" {
		t.Errorf("first message: %+v", gotReq.Messages[0])
	}
	if gotReq.Messages[3].Content != "now" {
		t.Errorf("final user message: %+v", gotReq.Messages[3])
	}
	if gotReq.Model != "gpt-4o" || gotReq.MaxTokens != 2000 || gotReq.Temperature != 0.1 {
		t.Errorf("options: %+v", gotReq)
	}
}

func TestCompleteProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "invalid api key", "type": "auth"},
		})
	}))
	defer srv.Close()

	_, err := newTestLLM(srv.URL).Complete(context.Background(), "s", nil, CompletionOptions{Model: "m"})
	var perr *models.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Provider != "llm" {
		t.Errorf("provider: got %q", perr.Provider)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	if _, err := newTestLLM(srv.URL).Complete(context.Background(), "s", nil, CompletionOptions{Model: "m"}); err == nil {
		t.Error("expected error for empty choices")
	}
}
