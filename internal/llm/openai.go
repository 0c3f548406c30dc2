package llm

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

// HTTPClient implements Client against an OpenAI-compatible chat completions
// endpoint.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates a completion client from config.
func NewHTTPClient(cfg *config.LLMConfig) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		// Generous timeout; large completions are slow.
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends the system prompt plus messages and returns the generated
// text. Failures are reported as ProviderError and not retried.
func (c *HTTPClient) Complete(ctx context.Context, systemPrompt string, messages []Message, opts CompletionOptions) (string, error) {
	all := make([]Message, 0, len(messages)+1)
	all = append(all, Message{Role: models.RoleSystem, Content: systemPrompt})
	all = append(all, messages...)

	payload, err := json.Marshal(chatRequest{
		Model:       opts.Model,
		Messages:    all,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", &models.ProviderError{Provider: "llm", Op: "marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", &models.ProviderError{Provider: "llm", Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &models.ProviderError{Provider: "llm", Op: "call", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &models.ProviderError{Provider: "llm", Op: "read response", Err: err}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &models.ProviderError{Provider: "llm", Op: "parse response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", &models.ProviderError{
			Provider: "llm",
			Op:       "call",
			Err:      fmt.Errorf("%s: %s", resp.Status, msg),
		}
	}
	if len(parsed.Choices) == 0 {
		return "", &models.ProviderError{
			Provider: "llm",
			Op:       "call",
			Err:      fmt.Errorf("no choices in response"),
		}
	}
	return parsed.Choices[0].Message.Content, nil
}
