package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/oshiete/internal/config"
	"github.com/hyperjump/oshiete/internal/embedding"
	"github.com/hyperjump/oshiete/internal/generate"
	"github.com/hyperjump/oshiete/internal/llm"
	"github.com/hyperjump/oshiete/internal/models"
	"github.com/hyperjump/oshiete/internal/prompt"
	"github.com/hyperjump/oshiete/internal/retrieval"
	"github.com/hyperjump/oshiete/internal/vector"
)

type capturingClient struct {
	systemPrompt string
	messages     []llm.Message
	response     string
	err          error
	calls        int
}

func (c *capturingClient) Complete(ctx context.Context, systemPrompt string, messages []llm.Message, opts llm.CompletionOptions) (string, error) {
	c.calls++
	c.systemPrompt = systemPrompt
	c.messages = messages
	return c.response, c.err
}

func newPipeline(index *vector.StaticIndex, client *capturingClient) *Pipeline {
	logger := zap.NewNop()
	cfg := &config.LLMConfig{
		AnswerModel:     "answer-model",
		CodeModel:       "code-model",
		Temperature:     0.1,
		AnswerMaxTokens: 2000,
		CodeMaxTokens:   16000,
	}
	retriever := retrieval.NewRetriever(embedding.NewMockEmbedder(8), index, logger)
	return New(retriever,
		generate.NewAnswerGenerator(client, cfg),
		generate.NewCodeGenerator(client, cfg),
		5, 3, logger)
}

func TestAnswerPassesContextAndSources(t *testing.T) {
	index := vector.NewStaticIndex(8)
	index.Add("react",
		models.RetrievedChunk{ID: "r1", Text: "Hooks let you use state.", Score: 0.9, URL: "https://react.dev/hooks"},
	)
	index.Add("nextjs",
		models.RetrievedChunk{ID: "n1", Text: "App Router conventions.", Score: 0.7, URL: "https://nextjs.org/docs"},
	)
	client := &capturingClient{response: "Use hooks [1]."}
	p := newPipeline(index, client)

	answer, sources, err := p.Answer(context.Background(), "how do I use state?", []string{"react", "nextjs"}, nil)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer != "Use hooks [1]." {
		t.Errorf("answer = %q", answer)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	if sources[0].ID != "r1" || sources[0].Framework != "react" {
		t.Errorf("unexpected first source: %+v", sources[0])
	}

	final := client.messages[len(client.messages)-1]
	if !strings.Contains(final.Content, "Hooks let you use state.") {
		t.Error("context missing retrieved text")
	}
	if !strings.Contains(final.Content, "[Source 1 - REACT") {
		t.Error("context missing source header")
	}
}

func TestAnswerEmptyRetrievalUsesSentinel(t *testing.T) {
	index := vector.NewStaticIndex(8)
	client := &capturingClient{response: "I don't know."}
	p := newPipeline(index, client)

	_, sources, err := p.Answer(context.Background(), "q", []string{"react"}, nil)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("got %d sources, want 0", len(sources))
	}
	final := client.messages[len(client.messages)-1]
	if !strings.Contains(final.Content, prompt.NoDocumentationSentinel) {
		t.Error("empty retrieval should surface the sentinel context")
	}
}

func TestAnswerNamespaceFailureIsolated(t *testing.T) {
	index := vector.NewStaticIndex(8)
	index.Add("react", models.RetrievedChunk{ID: "r1", Text: "ok", Score: 0.5})
	index.Fail("django", errors.New("partition unavailable"))
	client := &capturingClient{response: "answer"}
	p := newPipeline(index, client)

	_, sources, err := p.Answer(context.Background(), "q", []string{"react", "django"}, nil)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if len(sources) != 1 || sources[0].Framework != "react" {
		t.Errorf("unexpected sources: %+v", sources)
	}
}

func TestGenerateCodeWithContext(t *testing.T) {
	index := vector.NewStaticIndex(8)
	index.Add("react", models.RetrievedChunk{ID: "r1", Text: "component docs", Score: 0.8})
	client := &capturingClient{response: "code"}
	p := newPipeline(index, client)

	got, err := p.GenerateCode(context.Background(), "build a form", []string{"react"}, nil, true)
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if got != "code" {
		t.Errorf("GenerateCode() = %q", got)
	}
	if client.systemPrompt != prompt.CodeSystemPrompt {
		t.Error("expected the code system prompt")
	}
	final := client.messages[len(client.messages)-1]
	if !strings.Contains(final.Content, "component docs") {
		t.Error("documentation context missing from code request")
	}
}

func TestGenerateCodeSkipsRetrievalWhenDisabled(t *testing.T) {
	index := vector.NewStaticIndex(8)
	index.Add("react", models.RetrievedChunk{ID: "r1", Text: "docs", Score: 0.8})
	client := &capturingClient{response: "code"}
	p := newPipeline(index, client)

	if _, err := p.GenerateCode(context.Background(), "build it", []string{"react"}, nil, false); err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if n := index.QueryCount(); n != 0 {
		t.Errorf("index queried %d times with context disabled, want 0", n)
	}
	final := client.messages[len(client.messages)-1]
	if strings.Contains(final.Content, "RELEVANT DOCUMENTATION") {
		t.Error("disabled context still produced a documentation section")
	}
}

func TestGenerateCodeSkipsRetrievalWithoutFrameworks(t *testing.T) {
	index := vector.NewStaticIndex(8)
	client := &capturingClient{response: "code"}
	p := newPipeline(index, client)

	if _, err := p.GenerateCode(context.Background(), "build it", nil, nil, true); err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if n := index.QueryCount(); n != 0 {
		t.Errorf("index queried %d times with no frameworks, want 0", n)
	}
}

func TestGenerateCodeEmptyRetrievalOmitsContext(t *testing.T) {
	index := vector.NewStaticIndex(8)
	client := &capturingClient{response: "code"}
	p := newPipeline(index, client)

	if _, err := p.GenerateCode(context.Background(), "build it", []string{"react"}, nil, true); err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	final := client.messages[len(client.messages)-1]
	if strings.Contains(final.Content, "RELEVANT DOCUMENTATION") {
		t.Error("empty retrieval should not produce a documentation section")
	}
}

func TestAnswerGenerationErrorPropagates(t *testing.T) {
	index := vector.NewStaticIndex(8)
	client := &capturingClient{err: &models.ProviderError{Provider: "llm", Op: "complete", Err: errors.New("boom")}}
	p := newPipeline(index, client)

	_, _, err := p.Answer(context.Background(), "q", []string{"react"}, nil)
	var provErr *models.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}
