// Package pipeline wires retrieval and generation into the two request
// flows: documentation answers and code generation.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/hyperjump/oshiete/internal/generate"
	"github.com/hyperjump/oshiete/internal/models"
	"github.com/hyperjump/oshiete/internal/prompt"
	"github.com/hyperjump/oshiete/internal/retrieval"
)

// Pipeline runs retrieval followed by generation for a request.
type Pipeline struct {
	retriever *retrieval.Retriever
	answers   *generate.AnswerGenerator
	code      *generate.CodeGenerator
	topK      int
	codeTopK  int
	logger    *zap.Logger
}

// New creates a pipeline. topK governs the answer flow, codeTopK the code
// flow.
func New(retriever *retrieval.Retriever, answers *generate.AnswerGenerator, code *generate.CodeGenerator, topK, codeTopK int, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		retriever: retriever,
		answers:   answers,
		code:      code,
		topK:      topK,
		codeTopK:  codeTopK,
		logger:    logger,
	}
}

// Answer retrieves documentation for question across frameworks and generates
// an answer from it. The retrieved chunks are returned alongside the answer
// so the caller can render sources. When nothing is retrieved the model is
// told so via a sentinel context rather than being skipped.
func (p *Pipeline) Answer(ctx context.Context, question string, frameworks []string, history []models.ChatMessage) (string, []models.RetrievedChunk, error) {
	chunks, err := p.retriever.Search(ctx, question, frameworks, p.topK)
	if err != nil {
		return "", nil, err
	}
	p.logger.Debug("retrieval complete",
		zap.Int("chunks", len(chunks)),
		zap.Strings("frameworks", frameworks))

	answer, err := p.answers.Generate(ctx, question, prompt.BuildContext(chunks), history)
	if err != nil {
		return "", nil, err
	}
	return answer, chunks, nil
}

// GenerateCode produces code for request. Retrieval runs only when the caller
// asked for documentation context and named at least one framework; otherwise
// the model works from the request alone.
func (p *Pipeline) GenerateCode(ctx context.Context, request string, frameworks []string, history []models.ChatMessage, includeContext bool) (string, error) {
	docContext := ""
	if includeContext && len(frameworks) > 0 {
		chunks, err := p.retriever.Search(ctx, request, frameworks, p.codeTopK)
		if err != nil {
			return "", err
		}
		if len(chunks) > 0 {
			docContext = prompt.BuildContext(chunks)
		}
	}
	return p.code.Generate(ctx, request, docContext, history)
}
