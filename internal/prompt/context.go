package prompt

import (
	"fmt"
	"strings"

	"github.com/hyperjump/oshiete/internal/models"
)

// NoDocumentationSentinel is returned for an empty result set. The generation
// prompt must always carry an explicit signal that retrieval found nothing; an
// empty string would be indistinguishable from a missing context section.
const NoDocumentationSentinel = "No relevant documentation found."

// chunkSeparator visually separates sources in the context block.
const chunkSeparator = "================================================================================"

// BuildContext renders retrieved chunks into a prompt-ready text block. Each
// chunk gets a 1-based ordinal, its namespace label, its score to two
// decimals, its URL, and its raw text, in the given (score-descending) order.
// Chunk text is not truncated here; bounding chunk size is the ingestion
// pipeline's job.
func BuildContext(chunks []models.RetrievedChunk) string {
	if len(chunks) == 0 {
		return NoDocumentationSentinel
	}

	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n" + chunkSeparator + "\n")
		}
		framework := c.Framework
		if framework == "" {
			framework = "unknown"
		}
		fmt.Fprintf(&b, "[Source %d - %s - Relevance: %.2f]\n", i+1, strings.ToUpper(framework), c.Score)
		fmt.Fprintf(&b, "URL: %s\n", c.URL)
		fmt.Fprintf(&b, "Content:\n%s\n", c.Text)
	}
	return b.String()
}

// WrapFileContext wraps extracted upload text in an envelope that tells the
// model where the user-supplied material starts and ends. Returns "" for empty
// input so callers can skip the section entirely.
func WrapFileContext(fileText string) string {
	if fileText == "" {
		return ""
	}
	return `<uploaded_files>
The user has uploaded the following file(s) for context:

` + fileText + `
</uploaded_files>

Please analyze the uploaded file content and use it to help answer the user's question.`
}
