// Package cli provides output rendering for the Oshiete command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/oshiete/internal/models"
	"github.com/hyperjump/oshiete/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteChatResponse writes a documentation answer to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteChatResponse(w io.Writer, response *models.ChatResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeChatResponseText(w, response)
		return nil
	}
}

func writeChatResponseText(w io.Writer, response *models.ChatResponse) {
	fmt.Fprintf(w, "\n%s\n", response.Response)
	if len(response.Sources) == 0 {
		return
	}
	fmt.Fprintf(w, "\n--- Sources (%d) ---\n", len(response.Sources))
	for i, src := range response.Sources {
		writeOneSource(w, i+1, src)
	}
}

func writeOneSource(w io.Writer, rank int, src models.SourceNode) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "[%d] Score: %.4f", rank, src.Score)
	if src.Framework != "" {
		fmt.Fprintf(w, " | Framework: %s", src.Framework)
	}
	fmt.Fprintln(w)
	if src.URL != "" {
		fmt.Fprintf(w, "URL: %s\n", src.URL)
	}
	fmt.Fprintf(w, "\n%s\n", utils.Truncate(src.Text, 200))
}

// WriteCodeResponse writes generated code to w in the given format. Text
// format prints the raw code so it can be piped into a file.
func WriteCodeResponse(w io.Writer, response *models.CodeResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		fmt.Fprintln(w, response.Code)
		return nil
	}
}
