package models

import "fmt"

// Message roles. History supplied by callers may contain system turns; those
// are filtered out before being forwarded to generation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// MaxMessageLength is the maximum accepted length for a question or prompt.
const MaxMessageLength = 2000

// ChatMessage is a single conversation turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload for documentation Q&A.
type ChatRequest struct {
	Message    string        `json:"message"`
	Frameworks []string      `json:"frameworks,omitempty"`
	History    []ChatMessage `json:"history,omitempty"`
}

// Validate checks the request fields. An empty frameworks list is allowed here;
// the server substitutes the configured default list.
func (r *ChatRequest) Validate() error {
	if r.Message == "" {
		return &ValidationError{Field: "message", Reason: "cannot be empty"}
	}
	return r.validateContent()
}

// ValidateUpload is the multipart variant of Validate. An upload may carry the
// question entirely in its attached files, so the message may be empty when
// files are present.
func (r *ChatRequest) ValidateUpload(hasFiles bool) error {
	if r.Message == "" && !hasFiles {
		return &ValidationError{Field: "message", Reason: "cannot be empty"}
	}
	return r.validateContent()
}

func (r *ChatRequest) validateContent() error {
	if len(r.Message) > MaxMessageLength {
		return &ValidationError{Field: "message", Reason: fmt.Sprintf("exceeds %d characters", MaxMessageLength)}
	}
	return validateHistory(r.History)
}

// SourceNode is a citable source returned alongside an answer. Text is
// truncated for display; the full chunk text stays server-side.
type SourceNode struct {
	ID        string                 `json:"id"`
	Text      string                 `json:"text"`
	Score     float64                `json:"score"`
	Metadata  map[string]interface{} `json:"metadata"`
	URL       string                 `json:"url,omitempty"`
	Framework string                 `json:"framework,omitempty"`
}

// ChatResponse is the payload returned for documentation Q&A.
type ChatResponse struct {
	Response string       `json:"response"`
	Sources  []SourceNode `json:"sources"`
	TraceID  string       `json:"trace_id,omitempty"`
}

// Feedback values accepted by the feedback endpoint.
const (
	FeedbackPositive = "positive"
	FeedbackNegative = "negative"
)

// FeedbackRequest records user feedback for a previous response.
type FeedbackRequest struct {
	TraceID string `json:"trace_id"`
	Value   string `json:"value"`
	Comment string `json:"comment,omitempty"`
}

// Validate checks the feedback fields.
func (r *FeedbackRequest) Validate() error {
	if r.TraceID == "" {
		return &ValidationError{Field: "trace_id", Reason: "cannot be empty"}
	}
	if r.Value != FeedbackPositive && r.Value != FeedbackNegative {
		return &ValidationError{Field: "value", Reason: "must be positive or negative"}
	}
	return nil
}

func validateHistory(history []ChatMessage) error {
	for i, msg := range history {
		switch msg.Role {
		case RoleUser, RoleAssistant, RoleSystem:
		default:
			return &ValidationError{
				Field:  "history",
				Reason: fmt.Sprintf("turn %d has unknown role %q", i, msg.Role),
			}
		}
	}
	return nil
}
