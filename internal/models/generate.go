package models

import "fmt"

// CodeRequest is the payload for code generation. IncludeDocsContext defaults
// to true when omitted.
type CodeRequest struct {
	Prompt             string        `json:"prompt"`
	Frameworks         []string      `json:"frameworks,omitempty"`
	History            []ChatMessage `json:"history,omitempty"`
	IncludeDocsContext *bool         `json:"include_docs_context,omitempty"`
}

// IncludeContext reports whether documentation context should be retrieved.
func (r *CodeRequest) IncludeContext() bool {
	if r.IncludeDocsContext == nil {
		return true
	}
	return *r.IncludeDocsContext
}

// Validate checks the request fields.
func (r *CodeRequest) Validate() error {
	if r.Prompt == "" {
		return &ValidationError{Field: "prompt", Reason: "cannot be empty"}
	}
	return r.validateContent()
}

// ValidateUpload is the multipart variant of Validate. Uploaded files may
// stand in for the prompt, so it may be empty when files are present.
func (r *CodeRequest) ValidateUpload(hasFiles bool) error {
	if r.Prompt == "" && !hasFiles {
		return &ValidationError{Field: "prompt", Reason: "cannot be empty"}
	}
	return r.validateContent()
}

func (r *CodeRequest) validateContent() error {
	if len(r.Prompt) > MaxMessageLength {
		return &ValidationError{Field: "prompt", Reason: fmt.Sprintf("exceeds %d characters", MaxMessageLength)}
	}
	return validateHistory(r.History)
}

// CodeResponse is the payload returned for code generation.
type CodeResponse struct {
	Code    string `json:"code"`
	TraceID string `json:"trace_id,omitempty"`
}
