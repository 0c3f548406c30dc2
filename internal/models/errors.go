package models

import "fmt"

// ProviderError reports a failed call to an external provider (embedding or
// generation). It is not retried; it propagates to the request layer.
type ProviderError struct {
	Provider string // "embedding" or "llm"
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NamespaceQueryError reports a failed vector-index query against a single
// namespace. The retriever suppresses it: the namespace contributes zero
// results and sibling namespace queries are unaffected.
type NamespaceQueryError struct {
	Namespace string
	Err       error
}

func (e *NamespaceQueryError) Error() string {
	return fmt.Sprintf("namespace %q query failed: %v", e.Namespace, e.Err)
}

func (e *NamespaceQueryError) Unwrap() error { return e.Err }

// ConfigurationError reports a missing or invalid setting. Fatal at startup.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
