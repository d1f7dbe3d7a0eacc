// Package llm routes completion requests across interchangeable LLM
// providers with ordered fallback.
package llm

import "context"

// Prompt is a single completion request. System may be empty.
type Prompt struct {
	System string
	User   string
}

// Provider is a completion backend: a local inference server or a cloud
// API behind the same interface.
type Provider interface {
	Name() string
	Complete(ctx context.Context, p Prompt) (string, error)
}
