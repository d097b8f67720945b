// Package llm defines the LLM provider boundary and its adapters. The
// engine depends only on Client; internal/llm/adapters supplies
// concrete implementations (§1: "LLM provider — treated as an async
// complete(prompt, model, max_tokens) -> text endpoint").
package llm

import "context"

// Usage reports token accounting and cost passed through from the
// provider unchanged; the orchestrator never computes cost itself
// (§4.5).
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	CostUSD          float64
}

// Result is one completion call's outcome.
type Result struct {
	Text  string
	Usage Usage
}

// Client is the LLM provider boundary. A single failing call must
// return a non-nil error and a zero Result; callers never treat a
// partial Result as valid.
type Client interface {
	Complete(ctx context.Context, prompt, model string, maxTokens int) (Result, error)
}
