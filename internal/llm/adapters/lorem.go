// Package adapters wraps github.com/haowjy/meridian-llm-go provider
// implementations behind the engine's llm.Client boundary, grounded on
// the teacher's internal/service/llm/adapters package. Streaming and
// tool-call conversion are deliberately dropped: this domain's Block
// Executor only ever issues single-shot completions (§1 Non-goals).
package adapters

import (
	"context"
	"fmt"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/haowjy/meridian-llm-go/providers/lorem"

	"meridian/internal/llm"
)

// LoremAdapter wraps the library's deterministic Lorem provider: no
// network call, used for tests and local development when no API key
// is configured (teacher's zero-config mock provider pattern).
type LoremAdapter struct {
	provider llmprovider.Provider
}

func NewLoremAdapter() *LoremAdapter {
	return &LoremAdapter{provider: lorem.NewProvider()}
}

func (a *LoremAdapter) Complete(ctx context.Context, prompt, model string, maxTokens int) (llm.Result, error) {
	return complete(ctx, a.provider, prompt, model, maxTokens)
}

// complete builds a single-message library request and flattens the
// response's text blocks, shared by every adapter in this package.
func complete(ctx context.Context, provider llmprovider.Provider, prompt, model string, maxTokens int) (llm.Result, error) {
	req := &llmprovider.GenerateRequest{
		Messages: []llmprovider.Message{
			{
				Role: "user",
				Blocks: []*llmprovider.Block{
					{BlockType: "text", TextContent: &prompt},
				},
			},
		},
		Model:  model,
		Params: &llmprovider.RequestParams{MaxTokens: &maxTokens},
	}

	resp, err := provider.GenerateResponse(ctx, req)
	if err != nil {
		return llm.Result{}, fmt.Errorf("llm completion: %w", err)
	}

	var text string
	for _, block := range resp.Blocks {
		if block.BlockType == "text" && block.TextContent != nil {
			text += *block.TextContent
		}
	}

	return llm.Result{
		Text: text,
		Usage: llm.Usage{
			PromptTokens:     resp.InputTokens,
			CompletionTokens: resp.OutputTokens,
		},
	}, nil
}
