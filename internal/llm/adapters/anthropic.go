package adapters

import (
	"context"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/haowjy/meridian-llm-go/providers/anthropic"

	"meridian/internal/llm"
)

// AnthropicAdapter wraps the library's Anthropic provider, grounded on
// the teacher's internal/service/llm/adapters.AnthropicAdapter.
type AnthropicAdapter struct {
	provider llmprovider.Provider
}

func NewAnthropicAdapter(apiKey string) (*AnthropicAdapter, error) {
	provider, err := anthropic.NewProvider(apiKey)
	if err != nil {
		return nil, err
	}
	return &AnthropicAdapter{provider: provider}, nil
}

func (a *AnthropicAdapter) Complete(ctx context.Context, prompt, model string, maxTokens int) (llm.Result, error) {
	return complete(ctx, a.provider, prompt, model, maxTokens)
}
