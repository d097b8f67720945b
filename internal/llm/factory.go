package llm

import (
	"fmt"

	"meridian/internal/config"
	"meridian/internal/llm/adapters"
)

// NewClient builds the configured Client by provider name, grounded on
// the teacher's internal/service/llm.ProviderFactory.
func NewClient(cfg *config.Config, providerName string) (Client, error) {
	switch providerName {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("CLAUDE_API_KEY environment variable not set")
		}
		return adapters.NewAnthropicAdapter(cfg.AnthropicAPIKey)
	case "lorem":
		return adapters.NewLoremAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}
