package adk

import (
	"context"
	"fmt"
)

// NewProvider builds the named provider. host only applies to self-hosted
// backends.
func NewProvider(ctx context.Context, providerName, apiKey, host, modelName string) (LLMProvider, error) {
	switch providerName {
	case "gemini":
		if apiKey == "" {
			return nil, fmt.Errorf("gemini requires an API key")
		}
		return NewGeminiProvider(ctx, apiKey, modelName)
	case "ollama":
		return NewOllamaProvider(host, modelName)
	default:
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}
}
