package providers

import "context"

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

type EmbedRequest struct {
	Input     string `json:"input"`
	Dimension int    `json:"dimension"`
}

type GenerateRequest struct {
	Prompt      string  `json:"prompt"`
	System      string  `json:"system,omitempty"`
	Model       string  `json:"model,omitempty"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// EmbeddingProvider turns text into a vector. A provider reports failure
// through the error; the chain decides whether to advance.
type EmbeddingProvider interface {
	Embed(ctx context.Context, req EmbedRequest) ([]float32, ProviderInfo, error)
}

// LLMProvider produces text for a composed prompt.
type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (string, ProviderInfo, error)
}
