package providers

import (
	"fmt"
	"strings"
	"time"

	"genstack/internal/config"
)

// BuildEmbeddingChain assembles the embedding fallback chain from the
// configured priority list. Configuration is passed explicitly so tests can
// construct chains from fakes instead.
func BuildEmbeddingChain(cfg config.Config) (*EmbeddingChain, error) {
	refs := ParseProviderList(cfg.EmbedProviders)
	chain := make([]EmbeddingProvider, 0, len(refs))
	for _, ref := range refs {
		p, err := buildProvider(ref)
		if err != nil {
			return nil, err
		}
		embed, ok := p.(EmbeddingProvider)
		if !ok {
			return nil, fmt.Errorf("provider %s does not support embeddings", ref.Raw)
		}
		chain = append(chain, embed)
	}
	return NewEmbeddingChain(chain, cfg.EmbedDim, time.Duration(cfg.ProviderTimeoutSecs)*time.Second), nil
}

// BuildGenerationChain assembles the text-generation fallback chain.
func BuildGenerationChain(cfg config.Config) (*GenerationChain, error) {
	refs := ParseProviderList(cfg.LLMProviders)
	chain := make([]LLMProvider, 0, len(refs))
	for _, ref := range refs {
		p, err := buildProvider(ref)
		if err != nil {
			return nil, err
		}
		llm, ok := p.(LLMProvider)
		if !ok {
			return nil, fmt.Errorf("provider %s does not support generation", ref.Raw)
		}
		chain = append(chain, llm)
	}
	return NewGenerationChain(chain, cfg.DefaultModel, time.Duration(cfg.ProviderTimeoutSecs)*time.Second), nil
}

func buildProvider(ref ProviderRef) (any, error) {
	switch strings.ToLower(ref.Name) {
	case "gemini":
		return NewGeminiProvider(ref.KeyAlias), nil
	case "openai":
		return NewOpenAIProvider(ref.KeyAlias), nil
	case "ollama":
		return NewOllamaProvider(ref.KeyAlias), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", ref.Name)
	}
}
