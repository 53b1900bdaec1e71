package providers

import (
	"context"
	"log"
	"time"

	"genstack/internal/util"
)

// StubResponsePrefix marks generation output produced without any reachable
// provider, so callers and the chat UI can recognize degraded answers.
const StubResponsePrefix = "[genstack offline]"

// EmbeddingChain tries providers in priority order and falls back to the
// deterministic hash embedding. Embed never fails and always returns a vector
// of exactly the configured dimension.
type EmbeddingChain struct {
	providers []EmbeddingProvider
	dim       int
	timeout   time.Duration
}

func NewEmbeddingChain(chain []EmbeddingProvider, dim int, timeout time.Duration) *EmbeddingChain {
	if dim <= 0 {
		dim = 1536
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &EmbeddingChain{providers: chain, dim: dim, timeout: timeout}
}

// Dimension is the process-wide embedding length.
func (c *EmbeddingChain) Dimension() int { return c.dim }

func (c *EmbeddingChain) Embed(ctx context.Context, text string) []float32 {
	for _, p := range c.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		vec, info, err := p.Embed(attemptCtx, EmbedRequest{Input: text, Dimension: c.dim})
		cancel()
		if err != nil {
			if t := ClassifyError(err); t == ErrorQuota || t == ErrorRate {
				log.Printf("embed provider=%s model=%s skipped class=%s err=%v", info.Name, info.Model, t, err)
			} else {
				log.Printf("embed provider=%s model=%s failed err=%v", info.Name, info.Model, err)
			}
			continue
		}
		if len(vec) == 0 {
			continue
		}
		return padToDimension(vec, c.dim)
	}
	return HashEmbedding(text, c.dim)
}

// GenerationChain tries providers in priority order and degrades to a
// clearly-prefixed deterministic stub, so a workflow run always ends with
// some answer string.
type GenerationChain struct {
	providers    []LLMProvider
	defaultModel string
	timeout      time.Duration
}

func NewGenerationChain(chain []LLMProvider, defaultModel string, timeout time.Duration) *GenerationChain {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GenerationChain{providers: chain, defaultModel: defaultModel, timeout: timeout}
}

// DefaultModel is used when a workflow node does not pick one.
func (c *GenerationChain) DefaultModel() string { return c.defaultModel }

func (c *GenerationChain) Generate(ctx context.Context, req GenerateRequest) (string, ProviderInfo) {
	if req.Model == "" {
		req.Model = c.defaultModel
	}
	for _, p := range c.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		text, info, err := p.Generate(attemptCtx, req)
		cancel()
		if err != nil {
			if t := ClassifyError(err); t == ErrorQuota || t == ErrorRate {
				log.Printf("generate provider=%s model=%s skipped class=%s err=%v", info.Name, info.Model, t, err)
			} else {
				log.Printf("generate provider=%s model=%s failed err=%v", info.Name, info.Model, err)
			}
			continue
		}
		if text == "" {
			continue
		}
		return text, info
	}
	return stubResponse(req.Prompt), ProviderInfo{Name: "stub", Model: "stub"}
}

func stubResponse(prompt string) string {
	return StubResponsePrefix + " I am sorry, no language model provider is reachable right now. " +
		"Your request was: \"" + util.Truncate(prompt, 160) + "\""
}

// padToDimension zero-pads short vectors up to the target length and trims
// longer ones. Lossy but keeps every stored vector comparable.
func padToDimension(v []float32, target int) []float32 {
	if target <= 0 || len(v) == target {
		return v
	}
	if len(v) > target {
		return v[:target]
	}
	out := make([]float32, target)
	copy(out, v)
	return out
}
