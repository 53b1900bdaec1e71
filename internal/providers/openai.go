package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider covers both embeddings and chat completions through the
// official REST API.
type OpenAIProvider struct {
	keyAlias string
	apiKey   string
	client   *openai.Client
}

const openaiEmbedModel = openai.SmallEmbedding3

func NewOpenAIProvider(keyAlias string) *OpenAIProvider {
	apiKey := resolveOpenAIKey(keyAlias)
	p := &OpenAIProvider{keyAlias: keyAlias, apiKey: apiKey}
	if apiKey != "" {
		p.client = openai.NewClient(apiKey)
	}
	return p
}

func (o *OpenAIProvider) Embed(ctx context.Context, req EmbedRequest) ([]float32, ProviderInfo, error) {
	info := ProviderInfo{Name: "openai", Model: string(openaiEmbedModel)}
	if o.client == nil {
		return nil, info, fmt.Errorf("openai key missing for alias %q", o.keyAlias)
	}
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openaiEmbedModel,
		Input: []string{req.Input},
	})
	if err != nil {
		return nil, info, fmt.Errorf("openai embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, info, fmt.Errorf("openai returned no embedding data")
	}
	return resp.Data[0].Embedding, info, nil
}

func (o *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (string, ProviderInfo, error) {
	model := req.Model
	if strings.TrimSpace(model) == "" || strings.HasPrefix(model, "gemini") {
		model = openai.GPT4oMini
	}
	info := ProviderInfo{Name: "openai", Model: model}
	if o.client == nil {
		return "", info, fmt.Errorf("openai key missing for alias %q", o.keyAlias)
	}
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", info, fmt.Errorf("openai generate request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", info, fmt.Errorf("openai returned empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), info, nil
}

func resolveOpenAIKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("GENSTACK_OPENAI_KEY_" + strings.ToUpper(alias)); v != "" {
			return v
		}
	}
	return os.Getenv("OPENAI_API_KEY")
}
