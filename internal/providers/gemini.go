package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// GeminiProvider talks to the Google Generative Language REST API. Gemini
// embeddings are 768-dimensional; the embedding chain zero-pads them to the
// process-wide dimension.
type GeminiProvider struct {
	keyAlias string
	apiKey   string
	baseURL  string
	client   *http.Client
}

const geminiEmbedModel = "text-embedding-004"

func NewGeminiProvider(keyAlias string) *GeminiProvider {
	baseURL := strings.TrimSpace(os.Getenv("GENSTACK_GEMINI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &GeminiProvider{
		keyAlias: keyAlias,
		apiKey:   resolveGeminiKey(keyAlias),
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *GeminiProvider) Embed(ctx context.Context, req EmbedRequest) ([]float32, ProviderInfo, error) {
	info := ProviderInfo{Name: "gemini", Model: geminiEmbedModel}
	if g.apiKey == "" {
		return nil, info, fmt.Errorf("gemini key missing for alias %q", g.keyAlias)
	}
	payload, _ := json.Marshal(map[string]any{
		"model":   "models/" + geminiEmbedModel,
		"content": map[string]any{"parts": []map[string]string{{"text": req.Input}}},
	})
	url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", g.baseURL, geminiEmbedModel, g.apiKey)
	body, err := g.post(ctx, url, payload)
	if err != nil {
		return nil, info, fmt.Errorf("gemini embedding request failed: %w", err)
	}
	var parsed struct {
		Embedding struct {
			Values []float32 `json:"values"`
		} `json:"embedding"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, info, fmt.Errorf("decode gemini embedding response: %w", err)
	}
	if len(parsed.Embedding.Values) == 0 {
		return nil, info, fmt.Errorf("gemini returned empty embedding")
	}
	return parsed.Embedding.Values, info, nil
}

func (g *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (string, ProviderInfo, error) {
	model := req.Model
	if strings.TrimSpace(model) == "" {
		model = "gemini-1.5-flash"
	}
	info := ProviderInfo{Name: "gemini", Model: model}
	if g.apiKey == "" {
		return "", info, fmt.Errorf("gemini key missing for alias %q", g.keyAlias)
	}
	body := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]string{{"text": req.Prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":     req.Temperature,
			"maxOutputTokens": req.MaxTokens,
		},
	}
	if strings.TrimSpace(req.System) != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]string{{"text": req.System}},
		}
	}
	payload, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, model, g.apiKey)
	respBody, err := g.post(ctx, url, payload)
	if err != nil {
		return "", info, fmt.Errorf("gemini generate request failed: %w", err)
	}
	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", info, fmt.Errorf("decode gemini generate response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return "", info, fmt.Errorf("gemini returned no candidates")
	}
	var sb strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", info, fmt.Errorf("gemini returned empty candidate text")
	}
	return text, info, nil
}

func (g *GeminiProvider) post(ctx context.Context, url string, payload []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func resolveGeminiKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("GENSTACK_GEMINI_KEY_" + strings.ToUpper(alias)); v != "" {
			return v
		}
	}
	return os.Getenv("GEMINI_API_KEY")
}
