package retriever

import (
	"context"
	"testing"
	"time"

	"genstack/internal/providers"
	"genstack/internal/vectorindex"

	"github.com/stretchr/testify/require"
)

type mapEmbedder struct {
	vectors map[string][]float32
}

func (m *mapEmbedder) Embed(_ context.Context, req providers.EmbedRequest) ([]float32, providers.ProviderInfo, error) {
	info := providers.ProviderInfo{Name: "map", Model: "map"}
	if v, ok := m.vectors[req.Input]; ok {
		return v, info, nil
	}
	return []float32{0, 0, 1}, info, nil
}

func seededRetriever(t *testing.T) (*Retriever, *vectorindex.MemoryIndex) {
	t.Helper()
	idx := vectorindex.NewMemoryIndex()
	require.NoError(t, idx.Upsert(context.Background(), "docs", []vectorindex.Record{
		{ID: "a::0", Vector: []float32{1, 0, 0}, Text: "close match", Metadata: map[string]string{"source": "a.txt"}},
		{ID: "a::1", Vector: []float32{0.7, 0.7, 0}, Text: "loose match", Metadata: map[string]string{"source": "a.txt"}},
		{ID: "b::0", Vector: []float32{0, 1, 0}, Text: "unrelated", Metadata: map[string]string{"source": "b.txt"}},
	}))
	embed := providers.NewEmbeddingChain([]providers.EmbeddingProvider{
		&mapEmbedder{vectors: map[string][]float32{"query": {1, 0, 0}}},
	}, 3, time.Second)
	return New(embed, idx, "docs"), idx
}

func TestRetrieveBestFirst(t *testing.T) {
	r, _ := seededRetriever(t)
	matches, err := r.Retrieve(context.Background(), "query", 5, 0.0, nil)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	require.Equal(t, "close match", matches[0].Text)
	require.Equal(t, "loose match", matches[1].Text)
	require.Greater(t, matches[0].Score, matches[1].Score)
}

func TestRetrieveThresholdDropsLooseMatches(t *testing.T) {
	r, _ := seededRetriever(t)
	matches, err := r.Retrieve(context.Background(), "query", 5, 0.9, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "close match", matches[0].Text)
}

func TestRetrieveStrictThresholdYieldsEmpty(t *testing.T) {
	r, _ := seededRetriever(t)
	matches, err := r.Retrieve(context.Background(), "query", 3, 1.1, nil)
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestRetrieveDocumentFilter(t *testing.T) {
	r, _ := seededRetriever(t)
	matches, err := r.Retrieve(context.Background(), "query", 5, 0.0, []string{"b.txt"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "unrelated", matches[0].Text)
}

func TestRetrieveCapsAtK(t *testing.T) {
	r, _ := seededRetriever(t)
	matches, err := r.Retrieve(context.Background(), "query", 2, 0.0, nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)
}
