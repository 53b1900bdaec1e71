package retriever

import (
	"context"
	"fmt"

	"genstack/internal/providers"
	"genstack/internal/vectorindex"
)

// Match is one retrieved chunk. Score is cosine similarity in [0, 1]-ish
// space, higher is better; results arrive best-first.
type Match struct {
	Text   string
	Source string
	Score  float64
}

// Retriever answers "which stored chunks are relevant to this query". It
// embeds the query through the fallback chain, so retrieval itself never
// fails on provider trouble, only on index trouble.
type Retriever struct {
	embed      *providers.EmbeddingChain
	index      vectorindex.Index
	collection string
}

func New(embed *providers.EmbeddingChain, index vectorindex.Index, collection string) *Retriever {
	return &Retriever{embed: embed, index: index, collection: collection}
}

// Retrieve returns at most k chunks whose similarity to the query reaches
// threshold, optionally restricted to the given source documents. Zero
// matches is a normal outcome, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int, threshold float64, sources []string) ([]Match, error) {
	if k <= 0 {
		k = 5
	}
	vec := r.embed.Embed(ctx, query)
	results, err := r.index.Query(ctx, r.collection, vec, k, vectorindex.Filter{Sources: sources})
	if err != nil {
		return nil, fmt.Errorf("query vector index: %w", err)
	}
	matches := make([]Match, 0, len(results))
	for _, res := range results {
		// The index speaks distance; the node config speaks similarity.
		similarity := 1 - res.Distance
		if similarity < threshold {
			continue
		}
		matches = append(matches, Match{
			Text:   res.Text,
			Source: res.Metadata["source"],
			Score:  similarity,
		})
	}
	return matches, nil
}
