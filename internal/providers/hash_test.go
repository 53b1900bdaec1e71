package providers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashEmbeddingDimension(t *testing.T) {
	for _, dim := range []int{1, 8, 100, 768, 1536} {
		vec := HashEmbedding("some text", dim)
		require.Len(t, vec, dim)
	}
	require.Nil(t, HashEmbedding("some text", 0))
}

func TestHashEmbeddingPure(t *testing.T) {
	a := HashEmbedding("identical input", 1536)
	b := HashEmbedding("identical input", 1536)
	require.Equal(t, a, b)

	c := HashEmbedding("different input", 1536)
	require.NotEqual(t, a, c)
}

func TestHashEmbeddingRange(t *testing.T) {
	for _, text := range []string{"", "a", "the quick brown fox"} {
		for _, v := range HashEmbedding(text, 512) {
			require.GreaterOrEqual(t, v, float32(-1))
			require.LessOrEqual(t, v, float32(1))
		}
	}
}
