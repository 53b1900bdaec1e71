package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkTextRoundTrip(t *testing.T) {
	inputs := []string{
		"abcdefghijklmnopqrstuvwxyz",
		strings.Repeat("lorem ipsum dolor sit amet ", 40),
		"héllo wörld ünïcode ©®™ text",
	}
	for _, text := range inputs {
		for _, size := range []int{1, 7, 100, 10000} {
			chunks := ChunkText(text, size)
			require.Equal(t, text, strings.Join(chunks, ""), "size %d must reconstruct input", size)
		}
	}
}

func TestChunkTextExactCounts(t *testing.T) {
	text := strings.Repeat("x", 2500)
	chunks := ChunkText(text, 1000)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 1000)
	require.Len(t, chunks[1], 1000)
	require.Len(t, chunks[2], 500)
}

func TestChunkTextDeterministic(t *testing.T) {
	text := strings.Repeat("deterministic ", 200)
	require.Equal(t, ChunkText(text, 333), ChunkText(text, 333))
}

func TestChunkTextEmptyAndInvalidSize(t *testing.T) {
	require.Nil(t, ChunkText("", 10))
	require.Nil(t, ChunkText("abc", 0))
	require.Nil(t, ChunkText("abc", -5))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))
	got := Truncate(strings.Repeat("word ", 100), 20)
	require.True(t, strings.HasSuffix(got, "..."))
	require.LessOrEqual(t, len([]rune(got)), 24)
}
