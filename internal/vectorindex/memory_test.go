package vectorindex

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func rec(id, source, text string, vec []float32) Record {
	return Record{
		ID:     id,
		Vector: vec,
		Text:   text,
		Metadata: map[string]string{
			"source": source,
		},
	}
}

func TestMemoryIndexQueryOrdering(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	require.NoError(t, idx.Upsert(ctx, "col", []Record{
		rec("a", "doc1", "orthogonal", []float32{0, 1, 0}),
		rec("b", "doc1", "identical", []float32{1, 0, 0}),
		rec("c", "doc2", "opposite", []float32{-1, 0, 0}),
	}))

	results, err := idx.Query(ctx, "col", []float32{1, 0, 0}, 3, Filter{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, "identical", results[0].Text)
	require.Equal(t, "orthogonal", results[1].Text)
	require.Equal(t, "opposite", results[2].Text)
	require.Less(t, results[0].Distance, results[1].Distance)
	require.Less(t, results[1].Distance, results[2].Distance)
}

func TestMemoryIndexReplaceByID(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	require.NoError(t, idx.Upsert(ctx, "col", []Record{rec("a", "doc1", "old text", []float32{1, 0})}))
	require.NoError(t, idx.Upsert(ctx, "col", []Record{rec("a", "doc1", "new text", []float32{1, 0})}))

	results, err := idx.Query(ctx, "col", []float32{1, 0}, 10, Filter{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "new text", results[0].Text)
}

func TestMemoryIndexClampsK(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	require.NoError(t, idx.Upsert(ctx, "col", []Record{rec("a", "doc1", "only", []float32{1, 0})}))

	results, err := idx.Query(ctx, "col", []float32{1, 0}, 100, Filter{})
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestMemoryIndexEmptyCollection(t *testing.T) {
	idx := NewMemoryIndex()
	results, err := idx.Query(context.Background(), "missing", []float32{1, 0}, 5, Filter{})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestMemoryIndexSourceFilter(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	require.NoError(t, idx.Upsert(ctx, "col", []Record{
		rec("a", "doc1", "from doc1", []float32{1, 0}),
		rec("b", "doc2", "from doc2", []float32{1, 0}),
	}))

	results, err := idx.Query(ctx, "col", []float32{1, 0}, 10, Filter{Sources: []string{"doc2"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "from doc2", results[0].Text)
}

func TestMemoryIndexDocuments(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	require.NoError(t, idx.Upsert(ctx, "col", []Record{
		rec("a::0", "a.txt", "x", []float32{1}),
		rec("a::1", "a.txt", "y", []float32{1}),
		rec("b::0", "b.txt", "z", []float32{1}),
	}))

	docs, err := idx.Documents(ctx, "col")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "a.txt", docs[0].Source)
	require.Equal(t, 2, docs[0].Chunks)
	require.Equal(t, "b.txt", docs[1].Source)
	require.Equal(t, 1, docs[1].Chunks)
}

func TestMemoryIndexConcurrentUpsertAndQuery(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = idx.Upsert(ctx, "col", []Record{rec(fmt.Sprintf("id-%d", i), "doc", "text", []float32{float32(i), 1})})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = idx.Query(ctx, "col", []float32{1, 0}, 5, Filter{})
		}()
	}
	wg.Wait()

	docs, err := idx.Documents(ctx, "col")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, 16, docs[0].Chunks)
}

func TestCosineDistance(t *testing.T) {
	require.InDelta(t, 0, CosineDistance([]float32{1, 0}, []float32{2, 0}), 1e-6)
	require.InDelta(t, 1, CosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-6)
	require.InDelta(t, 2, CosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	// Zero vectors compare as maximally dissimilar-but-defined.
	require.InDelta(t, 1, CosineDistance([]float32{0, 0}, []float32{1, 0}), 1e-6)
}
