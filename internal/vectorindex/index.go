package vectorindex

import (
	"context"
	"math"

	"genstack/internal/models"
)

// Record is one stored (id, vector, text, metadata) tuple. Within a
// collection the id is unique; re-upserting an id replaces the record.
type Record struct {
	ID       string
	Vector   []float32
	Text     string
	Metadata map[string]string
}

// Filter restricts a query to records whose "source" metadata matches one of
// the listed documents. An empty filter matches everything.
type Filter struct {
	Sources []string
}

func (f Filter) matches(source string) bool {
	if len(f.Sources) == 0 {
		return true
	}
	for _, s := range f.Sources {
		if s == source {
			return true
		}
	}
	return false
}

// Index persists embedded chunks per collection and answers nearest-neighbor
// queries in cosine space, ascending distance. Implementations must tolerate
// concurrent upserts and queries.
type Index interface {
	Upsert(ctx context.Context, collection string, records []Record) error
	Query(ctx context.Context, collection string, vector []float32, k int, filter Filter) ([]models.RetrievalResult, error)
	Documents(ctx context.Context, collection string) ([]models.DocumentInfo, error)
}

// CosineDistance is 1 - cosine similarity; 0 means identical direction.
func CosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
