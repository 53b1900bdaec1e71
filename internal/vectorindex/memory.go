package vectorindex

import (
	"context"
	"sort"
	"sync"
	"time"

	"genstack/internal/models"
)

type memoryRecord struct {
	Record
	storedAt time.Time
}

// MemoryIndex is a brute-force in-memory index. It is the default backend
// when no Postgres URL is configured and the workhorse of the test suite.
type MemoryIndex struct {
	mu          sync.RWMutex
	collections map[string]map[string]memoryRecord
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{collections: make(map[string]map[string]memoryRecord)}
}

func (m *MemoryIndex) Upsert(ctx context.Context, collection string, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	col := m.collections[collection]
	if col == nil {
		col = make(map[string]memoryRecord, len(records))
		m.collections[collection] = col
	}
	now := time.Now()
	for _, r := range records {
		col[r.ID] = memoryRecord{Record: r, storedAt: now}
	}
	return nil
}

func (m *MemoryIndex) Query(ctx context.Context, collection string, vector []float32, k int, filter Filter) ([]models.RetrievalResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	col := m.collections[collection]
	if len(col) == 0 || k <= 0 {
		return []models.RetrievalResult{}, nil
	}
	results := make([]models.RetrievalResult, 0, len(col))
	for _, r := range col {
		if !filter.matches(r.Metadata["source"]) {
			continue
		}
		results = append(results, models.RetrievalResult{
			Text:     r.Text,
			Metadata: r.Metadata,
			Distance: CosineDistance(vector, r.Vector),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func (m *MemoryIndex) Documents(ctx context.Context, collection string) ([]models.DocumentInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int)
	first := make(map[string]time.Time)
	for _, r := range m.collections[collection] {
		src := r.Metadata["source"]
		counts[src]++
		if t, ok := first[src]; !ok || r.storedAt.Before(t) {
			first[src] = r.storedAt
		}
	}
	out := make([]models.DocumentInfo, 0, len(counts))
	for src, n := range counts {
		out = append(out, models.DocumentInfo{Source: src, Chunks: n, IngestedAt: first[src]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out, nil
}
