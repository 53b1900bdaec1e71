package models

import "time"

// DocumentChunk is the unit of embedding and retrieval: a bounded slice of a
// document's extracted text together with its vector.
type DocumentChunk struct {
	ChunkID        string    `json:"chunk_id"`
	SourceDocument string    `json:"source_document"`
	Ordinal        int       `json:"ordinal"`
	Text           string    `json:"text"`
	Embedding      []float32 `json:"embedding,omitempty"`
}

// RetrievalResult is one nearest-neighbor hit. Distance is cosine distance,
// lower means more similar.
type RetrievalResult struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
	Distance float64           `json:"distance"`
}

// DocumentInfo summarizes one ingested document as stored in the index.
type DocumentInfo struct {
	Source     string    `json:"source"`
	Chunks     int       `json:"chunks"`
	IngestedAt time.Time `json:"ingested_at,omitempty"`
}
