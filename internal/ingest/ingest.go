package ingest

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"genstack/internal/models"
	"genstack/internal/providers"
	"genstack/internal/util"
	"genstack/internal/vectorindex"
)

// IngestionError reports a document that could not be ingested, carrying the
// filename so the upload caller can point at the offending file.
type IngestionError struct {
	Filename string
	Err      error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Filename, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// Ingestor runs the ingestion pipeline: extract, chunk, embed, upsert.
type Ingestor struct {
	embed      *providers.EmbeddingChain
	index      vectorindex.Index
	collection string
	chunkSize  int
}

func NewIngestor(embed *providers.EmbeddingChain, index vectorindex.Index, collection string, chunkSize int) *Ingestor {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	return &Ingestor{embed: embed, index: index, collection: collection, chunkSize: chunkSize}
}

// IngestDocument extracts text from the raw document, splits it into
// fixed-size chunks, embeds each chunk, and upserts everything into the
// vector index in one batch so a cancelled request leaves no partial
// document behind. It returns the number of chunks indexed.
func (ing *Ingestor) IngestDocument(ctx context.Context, filename string, raw []byte) (int, error) {
	if len(raw) == 0 {
		return 0, &IngestionError{Filename: filename, Err: util.ErrNoExtractableText}
	}
	text, err := ExtractText(filename, raw)
	if err != nil {
		return 0, &IngestionError{Filename: filename, Err: err}
	}
	if text == "" {
		return 0, &IngestionError{Filename: filename, Err: util.ErrNoExtractableText}
	}

	docHash := util.SHA256Hex(raw)
	chunks := make([]models.DocumentChunk, 0, 8)
	for i, segment := range util.ChunkText(text, ing.chunkSize) {
		if err := ctx.Err(); err != nil {
			return 0, &IngestionError{Filename: filename, Err: err}
		}
		chunks = append(chunks, models.DocumentChunk{
			ChunkID:        fmt.Sprintf("%s::%d", filename, i),
			SourceDocument: filename,
			Ordinal:        i,
			Text:           segment,
			Embedding:      ing.embed.Embed(ctx, segment),
		})
	}
	records := make([]vectorindex.Record, 0, len(chunks))
	for _, c := range chunks {
		records = append(records, vectorindex.Record{
			ID:     c.ChunkID,
			Vector: c.Embedding,
			Text:   c.Text,
			Metadata: map[string]string{
				"source":   c.SourceDocument,
				"chunk":    strconv.Itoa(c.Ordinal),
				"doc_hash": docHash,
			},
		})
	}
	if err := ctx.Err(); err != nil {
		return 0, &IngestionError{Filename: filename, Err: err}
	}
	if err := ing.index.Upsert(ctx, ing.collection, records); err != nil {
		return 0, &IngestionError{Filename: filename, Err: err}
	}
	log.Printf("ingested document=%s doc_hash=%s chunks=%d", filename, docHash[:12], len(records))
	return len(records), nil
}
