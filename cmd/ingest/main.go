package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"genstack/internal/config"
	"genstack/internal/ingest"
	"genstack/internal/providers"
	"genstack/internal/vectorindex"

	"github.com/joho/godotenv"
)

// Bulk ingestion: walk the given files or directories and index every
// supported document into the configured collection.
func main() {
	_ = godotenv.Load(".env")
	if len(os.Args) < 2 {
		log.Fatal("usage: ingest <file-or-dir> [...]")
	}
	cfg := config.Load()
	if cfg.PostgresURL == "" {
		log.Fatal("GENSTACK_POSTGRES_URL is required for bulk ingestion; an in-memory index does not outlive the process")
	}

	embedChain, err := providers.BuildEmbeddingChain(cfg)
	if err != nil {
		log.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	index, err := vectorindex.NewPostgresIndex(ctx, cfg.PostgresURL, cfg.EmbedDim)
	cancel()
	if err != nil {
		log.Fatal(err)
	}
	defer index.Close()

	ingestor := ingest.NewIngestor(embedChain, index, cfg.Collection, cfg.ChunkSize)
	total := 0
	for _, root := range os.Args[1:] {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() || !supported(path) {
				return err
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			n, err := ingestor.IngestDocument(context.Background(), filepath.Base(path), raw)
			if err != nil {
				log.Printf("skipping %s: %v", path, err)
				return nil
			}
			total += n
			return nil
		})
		if err != nil {
			log.Fatal(err)
		}
	}
	log.Printf("done, indexed %d chunks into collection %q", total, cfg.Collection)
}

func supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt", ".md":
		return true
	}
	return false
}
