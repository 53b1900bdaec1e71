package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"genstack/internal/api"
	"genstack/internal/config"
	"genstack/internal/ingest"
	"genstack/internal/providers"
	"genstack/internal/retriever"
	"genstack/internal/vectorindex"
	"genstack/internal/workflow"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()

	embedChain, err := providers.BuildEmbeddingChain(cfg)
	if err != nil {
		log.Fatal(err)
	}
	genChain, err := providers.BuildGenerationChain(cfg)
	if err != nil {
		log.Fatal(err)
	}

	var index vectorindex.Index
	if cfg.PostgresURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pg, err := vectorindex.NewPostgresIndex(ctx, cfg.PostgresURL, cfg.EmbedDim)
		cancel()
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		index = pg
	} else {
		index = vectorindex.NewMemoryIndex()
	}

	ret := retriever.New(embedChain, index, cfg.Collection)
	engine := workflow.NewEngine(ret, genChain)
	ingestor := ingest.NewIngestor(embedChain, index, cfg.Collection, cfg.ChunkSize)
	srv := api.NewServer(cfg, engine, ingestor, ret, index)

	log.Printf("genstack api listening on %s llm_providers=%q embed_providers=%q postgres=%t",
		cfg.APIAddr, cfg.LLMProviders, cfg.EmbedProviders, cfg.PostgresURL != "")
	if err := http.ListenAndServe(cfg.APIAddr, srv.Routes()); err != nil {
		log.Fatal(err)
	}
}
