package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIAddr             string
	PostgresURL         string
	Collection          string
	ChunkSize           int
	EmbedDim            int
	EmbedProviders      string
	LLMProviders        string
	DefaultModel        string
	ProviderTimeoutSecs int
	DefaultTopK         int
	SimilarityThreshold float64
}

func Load() Config {
	return Config{
		APIAddr:             getenv("GENSTACK_API_ADDR", ":8080"),
		PostgresURL:         getenv("GENSTACK_POSTGRES_URL", ""),
		Collection:          getenv("GENSTACK_COLLECTION", "documents"),
		ChunkSize:           getenvInt("GENSTACK_CHUNK_SIZE", 1000),
		EmbedDim:            getenvInt("GENSTACK_EMBED_DIM", 1536),
		EmbedProviders:      getenv("GENSTACK_EMBED_PROVIDERS", "gemini|openai"),
		LLMProviders:        getenv("GENSTACK_LLM_PROVIDERS", "gemini|openai"),
		DefaultModel:        getenv("GENSTACK_DEFAULT_MODEL", "gemini-1.5-flash"),
		ProviderTimeoutSecs: getenvInt("GENSTACK_PROVIDER_TIMEOUT_SECONDS", 30),
		DefaultTopK:         getenvInt("GENSTACK_DEFAULT_TOP_K", 5),
		SimilarityThreshold: getenvFloat("GENSTACK_SIMILARITY_THRESHOLD", 0.3),
	}
}

func getenv(k, fallback string) string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat(k string, fallback float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
