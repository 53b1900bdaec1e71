package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"genstack/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresIndex stores chunks in a single pgvector-backed table. Cosine
// distance comes straight from the `<=>` operator, so query results are
// ordered by the database.
type PostgresIndex struct {
	pool *pgxpool.Pool
	dim  int
}

func NewPostgresIndex(ctx context.Context, dsn string, dim int) (*PostgresIndex, error) {
	if dim <= 0 {
		dim = 1536
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	idx := &PostgresIndex{pool: pool, dim: dim}
	if err := idx.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return idx, nil
}

func (p *PostgresIndex) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}

func (p *PostgresIndex) ensureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS chunks (
  collection text NOT NULL,
  chunk_id   text NOT NULL,
  source     text NOT NULL DEFAULT '',
  text       text NOT NULL,
  metadata   jsonb NOT NULL DEFAULT '{}',
  embedding  vector(%d),
  created_at timestamptz NOT NULL DEFAULT now(),
  PRIMARY KEY (collection, chunk_id)
)`, p.dim))
	if err != nil {
		return fmt.Errorf("ensure chunks table: %w", err)
	}
	return nil
}

func (p *PostgresIndex) Upsert(ctx context.Context, collection string, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx upsert chunks: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, r := range records {
		meta, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata for chunk %s: %w", r.ID, err)
		}
		_, err = tx.Exec(ctx, `
INSERT INTO chunks (collection, chunk_id, source, text, metadata, embedding)
VALUES ($1, $2, $3, $4, $5, $6::vector)
ON CONFLICT (collection, chunk_id)
DO UPDATE SET
  source = EXCLUDED.source,
  text = EXCLUDED.text,
  metadata = EXCLUDED.metadata,
  embedding = EXCLUDED.embedding`,
			collection, r.ID, r.Metadata["source"], r.Text, meta, ToLiteral(r.Vector),
		)
		if err != nil {
			return fmt.Errorf("upsert chunk %s: %w", r.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit chunks tx: %w", err)
	}
	return nil
}

func (p *PostgresIndex) Query(ctx context.Context, collection string, vector []float32, k int, filter Filter) ([]models.RetrievalResult, error) {
	if k <= 0 {
		return []models.RetrievalResult{}, nil
	}
	args := []any{collection, ToLiteral(vector), k}
	filterSQL := ""
	if len(filter.Sources) > 0 {
		filterSQL = " AND source = ANY($4)"
		args = append(args, filter.Sources)
	}
	rows, err := p.pool.Query(ctx, `
SELECT text,
       metadata::text,
       (embedding <=> $2::vector)::float8 AS distance
FROM chunks
WHERE collection = $1
  AND embedding IS NOT NULL`+filterSQL+`
ORDER BY embedding <=> $2::vector
LIMIT $3`, args...)
	if err != nil {
		return nil, fmt.Errorf("query vector search: %w", err)
	}
	defer rows.Close()

	results := make([]models.RetrievalResult, 0, k)
	for rows.Next() {
		var r models.RetrievalResult
		var meta string
		if err := rows.Scan(&r.Text, &meta, &r.Distance); err != nil {
			return nil, fmt.Errorf("scan retrieval result: %w", err)
		}
		if err := json.Unmarshal([]byte(meta), &r.Metadata); err != nil {
			return nil, fmt.Errorf("decode chunk metadata: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search rows: %w", err)
	}
	return results, nil
}

func (p *PostgresIndex) Documents(ctx context.Context, collection string) ([]models.DocumentInfo, error) {
	rows, err := p.pool.Query(ctx, `
SELECT source, COUNT(*), MIN(created_at)
FROM chunks
WHERE collection = $1
GROUP BY source
ORDER BY source`, collection)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	out := make([]models.DocumentInfo, 0, 16)
	for rows.Next() {
		var d models.DocumentInfo
		if err := rows.Scan(&d.Source, &d.Chunks, &d.IngestedAt); err != nil {
			return nil, fmt.Errorf("scan document info: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}
	return out, nil
}

// ToLiteral renders a vector as a pgvector text literal.
func ToLiteral(v []float32) string {
	parts := make([]string, 0, len(v))
	for _, x := range v {
		parts = append(parts, fmt.Sprintf("%f", x))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
