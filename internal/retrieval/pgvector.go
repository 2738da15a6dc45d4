package retrieval

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

type pgvectorBackend struct {
	pool     *pgxpool.Pool
	embedder Embedder
	logger   logger.Logger
}

// NewPgvector connects to Postgres and makes sure the pgvector extension and
// the records table exist.
func NewPgvector(ctx context.Context, databaseURL string, dim int, embedder Embedder, log logger.Logger) (Backend, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	b := &pgvectorBackend{pool: pool, embedder: embedder, logger: log}
	if err := b.ensureTable(ctx, dim); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info(ctx, "Connected to pgvector store (dim %d)", dim)
	return b, nil
}

func (b *pgvectorBackend) ensureTable(ctx context.Context, dim int) error {
	if _, err := b.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	table := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS retrieval_records (
			id UUID PRIMARY KEY,
			namespace VARCHAR(128) NOT NULL,
			link TEXT,
			title TEXT,
			text TEXT,
			embedding vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, dim)
	if _, err := b.pool.Exec(ctx, table); err != nil {
		return fmt.Errorf("create retrieval_records table: %w", err)
	}

	if _, err := b.pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS retrieval_records_namespace_idx ON retrieval_records (namespace)"); err != nil {
		return fmt.Errorf("create namespace index: %w", err)
	}
	return nil
}

func (b *pgvectorBackend) Search(ctx context.Context, namespace, query string, topK int) ([]Match, error) {
	vec, err := embedOne(ctx, b.embedder, query)
	if err != nil {
		return nil, err
	}

	// Cosine distance, nearest first
	rows, err := b.pool.Query(ctx, `
		SELECT link, title, text, 1 - (embedding <=> $1) AS similarity
		FROM retrieval_records
		WHERE namespace = $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`, pgvector.NewVector(vec), namespace, topK)
	if err != nil {
		return nil, fmt.Errorf("query namespace %s: %w", namespace, err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var link, title, text *string
		var similarity float64
		if err := rows.Scan(&link, &title, &text, &similarity); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, Match{
			Fields: presentFields(map[string]*string{FieldLink: link, FieldTitle: title, FieldText: text}),
			Score:  similarity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read matches: %w", err)
	}
	return matches, nil
}

func (b *pgvectorBackend) Upsert(ctx context.Context, namespace string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	inputs := make([]string, len(records))
	for i, r := range records {
		inputs[i] = r.embeddingInput()
	}
	vecs, err := b.embedder.Embed(ctx, inputs)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, r := range records {
		batch.Queue(`
			INSERT INTO retrieval_records (id, namespace, link, title, text, embedding)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				namespace = EXCLUDED.namespace,
				link = EXCLUDED.link,
				title = EXCLUDED.title,
				text = EXCLUDED.text,
				embedding = EXCLUDED.embedding
		`, recordID(namespace, r), namespace, nullable(r.Link), nullable(r.Title), nullable(r.Text), pgvector.NewVector(vecs[i]))
	}

	if err := b.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert into %s: %w", namespace, err)
	}

	b.logger.Info(ctx, "Upserted %d records into namespace %s", len(records), namespace)
	return nil
}

func (b *pgvectorBackend) Close() error {
	b.pool.Close()
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// presentFields drops NULL and empty columns so they read as missing.
func presentFields(cols map[string]*string) map[string]string {
	out := make(map[string]string, len(cols))
	for k, v := range cols {
		if v != nil && *v != "" {
			out[k] = *v
		}
	}
	return out
}
