package database

import (
	"context"
	"fmt"
)

// DefaultEmbeddingDimension matches the hashing embedder. Deployments on a
// Bedrock embedder must create the schema with that model's dimension.
const DefaultEmbeddingDimension = 256

const observationsDDL = `
CREATE TABLE IF NOT EXISTS metric_observations (
	id BIGSERIAL PRIMARY KEY,
	observed_on DATE NOT NULL,
	metric TEXT NOT NULL,
	segment TEXT NOT NULL,
	value DOUBLE PRECISION NOT NULL
)`

// EnsureSchema enables the pgvector extension and creates both tables when
// missing. The embedding column is fixed at the given dimension; changing
// providers later requires rebuilding the knowledge table.
func (db *DB) EnsureSchema(ctx context.Context, embeddingDimension int) error {
	if embeddingDimension < 1 {
		embeddingDimension = DefaultEmbeddingDimension
	}

	if _, err := db.Pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	if _, err := db.Pool.Exec(ctx, observationsDDL); err != nil {
		return fmt.Errorf("failed to create metric_observations table: %w", err)
	}

	knowledgeDDL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS knowledge_entries (
	id VARCHAR(255) PRIMARY KEY,
	text TEXT NOT NULL,
	metric TEXT NOT NULL DEFAULT '',
	segment TEXT NOT NULL DEFAULT '',
	time_window TEXT NOT NULL DEFAULT '',
	value DOUBLE PRECISION NOT NULL DEFAULT 0,
	change DOUBLE PRECISION,
	embedding vector(%d) NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, embeddingDimension)

	if _, err := db.Pool.Exec(ctx, knowledgeDDL); err != nil {
		return fmt.Errorf("failed to create knowledge_entries table: %w", err)
	}

	return nil
}
