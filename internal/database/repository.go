package database

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/sahoo-tech/RAG/internal/dataset"
)

// Filter implements dataset.MetricStore over the metric_observations table.
// Empty filters match every row, mirroring the in-memory store contract.
func (db *DB) Filter(ctx context.Context, metric, segment string) ([]dataset.MetricRow, error) {
	query := `
	SELECT
	  observed_on,
	  metric,
	  segment,
	  value
	FROM metric_observations
	WHERE ($1 = '' OR metric ILIKE '%' || $1 || '%')
	  AND ($2 = '' OR segment ILIKE '%' || $2 || '%')
	ORDER BY observed_on ASC, id ASC`

	rows, err := db.Pool.Query(ctx, query, metric, segment)
	if err != nil {
		return nil, fmt.Errorf("Unable to query metric observations: %w", err)
	}

	defer rows.Close()

	var observations []dataset.MetricRow
	for rows.Next() {
		var row dataset.MetricRow

		if err := rows.Scan(&row.Date, &row.Metric, &row.Segment, &row.Value); err != nil {
			return nil, fmt.Errorf("Failed to scan observation: %w", err)
		}

		observations = append(observations, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return observations, nil
}

// InsertObservations bulk-loads metric rows, used by the sample-data seeder.
func (db *DB) InsertObservations(ctx context.Context, observations []dataset.MetricRow) error {
	query := `
	INSERT INTO metric_observations (observed_on, metric, segment, value)
	VALUES ($1, $2, $3, $4)`

	for _, row := range observations {
		if _, err := db.Pool.Exec(ctx, query, row.Date, row.Metric, row.Segment, row.Value); err != nil {
			return fmt.Errorf("Failed to insert observation for %s/%s: %w", row.Metric, row.Segment, err)
		}
	}

	return nil
}

// KnowledgeEntry is a persisted knowledge-base record with its distance to
// the query vector.
type KnowledgeEntry struct {
	ID         string
	Text       string
	Metric     string
	Segment    string
	TimeWindow string
	Value      float64
	Change     *float64
	Distance   float64
}

// SemanticSearch returns the closest knowledge entries by cosine distance.
func (db *DB) SemanticSearch(ctx context.Context, queryEmbedding []float32, limit int) ([]KnowledgeEntry, error) {
	vector := pgvector.NewVector(queryEmbedding)

	query := `
	SELECT
	  id,
	  text,
	  metric,
	  segment,
	  time_window,
	  value,
	  change,
	  embedding <=> $1 AS distance
	FROM knowledge_entries
	ORDER BY distance ASC
	LIMIT $2`

	rows, err := db.Pool.Query(ctx, query, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("Unable to query knowledge entries: %w", err)
	}

	defer rows.Close()

	var entries []KnowledgeEntry
	for rows.Next() {
		var entry KnowledgeEntry

		if err := rows.Scan(&entry.ID, &entry.Text, &entry.Metric, &entry.Segment, &entry.TimeWindow, &entry.Value, &entry.Change, &entry.Distance); err != nil {
			return nil, fmt.Errorf("Failed to scan knowledge entry: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// CountKnowledge returns the number of persisted knowledge entries.
func (db *DB) CountKnowledge(ctx context.Context) (int, error) {
	var count int
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM knowledge_entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("Unable to count knowledge entries: %w", err)
	}

	return count, nil
}

// InsertKnowledge stores one knowledge entry with its embedding.
func (db *DB) InsertKnowledge(ctx context.Context, entry KnowledgeEntry, embedding []float32) error {
	query := `
	INSERT INTO knowledge_entries (id, text, metric, segment, time_window, value, change, embedding)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := db.Pool.Exec(ctx, query,
		entry.ID,
		entry.Text,
		entry.Metric,
		entry.Segment,
		entry.TimeWindow,
		entry.Value,
		entry.Change,
		pgvector.NewVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("Failed to insert knowledge entry: %w", err)
	}

	return nil
}
