package retrieval

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sahoo-tech/RAG/internal/database"
	"github.com/sahoo-tech/RAG/internal/embedding"
	"github.com/sahoo-tech/RAG/internal/models"
)

// KnowledgeSearcher is the vector search surface of the knowledge table.
type KnowledgeSearcher interface {
	SemanticSearch(ctx context.Context, queryEmbedding []float32, limit int) ([]database.KnowledgeEntry, error)
}

// PGSemanticRetriever serves semantic retrieval from the pgvector-backed
// knowledge table instead of the in-memory knowledge base. Cosine distance
// from the index is mapped to similarity as 1-distance and filtered against
// the same threshold the in-memory retriever uses.
type PGSemanticRetriever struct {
	searcher  KnowledgeSearcher
	embedder  embedding.Embedder
	threshold float64
	logger    *zerolog.Logger
}

func NewPGSemanticRetriever(searcher KnowledgeSearcher, embedder embedding.Embedder, threshold float64, logger *zerolog.Logger) *PGSemanticRetriever {
	return &PGSemanticRetriever{
		searcher:  searcher,
		embedder:  embedder,
		threshold: threshold,
		logger:    logger,
	}
}

func (r *PGSemanticRetriever) Retrieve(ctx context.Context, subQuestion models.SubQuestion, topK int) ([]models.EvidenceObject, error) {
	start := time.Now()

	queryEmbedding, err := r.embedder.GenerateEmbeddings(ctx, subQuestion.Question)
	if err != nil {
		return nil, err
	}

	entries, err := r.searcher.SemanticSearch(ctx, queryEmbedding, topK)
	if err != nil {
		return nil, err
	}

	var evidence []models.EvidenceObject
	for _, entry := range entries {
		similarity := 1 - entry.Distance
		if similarity < r.threshold {
			continue
		}
		evidence = append(evidence, models.EvidenceObject{
			Metric:     orDefault(entry.Metric, "unknown"),
			Segment:    orDefault(entry.Segment, "all"),
			TimeWindow: orDefault(entry.TimeWindow, "unknown"),
			Value:      entry.Value,
			Change:     entry.Change,
			Support:    entry.Text,
			Source:     models.SourceSemantic,
			Confidence: similarity,
		})
	}

	r.logger.Info().
		Str("query", truncate(subQuestion.Question, 50)).
		Int("retrieved", len(evidence)).
		Int64("time_ms", time.Since(start).Milliseconds()).
		Msg("Semantic retrieval complete")

	return evidence, nil
}
