package retrieval

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sahoo-tech/RAG/internal/database"
	"github.com/sahoo-tech/RAG/internal/embedding"
)

// KnowledgeRepository is the write surface of the knowledge table.
type KnowledgeRepository interface {
	InsertKnowledge(ctx context.Context, entry database.KnowledgeEntry, embedding []float32) error
	CountKnowledge(ctx context.Context) (int, error)
}

// PGKnowledgeStore persists knowledge entries to the pgvector-backed table.
// It serves the same AddKnowledge/Size surface as the in-memory retriever.
type PGKnowledgeStore struct {
	repo     KnowledgeRepository
	embedder embedding.Embedder
	logger   *zerolog.Logger
}

func NewPGKnowledgeStore(repo KnowledgeRepository, embedder embedding.Embedder, logger *zerolog.Logger) *PGKnowledgeStore {
	return &PGKnowledgeStore{
		repo:     repo,
		embedder: embedder,
		logger:   logger,
	}
}

func (s *PGKnowledgeStore) AddKnowledge(ctx context.Context, text string, meta KnowledgeMeta) error {
	vector, err := s.embedder.GenerateEmbeddings(ctx, text)
	if err != nil {
		return err
	}

	entry := database.KnowledgeEntry{
		ID:         uuid.NewString(),
		Text:       text,
		Metric:     meta.Metric,
		Segment:    meta.Segment,
		TimeWindow: meta.TimeWindow,
		Value:      meta.Value,
		Change:     meta.Change,
	}

	return s.repo.InsertKnowledge(ctx, entry, vector)
}

// Size reports the persisted entry count. A failed count is logged and
// reported as zero so callers never block on it.
func (s *PGKnowledgeStore) Size() int {
	count, err := s.repo.CountKnowledge(context.Background())
	if err != nil {
		s.logger.Warn().Err(err).Msg("Unable to count knowledge entries")
		return 0
	}

	return count
}
