package retrieval

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sahoo-tech/RAG/internal/embedding"
	"github.com/sahoo-tech/RAG/internal/models"
)

// KnowledgeMeta carries the structured fields attached to a knowledge entry.
// Empty strings fall back to "unknown" (metric, time window) or "all"
// (segment) when the entry is turned into evidence.
type KnowledgeMeta struct {
	Metric     string
	Segment    string
	TimeWindow string
	Value      float64
	Change     *float64
}

type knowledgeEntry struct {
	text string
	meta KnowledgeMeta
}

// SemanticRetriever ranks an in-memory knowledge base against a sub-question
// by cosine similarity and keeps the top-k entries above the threshold.
type SemanticRetriever struct {
	embedder  embedding.Embedder
	threshold float64
	logger    *zerolog.Logger

	mu         sync.RWMutex
	entries    []knowledgeEntry
	embeddings [][]float32
}

func NewSemanticRetriever(embedder embedding.Embedder, threshold float64, logger *zerolog.Logger) *SemanticRetriever {
	return &SemanticRetriever{
		embedder:  embedder,
		threshold: threshold,
		logger:    logger,
	}
}

// AddKnowledge stores an entry and recomputes the embedding matrix.
func (r *SemanticRetriever) AddKnowledge(ctx context.Context, text string, meta KnowledgeMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, knowledgeEntry{text: text, meta: meta})
	return r.recomputeLocked(ctx)
}

// Size reports the number of stored knowledge entries.
func (r *SemanticRetriever) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *SemanticRetriever) recomputeLocked(ctx context.Context) error {
	if len(r.entries) == 0 {
		return nil
	}

	texts := make([]string, len(r.entries))
	for i, entry := range r.entries {
		texts[i] = entry.text
	}

	embeddings, err := r.embedder.GenerateBatchEmbeddings(ctx, texts)
	if err != nil {
		return err
	}
	r.embeddings = embeddings

	r.logger.Info().Int("count", len(texts)).Msg("Embeddings computed")
	return nil
}

// Retrieve returns up to topK evidence objects whose knowledge text scores at
// or above the similarity threshold against the sub-question. Ties rank the
// earlier entry first.
func (r *SemanticRetriever) Retrieve(ctx context.Context, subQuestion models.SubQuestion, topK int) ([]models.EvidenceObject, error) {
	start := time.Now()

	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.entries) == 0 || r.embeddings == nil {
		r.logger.Warn().Msg("No knowledge base available for semantic retrieval")
		return nil, nil
	}

	queryEmbedding, err := r.embedder.GenerateEmbeddings(ctx, subQuestion.Question)
	if err != nil {
		return nil, err
	}

	similarities := make([]float64, len(r.embeddings))
	for i, emb := range r.embeddings {
		similarities[i] = embedding.CosineSimilarity(emb, queryEmbedding)
	}

	indices := make([]int, len(similarities))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return similarities[indices[a]] > similarities[indices[b]]
	})
	if topK < len(indices) {
		indices = indices[:topK]
	}

	var evidence []models.EvidenceObject
	for _, idx := range indices {
		if similarities[idx] < r.threshold {
			continue
		}
		entry := r.entries[idx]
		evidence = append(evidence, models.EvidenceObject{
			Metric:     orDefault(entry.meta.Metric, "unknown"),
			Segment:    orDefault(entry.meta.Segment, "all"),
			TimeWindow: orDefault(entry.meta.TimeWindow, "unknown"),
			Value:      entry.meta.Value,
			Change:     entry.meta.Change,
			Support:    entry.text,
			Source:     models.SourceSemantic,
			Confidence: similarities[idx],
		})
	}

	r.logger.Info().
		Str("query", truncate(subQuestion.Question, 50)).
		Int("retrieved", len(evidence)).
		Int64("time_ms", time.Since(start).Milliseconds()).
		Msg("Semantic retrieval complete")

	return evidence, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
