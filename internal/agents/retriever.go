package agents

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/models"
)

const (
	retrieverAgentName = "RetrieverAgent"
	retrieverAgentRole = "Collect and deduplicate evidence objects from retrieval layer"
)

// EvidenceDeduplicator removes exact and near-duplicate evidence.
type EvidenceDeduplicator interface {
	Deduplicate(ctx context.Context, evidence []models.EvidenceObject) ([]models.EvidenceObject, error)
}

// RetrieverAgent deduplicates raw evidence and orders it by confidence so
// downstream stages see the strongest evidence first.
type RetrieverAgent struct {
	deduplicator EvidenceDeduplicator
	logger       *zerolog.Logger
}

func NewRetrieverAgent(deduplicator EvidenceDeduplicator, logger *zerolog.Logger) *RetrieverAgent {
	return &RetrieverAgent{deduplicator: deduplicator, logger: logger}
}

// Process deduplicates the evidence and sorts the survivors by descending
// confidence. The sort is stable, so equally confident evidence keeps its
// arrival order.
func (a *RetrieverAgent) Process(ctx context.Context, evidence []models.EvidenceObject) (RetrievalOutput, models.AgentResponse, error) {
	start := time.Now()

	a.logger.Info().Int("count", len(evidence)).Msg("RetrieverAgent: Processing evidence")

	deduplicated, err := a.deduplicator.Deduplicate(ctx, evidence)
	if err != nil {
		return RetrievalOutput{}, models.AgentResponse{}, err
	}

	sort.SliceStable(deduplicated, func(i, j int) bool {
		return deduplicated[i].Confidence > deduplicated[j].Confidence
	})

	output := RetrievalOutput{
		DeduplicatedEvidence: deduplicated,
		OriginalCount:        len(evidence),
		DeduplicatedCount:    len(deduplicated),
		RemovedCount:         len(evidence) - len(deduplicated),
	}

	a.logger.Info().
		Int("original", output.OriginalCount).
		Int("deduplicated", output.DeduplicatedCount).
		Msg("RetrieverAgent: Processing complete")

	return output, stageResponse(retrieverAgentName, retrieverAgentRole, output, time.Since(start)), nil
}
