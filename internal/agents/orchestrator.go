package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/models"
)

// OrchestrationResult aggregates everything the four stages produced.
// ValidatedEvidence is the evidence inside Validation, surfaced for callers
// that only need the survivors.
type OrchestrationResult struct {
	FinalAnswer         string
	EvidenceReferences  []string
	AgentResponses      []models.AgentResponse
	Validation          ValidationOutput
	ValidatedEvidence   []models.EvidenceObject
	Insights            []string
	Comparisons         []Comparison
	Patterns            []string
	OrchestrationTimeMS float64
}

// Orchestrator runs the reasoning stages strictly in order. Narration sees
// only evidence the validator accepted.
type Orchestrator struct {
	retriever *RetrieverAgent
	analyst   *AnalystAgent
	validator *ValidatorAgent
	narrator  Narrator
	logger    *zerolog.Logger
}

func NewOrchestrator(
	retriever *RetrieverAgent,
	analyst *AnalystAgent,
	validator *ValidatorAgent,
	narrator Narrator,
	logger *zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		retriever: retriever,
		analyst:   analyst,
		validator: validator,
		narrator:  narrator,
		logger:    logger,
	}
}

// Orchestrate runs retriever, analyst, validator, and narrator over the raw
// evidence and returns the combined result.
func (o *Orchestrator) Orchestrate(
	ctx context.Context,
	query string,
	intent models.AnalyticalIntent,
	evidence []models.EvidenceObject,
) (*OrchestrationResult, error) {
	start := time.Now()

	o.logger.Info().Str("query", truncate(query, 50)).Msg("Agent orchestration started")

	responses := make([]models.AgentResponse, 0, 4)

	retrieval, response, err := o.retriever.Process(ctx, evidence)
	if err != nil {
		return nil, fmt.Errorf("Unable to run retriever agent: %w", err)
	}
	responses = append(responses, response)

	analysis, response := o.analyst.Process(retrieval.DeduplicatedEvidence, intent)
	responses = append(responses, response)

	validation, response := o.validator.Process(retrieval.DeduplicatedEvidence, analysis.Insights)
	responses = append(responses, response)

	narration, response := o.narrator.Narrate(ctx, NarrationInput{
		Query:       query,
		Evidence:    validation.ValidationResult.ValidatedEvidence,
		Insights:    analysis.Insights,
		Comparisons: analysis.Comparisons,
		Patterns:    analysis.Patterns,
	})
	responses = append(responses, response)

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	o.logger.Info().
		Float64("total_time_ms", elapsed).
		Int("agents_executed", len(responses)).
		Msg("Agent orchestration complete")

	return &OrchestrationResult{
		FinalAnswer:         narration.Answer,
		EvidenceReferences:  narration.EvidenceReferences,
		AgentResponses:      responses,
		Validation:          validation,
		ValidatedEvidence:   validation.ValidationResult.ValidatedEvidence,
		Insights:            analysis.Insights,
		Comparisons:         analysis.Comparisons,
		Patterns:            analysis.Patterns,
		OrchestrationTimeMS: elapsed,
	}, nil
}
