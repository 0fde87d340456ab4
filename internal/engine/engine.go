// Package engine wires the full query pipeline: classification,
// decomposition, retrieval, agent reasoning, confidence scoring and
// response assembly.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/agents"
	"github.com/sahoo-tech/RAG/internal/models"
	"github.com/sahoo-tech/RAG/internal/response"
)

//go:generate mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks

// QueryClassifier assigns an analytical intent to a raw query.
type QueryClassifier interface {
	Classify(query string) models.AnalyticalIntent
}

// QueryDecomposer splits a query into retrievable sub-questions.
type QueryDecomposer interface {
	Decompose(query string, intent models.AnalyticalIntent) (*models.QueryDecomposition, error)
}

// EvidenceRetriever collects evidence for the decomposed sub-questions.
type EvidenceRetriever interface {
	Retrieve(ctx context.Context, subQuestions []models.SubQuestion) *models.RetrievalResult
}

// ReasoningPipeline runs the agent stages over raw evidence.
type ReasoningPipeline interface {
	Orchestrate(ctx context.Context, query string, intent models.AnalyticalIntent, evidence []models.EvidenceObject) (*agents.OrchestrationResult, error)
}

// ConfidenceClassifier grades validated evidence against the sub-questions.
type ConfidenceClassifier interface {
	Classify(evidence []models.EvidenceObject, subQuestions []models.SubQuestion) models.ConfidenceScore
}

// Outcome is the result of one pipeline run. Explainability is nil unless
// the caller asked for it.
type Outcome struct {
	Response           models.FinalResponse         `json:"response"`
	EvidenceReferences []string                     `json:"evidence_references"`
	Explainability     *models.ExplainabilityOutput `json:"explainability,omitempty"`
}

// Engine executes the pipeline stages strictly in order. Each run is
// independent; the engine holds no per-query state.
type Engine struct {
	classifier QueryClassifier
	decomposer QueryDecomposer
	retriever  EvidenceRetriever
	pipeline   ReasoningPipeline
	confidence ConfidenceClassifier
	builder    *response.Builder
	explainer  *response.Explainer
	logger     *zerolog.Logger
}

func New(
	classifier QueryClassifier,
	decomposer QueryDecomposer,
	retriever EvidenceRetriever,
	pipeline ReasoningPipeline,
	confidence ConfidenceClassifier,
	builder *response.Builder,
	explainer *response.Explainer,
	logger *zerolog.Logger,
) *Engine {
	return &Engine{
		classifier: classifier,
		decomposer: decomposer,
		retriever:  retriever,
		pipeline:   pipeline,
		confidence: confidence,
		builder:    builder,
		explainer:  explainer,
		logger:     logger,
	}
}

// ProcessQuery runs the full pipeline for one query. Confidence is always
// computed over the evidence that survived validation, never the raw
// retrieval set.
func (e *Engine) ProcessQuery(ctx context.Context, query string, includeExplainability bool) (*Outcome, error) {
	start := time.Now()

	e.logger.Info().Str("query", truncate(query, 100)).Msg("Processing query")

	intent := e.classifier.Classify(query)

	decomposition, err := e.decomposer.Decompose(query, intent)
	if err != nil {
		return nil, fmt.Errorf("Unable to decompose query: %w", err)
	}

	retrievalResult := e.retriever.Retrieve(ctx, decomposition.SubQuestions)

	orchestration, err := e.pipeline.Orchestrate(ctx, query, intent, retrievalResult.EvidenceObjects)
	if err != nil {
		return nil, fmt.Errorf("Unable to orchestrate agents: %w", err)
	}

	confidence := e.confidence.Classify(orchestration.ValidatedEvidence, decomposition.SubQuestions)

	totalMS := float64(time.Since(start).Microseconds()) / 1000.0
	finalResponse := e.builder.BuildResponse(
		query, orchestration.FinalAnswer, confidence, orchestration.ValidatedEvidence, totalMS)

	outcome := &Outcome{
		Response:           finalResponse,
		EvidenceReferences: orchestration.EvidenceReferences,
	}

	if includeExplainability {
		steps := []string{
			fmt.Sprintf("1. Classified query as %s", intent),
			fmt.Sprintf("2. Decomposed into %d sub-questions", len(decomposition.SubQuestions)),
			fmt.Sprintf("3. Retrieved %d evidence objects", len(retrievalResult.EvidenceObjects)),
			fmt.Sprintf("4. Validated %d evidence objects", len(orchestration.ValidatedEvidence)),
			fmt.Sprintf("5. Generated final answer with %s confidence", confidence.ConfidenceLevel),
		}
		explainability := e.explainer.GenerateExplainability(
			*decomposition,
			orchestration.ValidatedEvidence,
			orchestration.AgentResponses,
			orchestration.Validation.ValidationResult,
			confidence,
			steps,
		)
		outcome.Explainability = &explainability
	}

	e.logger.Info().
		Str("query", truncate(query, 50)).
		Str("confidence", string(confidence.ConfidenceLevel)).
		Float64("time_ms", totalMS).
		Msg("Query processed successfully")

	return outcome, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
