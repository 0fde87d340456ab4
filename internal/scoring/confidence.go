package scoring

import (
	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/config"
	"github.com/sahoo-tech/RAG/internal/models"
)

// Weights of the overall confidence score. Coverage carries the larger
// share.
const (
	coverageShare     = 0.6
	completenessShare = 0.4
)

// ConfidenceClassifier folds coverage and completeness into the confidence
// level attached to the final answer.
type ConfidenceClassifier struct {
	coverage         *CoverageScorer
	completeness     *CompletenessScorer
	highThreshold    float64
	partialThreshold float64
	logger           *zerolog.Logger
}

func NewConfidenceClassifier(cfg config.ConfidenceConfig, logger *zerolog.Logger) *ConfidenceClassifier {
	return &ConfidenceClassifier{
		coverage:         NewCoverageScorer(logger),
		completeness:     NewCompletenessScorer(logger),
		highThreshold:    cfg.HighThreshold,
		partialThreshold: cfg.PartialThreshold,
		logger:           logger,
	}
}

// Classify scores the validated evidence against the sub-questions and maps
// the weighted overall score onto a confidence level. Both thresholds are
// inclusive.
func (c *ConfidenceClassifier) Classify(evidence []models.EvidenceObject, subQuestions []models.SubQuestion) models.ConfidenceScore {
	coverage := c.coverage.ComputeCoverage(evidence, subQuestions)
	completeness := c.completeness.ComputeCompleteness(evidence)

	overall := coverage*coverageShare + completeness*completenessShare

	var level models.ConfidenceLevel
	var reasoning string
	switch {
	case overall >= c.highThreshold:
		level = models.ConfidenceHigh
		reasoning = "Strong evidence coverage and high data completeness"
	case overall >= c.partialThreshold:
		level = models.ConfidencePartial
		reasoning = "Partial evidence coverage or moderate data completeness"
	default:
		level = models.ConfidenceInsufficient
		reasoning = "Insufficient evidence coverage or low data completeness"
	}

	c.logger.Info().
		Float64("coverage", coverage).
		Float64("completeness", completeness).
		Float64("overall", overall).
		Str("level", string(level)).
		Msg("Confidence classified")

	return models.ConfidenceScore{
		CoverageScore:     coverage,
		CompletenessScore: completeness,
		OverallConfidence: overall,
		ConfidenceLevel:   level,
		Reasoning:         reasoning,
	}
}
