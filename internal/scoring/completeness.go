package scoring

import (
	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/models"
)

// Per-evidence completeness weights. They sum to 1.0 for fully populated
// evidence at confidence 1.0.
const (
	changeWeight     = 0.3
	confidenceWeight = 0.4
	supportWeight    = 0.3
)

// Support text longer than this counts as substantive.
const substantiveSupportLength = 20

// CompletenessScorer measures the quality of the evidence itself,
// independent of the query it answers.
type CompletenessScorer struct {
	logger *zerolog.Logger
}

func NewCompletenessScorer(logger *zerolog.Logger) *CompletenessScorer {
	return &CompletenessScorer{logger: logger}
}

// ComputeCompleteness returns the mean per-evidence quality score in [0, 1].
// Each evidence object earns weight for carrying a change value, for its
// confidence, and for substantive support text. No evidence scores 0.0.
func (s *CompletenessScorer) ComputeCompleteness(evidence []models.EvidenceObject) float64 {
	if len(evidence) == 0 {
		return 0.0
	}

	var sum float64
	for _, e := range evidence {
		score := e.Confidence * confidenceWeight
		if e.Change != nil {
			score += changeWeight
		}
		if len(e.Support) > substantiveSupportLength {
			score += supportWeight
		}
		sum += score
	}

	completeness := sum / float64(len(evidence))

	s.logger.Info().
		Int("evidence_count", len(evidence)).
		Float64("score", completeness).
		Msg("Completeness score computed")

	return completeness
}
