// Package scoring grades collected evidence: coverage measures how much of
// the decomposed query the evidence addresses, completeness measures the
// quality of the evidence itself, and the classifier folds both into a
// confidence level for the final answer.
package scoring

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/models"
)

// CoverageScorer measures how many of the requirements extracted from the
// sub-questions are addressed by at least one evidence object.
type CoverageScorer struct {
	logger *zerolog.Logger
}

func NewCoverageScorer(logger *zerolog.Logger) *CoverageScorer {
	return &CoverageScorer{logger: logger}
}

// ComputeCoverage returns the fraction of requirements covered, in [0, 1].
// Every required metric, every required segment other than the catch-all
// "all", and every time window counts as one requirement; a requirement is
// covered when it appears as a case-insensitive substring of the matching
// field of any evidence object. No sub-questions, or sub-questions with no
// requirements, mean there is nothing to cover and score 1.0.
func (s *CoverageScorer) ComputeCoverage(evidence []models.EvidenceObject, subQuestions []models.SubQuestion) float64 {
	if len(subQuestions) == 0 {
		return 1.0
	}

	var total, covered int
	for _, subQuestion := range subQuestions {
		for _, metric := range subQuestion.RequiredMetrics {
			total++
			if anyFieldContains(evidence, metric, func(e models.EvidenceObject) string { return e.Metric }) {
				covered++
			}
		}
		for _, segment := range subQuestion.RequiredSegments {
			if segment == "all" {
				continue
			}
			total++
			if anyFieldContains(evidence, segment, func(e models.EvidenceObject) string { return e.Segment }) {
				covered++
			}
		}
		for _, window := range subQuestion.TimeWindows {
			total++
			if anyFieldContains(evidence, window, func(e models.EvidenceObject) string { return e.TimeWindow }) {
				covered++
			}
		}
	}

	if total == 0 {
		return 1.0
	}

	coverage := float64(covered) / float64(total)

	s.logger.Info().
		Int("covered", covered).
		Int("total", total).
		Float64("score", coverage).
		Msg("Coverage score computed")

	return coverage
}

func anyFieldContains(evidence []models.EvidenceObject, requirement string, field func(models.EvidenceObject) string) bool {
	needle := strings.ToLower(requirement)
	for _, e := range evidence {
		if strings.Contains(strings.ToLower(field(e)), needle) {
			return true
		}
	}
	return false
}
