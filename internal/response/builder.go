// Package response assembles the final answer envelope and the
// explainability report returned to API clients.
package response

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/models"
)

// Builder assembles FinalResponse envelopes and renders confidence-labelled
// answers.
type Builder struct {
	logger *zerolog.Logger
}

func NewBuilder(logger *zerolog.Logger) *Builder {
	return &Builder{logger: logger}
}

// BuildResponse stamps the answer with its confidence, evidence count and
// processing time.
func (b *Builder) BuildResponse(
	query string,
	answer string,
	confidence models.ConfidenceScore,
	evidence []models.EvidenceObject,
	processingTimeMS float64,
) models.FinalResponse {
	response := models.FinalResponse{
		Query:            query,
		Answer:           answer,
		Confidence:       confidence,
		EvidenceCount:    len(evidence),
		ProcessingTimeMS: processingTimeMS,
		Timestamp:        time.Now().UTC(),
	}

	b.logger.Info().
		Str("query", truncate(query, 50)).
		Int("evidence_count", response.EvidenceCount).
		Str("confidence_level", string(confidence.ConfidenceLevel)).
		Msg("Response built")

	return response
}

// FormatAnswerWithConfidence appends a confidence footer to the answer.
func (b *Builder) FormatAnswerWithConfidence(answer string, confidence models.ConfidenceScore) string {
	var sb strings.Builder
	sb.WriteString(answer)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "**Confidence Level**: %s\n", levelLabel(confidence.ConfidenceLevel))
	fmt.Fprintf(&sb, "**Reasoning**: %s\n", confidence.Reasoning)
	fmt.Fprintf(&sb, "**Coverage Score**: %s\n", percent(confidence.CoverageScore))
	fmt.Fprintf(&sb, "**Completeness Score**: %s", percent(confidence.CompletenessScore))
	return sb.String()
}

// levelLabel renders a confidence level for display: underscores become
// spaces and every word is capitalized, so "high_confidence" reads
// "High Confidence".
func levelLabel(level models.ConfidenceLevel) string {
	words := strings.Split(string(level), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// percent renders a ratio as a percentage with two decimals.
func percent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
