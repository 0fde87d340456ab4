// Package agents implements the four-stage reasoning pipeline that turns
// retrieved evidence into a final narrative answer. The stages run strictly
// in order: retriever, analyst, validator, narrator. Each stage reports a
// models.AgentResponse recording its output and processing time, and later
// stages consume only what earlier stages produced.
package agents

import (
	"strings"
	"time"

	"github.com/sahoo-tech/RAG/internal/models"
)

// RetrievalOutput is the retriever stage result: deduplicated evidence
// ordered by descending confidence, plus bookkeeping counts.
type RetrievalOutput struct {
	DeduplicatedEvidence []models.EvidenceObject `json:"deduplicated_evidence"`
	OriginalCount        int                     `json:"original_count"`
	DeduplicatedCount    int                     `json:"deduplicated_count"`
	RemovedCount         int                     `json:"removed_count"`
}

// Comparison pairs two segments of the same metric. DifferencePct is nil
// when the first segment's mean is zero and no relative change is defined.
type Comparison struct {
	Metric        string   `json:"metric"`
	Segment1      string   `json:"segment1"`
	Segment2      string   `json:"segment2"`
	Value1        float64  `json:"value1"`
	Value2        float64  `json:"value2"`
	DifferencePct *float64 `json:"difference_pct"`
}

// AnalysisOutput is the analyst stage result.
type AnalysisOutput struct {
	Insights    []string     `json:"insights"`
	Comparisons []Comparison `json:"comparisons"`
	Patterns    []string     `json:"patterns"`
}

// ValidationOutput is the validator stage result. Warnings are advisory;
// only ValidationResult.Issues mark evidence as rejected.
type ValidationOutput struct {
	ValidationResult     models.ValidationResult `json:"validation_result"`
	Warnings             []string                `json:"warnings"`
	ValidEvidenceCount   int                     `json:"valid_evidence_count"`
	InvalidEvidenceCount int                     `json:"invalid_evidence_count"`
}

// NarrationOutput is the narrator stage result.
type NarrationOutput struct {
	Answer             string   `json:"answer"`
	EvidenceReferences []string `json:"evidence_references"`
}

// stageResponse wraps a stage's output in the uniform response envelope.
func stageResponse(name, role string, output any, elapsed time.Duration) models.AgentResponse {
	return models.AgentResponse{
		AgentName:        name,
		Output:           output,
		ProcessingTimeMS: float64(elapsed.Microseconds()) / 1000.0,
		Metadata: map[string]any{
			"role":      role,
			"timestamp": time.Now().UTC(),
		},
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
