package response

import (
	"strings"
	"testing"

	"github.com/sahoo-tech/RAG/internal/models"
)

func sampleExplainability() models.ExplainabilityOutput {
	return models.ExplainabilityOutput{
		QueryDecomposition: models.QueryDecomposition{
			OriginalQuery: "How is revenue trending?",
			Intent:        models.IntentTrendAnalysis,
			SubQuestions: []models.SubQuestion{
				{Question: "What is the current value of revenue?"},
				{Question: "How has revenue changed over last_7_days?"},
			},
			PriorityOrder: []int{0, 1},
		},
		EvidenceObjects: []models.EvidenceObject{
			{Metric: "revenue", Source: models.SourceSemantic},
			{Metric: "revenue", Source: models.SourceStructured},
		},
		AgentResponses: []models.AgentResponse{
			{AgentName: "RetrieverAgent", ProcessingTimeMS: 1.25},
			{AgentName: "AnalystAgent", ProcessingTimeMS: 0.5},
		},
		ValidationResult: models.ValidationResult{IsValid: true},
		ConfidenceDetails: models.ConfidenceScore{
			CoverageScore:     1.0,
			CompletenessScore: 0.75,
			OverallConfidence: 0.9,
			ConfidenceLevel:   models.ConfidenceHigh,
			Reasoning:         "Strong evidence coverage and high data completeness",
		},
		ReasoningSteps: []string{
			"Classified query as trend_analysis",
			"Decomposed into 2 sub-questions",
		},
	}
}

func TestGenerateExplainabilityBundlesRecords(t *testing.T) {
	explainer := NewExplainer(nopLogger())
	want := sampleExplainability()

	got := explainer.GenerateExplainability(
		want.QueryDecomposition,
		want.EvidenceObjects,
		want.AgentResponses,
		want.ValidationResult,
		want.ConfidenceDetails,
		want.ReasoningSteps,
	)

	if len(got.EvidenceObjects) != 2 || len(got.AgentResponses) != 2 || len(got.ReasoningSteps) != 2 {
		t.Errorf("output = %+v", got)
	}
	if got.QueryDecomposition.Intent != models.IntentTrendAnalysis {
		t.Errorf("intent = %v", got.QueryDecomposition.Intent)
	}
}

func TestFormatExplainabilityText(t *testing.T) {
	explainer := NewExplainer(nopLogger())

	got := explainer.FormatExplainabilityText(sampleExplainability())

	want := strings.Join([]string{
		"## Query Decomposition",
		"Intent: trend_analysis",
		"Sub-questions: 2",
		"",
		"## Evidence Collected",
		"Total evidence objects: 2",
		"Sources: semantic, structured",
		"",
		"## Agent Execution",
		"- RetrieverAgent: 1.25ms",
		"- AnalystAgent: 0.50ms",
		"",
		"## Validation",
		"Valid: true",
		"",
		"## Confidence Assessment",
		"Level: high_confidence",
		"Coverage: 100.00%",
		"Completeness: 75.00%",
		"",
		"## Reasoning Steps",
		"1. Classified query as trend_analysis",
		"2. Decomposed into 2 sub-questions",
	}, "\n")

	if got != want {
		t.Errorf("formatted =\n%s\n\nwant\n%s", got, want)
	}
}

func TestFormatExplainabilityTextShowsIssueCount(t *testing.T) {
	explainer := NewExplainer(nopLogger())

	output := sampleExplainability()
	output.ValidationResult = models.ValidationResult{
		IsValid: false,
		Issues:  []string{"Evidence 0: Support text is too short or empty"},
	}

	got := explainer.FormatExplainabilityText(output)

	if !strings.Contains(got, "Valid: false") {
		t.Errorf("missing validity line:\n%s", got)
	}
	if !strings.Contains(got, "Issues: 1") {
		t.Errorf("missing issue count:\n%s", got)
	}
}

func TestFormatExplainabilityTextSourcesFirstSeen(t *testing.T) {
	explainer := NewExplainer(nopLogger())

	output := sampleExplainability()
	output.EvidenceObjects = []models.EvidenceObject{
		{Source: models.SourceStatistical},
		{Source: models.SourceSemantic},
		{Source: models.SourceStatistical},
	}

	got := explainer.FormatExplainabilityText(output)

	if !strings.Contains(got, "Sources: statistical, semantic") {
		t.Errorf("sources line wrong:\n%s", got)
	}
}
