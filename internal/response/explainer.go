package response

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/models"
)

// Explainer collects the per-stage records of a pipeline run into an
// auditable report.
type Explainer struct {
	logger *zerolog.Logger
}

func NewExplainer(logger *zerolog.Logger) *Explainer {
	return &Explainer{logger: logger}
}

// GenerateExplainability bundles the pipeline's typed stage records.
func (e *Explainer) GenerateExplainability(
	decomposition models.QueryDecomposition,
	evidence []models.EvidenceObject,
	agentResponses []models.AgentResponse,
	validation models.ValidationResult,
	confidence models.ConfidenceScore,
	reasoningSteps []string,
) models.ExplainabilityOutput {
	output := models.ExplainabilityOutput{
		QueryDecomposition: decomposition,
		EvidenceObjects:    evidence,
		AgentResponses:     agentResponses,
		ValidationResult:   validation,
		ConfidenceDetails:  confidence,
		ReasoningSteps:     reasoningSteps,
	}

	e.logger.Info().
		Int("evidence_count", len(evidence)).
		Int("agent_count", len(agentResponses)).
		Int("reasoning_steps", len(reasoningSteps)).
		Msg("Explainability output generated")

	return output
}

// FormatExplainabilityText renders the report as markdown-ish sections.
func (e *Explainer) FormatExplainabilityText(output models.ExplainabilityOutput) string {
	var sections []string

	sections = append(sections, "## Query Decomposition")
	sections = append(sections, fmt.Sprintf("Intent: %s", output.QueryDecomposition.Intent))
	sections = append(sections, fmt.Sprintf("Sub-questions: %d", len(output.QueryDecomposition.SubQuestions)))

	sections = append(sections, "\n## Evidence Collected")
	sections = append(sections, fmt.Sprintf("Total evidence objects: %d", len(output.EvidenceObjects)))
	sections = append(sections, fmt.Sprintf("Sources: %s", strings.Join(distinctSources(output.EvidenceObjects), ", ")))

	sections = append(sections, "\n## Agent Execution")
	for _, response := range output.AgentResponses {
		sections = append(sections, fmt.Sprintf("- %s: %.2fms", response.AgentName, response.ProcessingTimeMS))
	}

	sections = append(sections, "\n## Validation")
	sections = append(sections, fmt.Sprintf("Valid: %t", output.ValidationResult.IsValid))
	if len(output.ValidationResult.Issues) > 0 {
		sections = append(sections, fmt.Sprintf("Issues: %d", len(output.ValidationResult.Issues)))
	}

	sections = append(sections, "\n## Confidence Assessment")
	sections = append(sections, fmt.Sprintf("Level: %s", output.ConfidenceDetails.ConfidenceLevel))
	sections = append(sections, fmt.Sprintf("Coverage: %s", percent(output.ConfidenceDetails.CoverageScore)))
	sections = append(sections, fmt.Sprintf("Completeness: %s", percent(output.ConfidenceDetails.CompletenessScore)))

	sections = append(sections, "\n## Reasoning Steps")
	for i, step := range output.ReasoningSteps {
		sections = append(sections, fmt.Sprintf("%d. %s", i+1, step))
	}

	return strings.Join(sections, "\n")
}

// distinctSources lists the evidence sources in first-seen order.
func distinctSources(evidence []models.EvidenceObject) []string {
	seen := make(map[string]bool, 3)
	var sources []string
	for _, e := range evidence {
		if !seen[e.Source] {
			seen[e.Source] = true
			sources = append(sources, e.Source)
		}
	}
	return sources
}
