package agents

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/models"
)

const (
	validatorAgentName = "ValidatorAgent"
	validatorAgentRole = "Check logical consistency and flag unsupported claims"
)

// Support text shorter than this is considered meaningless.
const minSupportLength = 10

// EvidenceValidator checks individual evidence objects against minimum
// quality rules and cross-checks groups for conflicting values.
type EvidenceValidator struct {
	minConfidence float64
}

func NewEvidenceValidator(minConfidence float64) *EvidenceValidator {
	return &EvidenceValidator{minConfidence: minConfidence}
}

// ValidateEvidence returns the quality issues of a single evidence object.
// A nil result means the evidence passed every check.
func (v *EvidenceValidator) ValidateEvidence(e models.EvidenceObject) []string {
	var issues []string

	if strings.TrimSpace(e.Metric) == "" {
		issues = append(issues, "Metric name is empty")
	}
	if strings.TrimSpace(e.Segment) == "" {
		issues = append(issues, "Segment is empty")
	}
	if strings.TrimSpace(e.TimeWindow) == "" {
		issues = append(issues, "Time window is empty")
	}
	if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
		issues = append(issues, "Value is not a number")
	}
	if e.Confidence < v.minConfidence {
		issues = append(issues, fmt.Sprintf("Confidence %v below minimum %v", e.Confidence, v.minConfidence))
	}
	if len(e.Support) < minSupportLength {
		issues = append(issues, "Support text is too short or empty")
	}

	return issues
}

// ValidateEvidenceList splits the evidence into objects that passed and the
// issues of objects that did not, each issue prefixed with the input index
// of the evidence it belongs to.
func (v *EvidenceValidator) ValidateEvidenceList(evidence []models.EvidenceObject) ([]models.EvidenceObject, []string) {
	var valid []models.EvidenceObject
	var allIssues []string

	for idx, e := range evidence {
		issues := v.ValidateEvidence(e)
		if len(issues) == 0 {
			valid = append(valid, e)
			continue
		}
		for _, issue := range issues {
			allIssues = append(allIssues, fmt.Sprintf("Evidence %d: %s", idx, issue))
		}
	}

	return valid, allIssues
}

// CheckLogicalConsistency warns about (metric, segment) groups whose
// members disagree on the observed value.
func (v *EvidenceValidator) CheckLogicalConsistency(evidence []models.EvidenceObject) []string {
	type groupKey struct {
		metric  string
		segment string
	}

	groups := make(map[groupKey][]float64)
	var order []groupKey
	for _, e := range evidence {
		key := groupKey{metric: e.Metric, segment: e.Segment}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e.Value)
	}

	var warnings []string
	for _, key := range order {
		values := groups[key]
		if len(values) < 2 {
			continue
		}
		distinct := make(map[float64]bool, len(values))
		for _, value := range values {
			distinct[value] = true
		}
		if len(distinct) > 1 {
			warnings = append(warnings, fmt.Sprintf(
				"Conflicting values for %s in %s: %v", key.metric, key.segment, values))
		}
	}

	return warnings
}

// ValidatorAgent filters out low-quality evidence and collects warnings
// about inconsistencies and insights the evidence does not back.
type ValidatorAgent struct {
	validator *EvidenceValidator
	logger    *zerolog.Logger
}

func NewValidatorAgent(validator *EvidenceValidator, logger *zerolog.Logger) *ValidatorAgent {
	return &ValidatorAgent{validator: validator, logger: logger}
}

// Process validates the evidence and cross-checks the analyst's insights
// against the evidence that survived.
func (a *ValidatorAgent) Process(evidence []models.EvidenceObject, insights []string) (ValidationOutput, models.AgentResponse) {
	start := time.Now()

	a.logger.Info().Int("count", len(evidence)).Msg("ValidatorAgent: Validating evidence")

	validated, issues := a.validator.ValidateEvidenceList(evidence)

	warnings := a.validator.CheckLogicalConsistency(validated)
	warnings = append(warnings, validateInsights(insights, validated)...)

	output := ValidationOutput{
		ValidationResult: models.ValidationResult{
			IsValid:           len(issues) == 0,
			Issues:            issues,
			ValidatedEvidence: validated,
		},
		Warnings:             warnings,
		ValidEvidenceCount:   len(validated),
		InvalidEvidenceCount: len(evidence) - len(validated),
	}

	a.logger.Info().
		Int("valid", output.ValidEvidenceCount).
		Int("invalid", output.InvalidEvidenceCount).
		Int("warnings", len(warnings)).
		Msg("ValidatorAgent: Validation complete")

	return output, stageResponse(validatorAgentName, validatorAgentRole, output, time.Since(start))
}

// validateInsights warns about insights that mention none of the metrics
// present in the validated evidence.
func validateInsights(insights []string, evidence []models.EvidenceObject) []string {
	if len(evidence) == 0 {
		return nil
	}

	metrics := make(map[string]bool, len(evidence))
	for _, e := range evidence {
		metrics[e.Metric] = true
	}

	var warnings []string
	for _, insight := range insights {
		lower := strings.ToLower(insight)
		mentioned := false
		for metric := range metrics {
			if strings.Contains(lower, strings.ToLower(metric)) {
				mentioned = true
				break
			}
		}
		if !mentioned {
			warnings = append(warnings, fmt.Sprintf(
				"Insight may not be supported by evidence: '%s...'", truncate(insight, 50)))
		}
	}

	return warnings
}
