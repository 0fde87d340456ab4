package agents

import (
	"math"
	"reflect"
	"testing"

	"github.com/sahoo-tech/RAG/internal/models"
)

func validEvidence() models.EvidenceObject {
	return models.EvidenceObject{
		Metric:     "revenue",
		Segment:    "enterprise",
		TimeWindow: "last_7_days",
		Value:      125000,
		Support:    "Revenue grew for enterprise customers",
		Source:     models.SourceStructured,
		Confidence: 0.9,
	}
}

func TestValidateEvidenceAccepts(t *testing.T) {
	validator := NewEvidenceValidator(0.3)

	if issues := validator.ValidateEvidence(validEvidence()); len(issues) != 0 {
		t.Errorf("valid evidence flagged: %v", issues)
	}
}

func TestValidateEvidenceIssues(t *testing.T) {
	validator := NewEvidenceValidator(0.3)

	tests := []struct {
		name   string
		mutate func(*models.EvidenceObject)
		want   string
	}{
		{"empty metric", func(e *models.EvidenceObject) { e.Metric = "" }, "Metric name is empty"},
		{"blank metric", func(e *models.EvidenceObject) { e.Metric = "   " }, "Metric name is empty"},
		{"empty segment", func(e *models.EvidenceObject) { e.Segment = "" }, "Segment is empty"},
		{"empty window", func(e *models.EvidenceObject) { e.TimeWindow = "" }, "Time window is empty"},
		{"nan value", func(e *models.EvidenceObject) { e.Value = math.NaN() }, "Value is not a number"},
		{"infinite value", func(e *models.EvidenceObject) { e.Value = math.Inf(1) }, "Value is not a number"},
		{"low confidence", func(e *models.EvidenceObject) { e.Confidence = 0.2 }, "Confidence 0.2 below minimum 0.3"},
		{"short support", func(e *models.EvidenceObject) { e.Support = "too short" }, "Support text is too short or empty"},
		{"empty support", func(e *models.EvidenceObject) { e.Support = "" }, "Support text is too short or empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvidence()
			tt.mutate(&e)
			issues := validator.ValidateEvidence(e)
			if len(issues) != 1 || issues[0] != tt.want {
				t.Errorf("issues = %v, want [%q]", issues, tt.want)
			}
		})
	}
}

func TestValidateEvidenceListPrefixesIndex(t *testing.T) {
	validator := NewEvidenceValidator(0.3)

	bad := validEvidence()
	bad.Metric = ""

	valid, issues := validator.ValidateEvidenceList([]models.EvidenceObject{validEvidence(), bad})

	if len(valid) != 1 {
		t.Fatalf("valid count = %d, want 1", len(valid))
	}
	want := []string{"Evidence 1: Metric name is empty"}
	if !reflect.DeepEqual(issues, want) {
		t.Errorf("issues = %v, want %v", issues, want)
	}
}

func TestCheckLogicalConsistency(t *testing.T) {
	validator := NewEvidenceValidator(0.3)

	conflictA := validEvidence()
	conflictA.Value = 100
	conflictB := validEvidence()
	conflictB.Value = 200

	warnings := validator.CheckLogicalConsistency([]models.EvidenceObject{conflictA, conflictB})

	want := []string{"Conflicting values for revenue in enterprise: [100 200]"}
	if !reflect.DeepEqual(warnings, want) {
		t.Errorf("warnings = %v, want %v", warnings, want)
	}
}

func TestCheckLogicalConsistencyAgreementIsSilent(t *testing.T) {
	validator := NewEvidenceValidator(0.3)

	a := validEvidence()
	b := validEvidence()

	if warnings := validator.CheckLogicalConsistency([]models.EvidenceObject{a, b}); len(warnings) != 0 {
		t.Errorf("agreeing evidence warned: %v", warnings)
	}
}

func TestValidatorAgentProcess(t *testing.T) {
	agent := NewValidatorAgent(NewEvidenceValidator(0.3), nopLogger())

	bad := validEvidence()
	bad.Support = "tiny"

	output, response := agent.Process(
		[]models.EvidenceObject{validEvidence(), bad},
		[]string{"Average revenue: 125000.00"},
	)

	if output.ValidationResult.IsValid {
		t.Error("IsValid must be false when any evidence is rejected")
	}
	if output.ValidEvidenceCount != 1 || output.InvalidEvidenceCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", output.ValidEvidenceCount, output.InvalidEvidenceCount)
	}
	if len(output.ValidationResult.ValidatedEvidence) != 1 {
		t.Errorf("validated = %v", output.ValidationResult.ValidatedEvidence)
	}
	if response.AgentName != "ValidatorAgent" {
		t.Errorf("AgentName = %q", response.AgentName)
	}
}

func TestValidatorAgentAllValid(t *testing.T) {
	agent := NewValidatorAgent(NewEvidenceValidator(0.3), nopLogger())

	output, _ := agent.Process([]models.EvidenceObject{validEvidence()}, nil)

	if !output.ValidationResult.IsValid {
		t.Errorf("IsValid = false with issues %v", output.ValidationResult.Issues)
	}
}

func TestValidatorAgentFlagsUnsupportedInsight(t *testing.T) {
	agent := NewValidatorAgent(NewEvidenceValidator(0.3), nopLogger())

	output, _ := agent.Process(
		[]models.EvidenceObject{validEvidence()},
		[]string{"Average revenue: 125000.00", "Quantum flux is rising"},
	)

	want := "Insight may not be supported by evidence: 'Quantum flux is rising...'"
	if len(output.Warnings) != 1 || output.Warnings[0] != want {
		t.Errorf("warnings = %v, want [%q]", output.Warnings, want)
	}
}

func TestValidatorAgentNoInsightWarningsWithoutEvidence(t *testing.T) {
	agent := NewValidatorAgent(NewEvidenceValidator(0.3), nopLogger())

	output, _ := agent.Process(nil, []string{"Completely unrelated claim"})

	if len(output.Warnings) != 0 {
		t.Errorf("warnings = %v, want none without evidence", output.Warnings)
	}
}
