package models

import (
	"time"
)

type AnalyticalIntent string

const (
	IntentTrendAnalysis      AnalyticalIntent = "trend_analysis"
	IntentSegmentation       AnalyticalIntent = "segmentation"
	IntentComparison         AnalyticalIntent = "comparison"
	IntentAnomalyExplanation AnalyticalIntent = "anomaly_explanation"
	IntentDescriptiveSummary AnalyticalIntent = "descriptive_summary"
)

type ConfidenceLevel string

const (
	ConfidenceHigh         ConfidenceLevel = "high_confidence"
	ConfidencePartial      ConfidenceLevel = "partial_evidence"
	ConfidenceInsufficient ConfidenceLevel = "insufficient_data"
)

// Evidence sources
const (
	SourceSemantic    = "semantic"
	SourceStructured  = "structured"
	SourceStatistical = "statistical"
)

// One unit of retrieved or derived evidence. Treated as immutable once
// it passes validation; Change is nil when no delta is known.
type EvidenceObject struct {
	Metric     string   `json:"metric" jsonschema:"required,description=Name of the metric"`
	Segment    string   `json:"segment" jsonschema:"required,description=Segment or cohort definition"`
	TimeWindow string   `json:"time_window" jsonschema:"required,description=Time range for this evidence"`
	Value      float64  `json:"value" jsonschema:"required,description=Observed value"`
	Change     *float64 `json:"change,omitempty" jsonschema:"description=Delta or trend value"`
	Support    string   `json:"support" jsonschema:"required,description=Supporting observation or context"`
	Source     string   `json:"source" jsonschema:"required,description=Source of evidence (semantic/structured/statistical)"`
	Confidence float64  `json:"confidence" jsonschema:"description=Confidence in this evidence between 0 and 1"`
}

// A decomposed sub-question. Read-only after construction.
type SubQuestion struct {
	Question            string   `json:"question"`
	RequiredMetrics     []string `json:"required_metrics"`
	RequiredSegments    []string `json:"required_segments"`
	TimeWindows         []string `json:"time_windows"`
	ContributingFactors []string `json:"contributing_factors"`
}

type QueryDecomposition struct {
	OriginalQuery string           `json:"original_query"`
	Intent        AnalyticalIntent `json:"intent"`
	SubQuestions  []SubQuestion    `json:"sub_questions"`
	PriorityOrder []int            `json:"priority_order"`
}

// NewQueryDecomposition enforces the priority-order invariant at construction.
func NewQueryDecomposition(query string, intent AnalyticalIntent, subQuestions []SubQuestion, priorityOrder []int) (*QueryDecomposition, error) {
	if len(priorityOrder) != len(subQuestions) {
		return nil, &ValidationError{Field: "priority_order", Reason: "priority order must match number of sub-questions"}
	}
	return &QueryDecomposition{
		OriginalQuery: query,
		Intent:        intent,
		SubQuestions:  subQuestions,
		PriorityOrder: priorityOrder,
	}, nil
}

type RetrievalResult struct {
	EvidenceObjects []EvidenceObject `json:"evidence_objects"`
	RetrievalTimeMS float64          `json:"retrieval_time_ms"`
	SourcesUsed     []string         `json:"sources_used"`
}

// Audit record emitted by each pipeline stage, accumulated in arrival order.
type AgentResponse struct {
	AgentName        string         `json:"agent_name"`
	Output           any            `json:"output"`
	ProcessingTimeMS float64        `json:"processing_time_ms"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

type ValidationResult struct {
	IsValid           bool             `json:"is_valid"`
	Issues            []string         `json:"issues"`
	ValidatedEvidence []EvidenceObject `json:"validated_evidence"`
}

type ConfidenceScore struct {
	CoverageScore     float64         `json:"coverage_score"`
	CompletenessScore float64         `json:"completeness_score"`
	OverallConfidence float64         `json:"overall_confidence"`
	ConfidenceLevel   ConfidenceLevel `json:"confidence_level"`
	Reasoning         string          `json:"reasoning"`
}

// Final answer returned to callers.
type FinalResponse struct {
	Query            string          `json:"query"`
	Answer           string          `json:"answer"`
	Confidence       ConfidenceScore `json:"confidence"`
	EvidenceCount    int             `json:"evidence_count"`
	ProcessingTimeMS float64         `json:"processing_time_ms"`
	Timestamp        time.Time       `json:"timestamp"`
}

type ExplainabilityOutput struct {
	QueryDecomposition QueryDecomposition `json:"query_decomposition"`
	EvidenceObjects    []EvidenceObject   `json:"evidence_objects"`
	AgentResponses     []AgentResponse    `json:"agent_responses"`
	ValidationResult   ValidationResult   `json:"validation_result"`
	ConfidenceDetails  ConfidenceScore    `json:"confidence_details"`
	ReasoningSteps     []string           `json:"reasoning_steps"`
}

// QueryMessage is the payload published to the query stream.
type QueryMessage struct {
	RequestID             string `json:"request_id,omitempty"`
	Query                 string `json:"query"`
	IncludeExplainability bool   `json:"include_explainability"`
}
