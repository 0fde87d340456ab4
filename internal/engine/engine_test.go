package engine

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/sahoo-tech/RAG/internal/agents"
	"github.com/sahoo-tech/RAG/internal/config"
	"github.com/sahoo-tech/RAG/internal/dataset"
	"github.com/sahoo-tech/RAG/internal/embedding"
	"github.com/sahoo-tech/RAG/internal/engine/mocks"
	"github.com/sahoo-tech/RAG/internal/evidence"
	"github.com/sahoo-tech/RAG/internal/models"
	"github.com/sahoo-tech/RAG/internal/query"
	"github.com/sahoo-tech/RAG/internal/response"
	"github.com/sahoo-tech/RAG/internal/retrieval"
	"github.com/sahoo-tech/RAG/internal/scoring"
)

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func sampleDecomposition(t *testing.T, queryText string) *models.QueryDecomposition {
	t.Helper()

	subQuestions := []models.SubQuestion{
		{
			Question:         "What is the current value of revenue?",
			RequiredMetrics:  []string{"revenue"},
			RequiredSegments: []string{"all"},
			TimeWindows:      []string{"last_3_months"},
		},
		{
			Question:         "How has revenue changed over last_3_months?",
			RequiredMetrics:  []string{"revenue"},
			RequiredSegments: []string{"all"},
			TimeWindows:      []string{"last_3_months"},
		},
	}

	decomposition, err := models.NewQueryDecomposition(
		queryText, models.IntentTrendAnalysis, subQuestions, []int{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return decomposition
}

// sampleEvidence returns a raw retrieval set and the subset that survives
// validation. Keeping them distinct lets the tests verify which set each
// stage receives.
func sampleEvidence() (raw, validated []models.EvidenceObject) {
	raw = []models.EvidenceObject{
		{
			Metric:     "revenue",
			Segment:    "enterprise",
			TimeWindow: "last_3_months",
			Value:      125000,
			Support:    "Revenue grew steadily for enterprise customers",
			Source:     models.SourceStructured,
			Confidence: 0.9,
		},
		{
			Metric:     "revenue",
			Segment:    "consumer",
			TimeWindow: "last_3_months",
			Value:      48000,
			Support:    "Consumer revenue held flat across the quarter",
			Source:     models.SourceStructured,
			Confidence: 0.85,
		},
		{
			Metric:     "revenue",
			Segment:    "consumer",
			TimeWindow: "last_3_months",
			Value:      47000,
			Support:    "dup",
			Source:     models.SourceSemantic,
			Confidence: 0.4,
		},
	}
	return raw, raw[:2]
}

func sampleOrchestration(validated []models.EvidenceObject) *agents.OrchestrationResult {
	return &agents.OrchestrationResult{
		FinalAnswer:        "Based on the available data: revenue is growing.",
		EvidenceReferences: []string{"revenue (enterprise): 125000.00"},
		AgentResponses: []models.AgentResponse{
			{AgentName: "RetrieverAgent"},
			{AgentName: "AnalystAgent"},
			{AgentName: "ValidatorAgent"},
			{AgentName: "NarratorAgent"},
		},
		Validation: agents.ValidationOutput{
			ValidationResult: models.ValidationResult{
				IsValid:           false,
				Issues:            []string{"Evidence 2: Support text is too short or empty"},
				ValidatedEvidence: validated,
			},
			ValidEvidenceCount:   len(validated),
			InvalidEvidenceCount: 1,
		},
		ValidatedEvidence:   validated,
		OrchestrationTimeMS: 4.2,
	}
}

func sampleScore() models.ConfidenceScore {
	return models.ConfidenceScore{
		CoverageScore:     1.0,
		CompletenessScore: 0.75,
		OverallConfidence: 0.9,
		ConfidenceLevel:   models.ConfidenceHigh,
		Reasoning:         "Strong evidence coverage and high data completeness",
	}
}

func TestEngine_ProcessQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	const queryText = "How has revenue changed over the last 3 months?"
	decomposition := sampleDecomposition(t, queryText)
	raw, validated := sampleEvidence()
	orchestration := sampleOrchestration(validated)
	score := sampleScore()

	mockClassifier := mocks.NewMockQueryClassifier(ctrl)
	mockDecomposer := mocks.NewMockQueryDecomposer(ctrl)
	mockRetriever := mocks.NewMockEvidenceRetriever(ctrl)
	mockPipeline := mocks.NewMockReasoningPipeline(ctrl)
	mockConfidence := mocks.NewMockConfidenceClassifier(ctrl)

	// The argument expectations pin the wiring: orchestration runs on the
	// raw retrieval set, confidence scoring on the validated set.
	mockClassifier.EXPECT().Classify(queryText).Return(models.IntentTrendAnalysis)
	mockDecomposer.EXPECT().Decompose(queryText, models.IntentTrendAnalysis).Return(decomposition, nil)
	mockRetriever.EXPECT().Retrieve(gomock.Any(), decomposition.SubQuestions).
		Return(&models.RetrievalResult{
			EvidenceObjects: raw,
			RetrievalTimeMS: 12.5,
			SourcesUsed:     []string{models.SourceStructured, models.SourceSemantic},
		})
	mockPipeline.EXPECT().Orchestrate(gomock.Any(), queryText, models.IntentTrendAnalysis, raw).
		Return(orchestration, nil)
	mockConfidence.EXPECT().Classify(validated, decomposition.SubQuestions).Return(score)

	eng := New(
		mockClassifier, mockDecomposer, mockRetriever, mockPipeline, mockConfidence,
		response.NewBuilder(nopLogger()), response.NewExplainer(nopLogger()), nopLogger())

	outcome, err := eng.ProcessQuery(context.Background(), queryText, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Response.Query != queryText {
		t.Errorf("expected query %q, got %q", queryText, outcome.Response.Query)
	}

	if outcome.Response.Answer != orchestration.FinalAnswer {
		t.Errorf("expected answer %q, got %q", orchestration.FinalAnswer, outcome.Response.Answer)
	}

	if !reflect.DeepEqual(outcome.EvidenceReferences, orchestration.EvidenceReferences) {
		t.Errorf("expected references %v, got %v", orchestration.EvidenceReferences, outcome.EvidenceReferences)
	}

	if outcome.Response.Confidence != score {
		t.Errorf("expected confidence %+v, got %+v", score, outcome.Response.Confidence)
	}

	if outcome.Response.EvidenceCount != len(validated) {
		t.Errorf("expected evidence count %d, got %d", len(validated), outcome.Response.EvidenceCount)
	}

	if outcome.Response.Timestamp.IsZero() {
		t.Error("expected a timestamp on the response")
	}

	if outcome.Explainability != nil {
		t.Errorf("expected no explainability output, got %+v", outcome.Explainability)
	}
}

func TestEngine_ProcessQuery_Explainability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	const queryText = "How has revenue changed over the last 3 months?"
	decomposition := sampleDecomposition(t, queryText)
	raw, validated := sampleEvidence()
	orchestration := sampleOrchestration(validated)
	score := sampleScore()

	mockClassifier := mocks.NewMockQueryClassifier(ctrl)
	mockDecomposer := mocks.NewMockQueryDecomposer(ctrl)
	mockRetriever := mocks.NewMockEvidenceRetriever(ctrl)
	mockPipeline := mocks.NewMockReasoningPipeline(ctrl)
	mockConfidence := mocks.NewMockConfidenceClassifier(ctrl)

	mockClassifier.EXPECT().Classify(queryText).Return(models.IntentTrendAnalysis)
	mockDecomposer.EXPECT().Decompose(queryText, models.IntentTrendAnalysis).Return(decomposition, nil)
	mockRetriever.EXPECT().Retrieve(gomock.Any(), decomposition.SubQuestions).
		Return(&models.RetrievalResult{EvidenceObjects: raw})
	mockPipeline.EXPECT().Orchestrate(gomock.Any(), queryText, models.IntentTrendAnalysis, raw).
		Return(orchestration, nil)
	mockConfidence.EXPECT().Classify(validated, decomposition.SubQuestions).Return(score)

	eng := New(
		mockClassifier, mockDecomposer, mockRetriever, mockPipeline, mockConfidence,
		response.NewBuilder(nopLogger()), response.NewExplainer(nopLogger()), nopLogger())

	outcome, err := eng.ProcessQuery(context.Background(), queryText, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Explainability == nil {
		t.Fatal("expected explainability output")
	}

	wantSteps := []string{
		"1. Classified query as trend_analysis",
		"2. Decomposed into 2 sub-questions",
		"3. Retrieved 3 evidence objects",
		"4. Validated 2 evidence objects",
		"5. Generated final answer with high_confidence confidence",
	}
	if !reflect.DeepEqual(outcome.Explainability.ReasoningSteps, wantSteps) {
		t.Errorf("expected steps %v, got %v", wantSteps, outcome.Explainability.ReasoningSteps)
	}

	if !reflect.DeepEqual(outcome.Explainability.QueryDecomposition, *decomposition) {
		t.Errorf("expected decomposition %+v, got %+v", *decomposition, outcome.Explainability.QueryDecomposition)
	}

	if !reflect.DeepEqual(outcome.Explainability.EvidenceObjects, validated) {
		t.Errorf("expected validated evidence in explainability, got %+v", outcome.Explainability.EvidenceObjects)
	}

	if !reflect.DeepEqual(outcome.Explainability.ValidationResult, orchestration.Validation.ValidationResult) {
		t.Errorf("expected validation result %+v, got %+v",
			orchestration.Validation.ValidationResult, outcome.Explainability.ValidationResult)
	}

	if outcome.Explainability.ConfidenceDetails != score {
		t.Errorf("expected confidence details %+v, got %+v", score, outcome.Explainability.ConfidenceDetails)
	}

	if len(outcome.Explainability.AgentResponses) != 4 {
		t.Errorf("expected 4 agent responses, got %d", len(outcome.Explainability.AgentResponses))
	}
}

func TestEngine_ProcessQuery_DecompositionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	const queryText = "Why did churn spike last week?"
	boundary := errors.New("no sub-questions generated")

	mockClassifier := mocks.NewMockQueryClassifier(ctrl)
	mockDecomposer := mocks.NewMockQueryDecomposer(ctrl)

	mockClassifier.EXPECT().Classify(queryText).Return(models.IntentAnomalyExplanation)
	mockDecomposer.EXPECT().Decompose(queryText, models.IntentAnomalyExplanation).Return(nil, boundary)

	// The remaining stages carry no expectations, so any call to them
	// fails the test.
	eng := New(
		mockClassifier, mockDecomposer,
		mocks.NewMockEvidenceRetriever(ctrl),
		mocks.NewMockReasoningPipeline(ctrl),
		mocks.NewMockConfidenceClassifier(ctrl),
		response.NewBuilder(nopLogger()), response.NewExplainer(nopLogger()), nopLogger())

	outcome, err := eng.ProcessQuery(context.Background(), queryText, false)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, boundary) {
		t.Errorf("expected wrapped %v, got %v", boundary, err)
	}
	if !strings.Contains(err.Error(), "Unable to decompose query") {
		t.Errorf("unexpected error message: %v", err)
	}
	if outcome != nil {
		t.Errorf("expected nil outcome, got %+v", outcome)
	}
}

func TestEngine_ProcessQuery_OrchestrationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	const queryText = "How has revenue changed over the last 3 months?"
	decomposition := sampleDecomposition(t, queryText)
	raw, _ := sampleEvidence()
	boundary := errors.New("deduplication failed")

	mockClassifier := mocks.NewMockQueryClassifier(ctrl)
	mockDecomposer := mocks.NewMockQueryDecomposer(ctrl)
	mockRetriever := mocks.NewMockEvidenceRetriever(ctrl)
	mockPipeline := mocks.NewMockReasoningPipeline(ctrl)

	mockClassifier.EXPECT().Classify(queryText).Return(models.IntentTrendAnalysis)
	mockDecomposer.EXPECT().Decompose(queryText, models.IntentTrendAnalysis).Return(decomposition, nil)
	mockRetriever.EXPECT().Retrieve(gomock.Any(), decomposition.SubQuestions).
		Return(&models.RetrievalResult{EvidenceObjects: raw})
	mockPipeline.EXPECT().Orchestrate(gomock.Any(), queryText, models.IntentTrendAnalysis, raw).
		Return(nil, boundary)

	eng := New(
		mockClassifier, mockDecomposer, mockRetriever, mockPipeline,
		mocks.NewMockConfidenceClassifier(ctrl),
		response.NewBuilder(nopLogger()), response.NewExplainer(nopLogger()), nopLogger())

	outcome, err := eng.ProcessQuery(context.Background(), queryText, false)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, boundary) {
		t.Errorf("expected wrapped %v, got %v", boundary, err)
	}
	if !strings.Contains(err.Error(), "Unable to orchestrate agents") {
		t.Errorf("unexpected error message: %v", err)
	}
	if outcome != nil {
		t.Errorf("expected nil outcome, got %+v", outcome)
	}
}

// TestEngine_ProcessQuery_FullPipeline runs the real components end to end
// over the built-in sample data, with the deterministic hashing oracle.
func TestEngine_ProcessQuery_FullPipeline(t *testing.T) {
	ctx := context.Background()
	logger := nopLogger()

	embedder := embedding.NewHashingEmbedder()
	semantic := retrieval.NewSemanticRetriever(embedder, 0.7, logger)
	if err := retrieval.SeedSampleKnowledge(ctx, semantic); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	structured := retrieval.NewStructuredRetriever(dataset.NewMemoryStore(dataset.SampleRows()), logger)
	analyzer := retrieval.NewStatisticalAnalyzer(config.StatisticsConfig{MinSampleSize: 30, ZScoreCutoff: 2.0}, logger)
	coordinator := retrieval.NewCoordinator(semantic, structured, analyzer, 5, 50, logger)

	orchestrator := agents.NewOrchestrator(
		agents.NewRetrieverAgent(evidence.NewDeduplicator(embedder, 0.9, logger), logger),
		agents.NewAnalystAgent(logger),
		agents.NewValidatorAgent(agents.NewEvidenceValidator(0.3), logger),
		agents.NewTemplateNarrator(logger),
		logger,
	)

	confidence := scoring.NewConfidenceClassifier(
		config.ConfidenceConfig{HighThreshold: 0.8, PartialThreshold: 0.5}, logger)

	eng := New(
		query.NewClassifier(logger),
		query.NewDecomposer(logger),
		coordinator,
		orchestrator,
		confidence,
		response.NewBuilder(logger),
		response.NewExplainer(logger),
		logger,
	)

	const queryText = "How has revenue changed over the last 3 months?"
	outcome, err := eng.ProcessQuery(ctx, queryText, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Response.Query != queryText {
		t.Errorf("expected query %q, got %q", queryText, outcome.Response.Query)
	}

	// Structured evidence for the revenue metric covers every requirement
	// of both sub-questions, so coverage is total and the grade is high.
	if outcome.Response.Confidence.CoverageScore != 1.0 {
		t.Errorf("expected coverage 1.0, got %v", outcome.Response.Confidence.CoverageScore)
	}
	if outcome.Response.Confidence.ConfidenceLevel != models.ConfidenceHigh {
		t.Errorf("expected %s, got %s", models.ConfidenceHigh, outcome.Response.Confidence.ConfidenceLevel)
	}

	if !strings.Contains(outcome.Response.Answer, "Based on the available data:") {
		t.Errorf("unexpected answer: %q", outcome.Response.Answer)
	}
	if !strings.Contains(outcome.Response.Answer, "evidence objects from multiple sources.") {
		t.Errorf("expected evidence summary line in answer: %q", outcome.Response.Answer)
	}

	if outcome.Response.EvidenceCount < 1 {
		t.Errorf("expected validated evidence, got count %d", outcome.Response.EvidenceCount)
	}
	if len(outcome.EvidenceReferences) == 0 {
		t.Error("expected evidence references for the validated evidence")
	}
	for _, reference := range outcome.EvidenceReferences {
		if !strings.Contains(reference, "revenue") {
			t.Errorf("unexpected reference %q", reference)
		}
	}

	if outcome.Explainability == nil {
		t.Fatal("expected explainability output")
	}
	if len(outcome.Explainability.EvidenceObjects) != outcome.Response.EvidenceCount {
		t.Errorf("expected %d evidence objects in explainability, got %d",
			outcome.Response.EvidenceCount, len(outcome.Explainability.EvidenceObjects))
	}

	steps := outcome.Explainability.ReasoningSteps
	if len(steps) != 5 {
		t.Fatalf("expected 5 reasoning steps, got %d: %v", len(steps), steps)
	}
	if steps[0] != "1. Classified query as trend_analysis" {
		t.Errorf("unexpected first step: %q", steps[0])
	}
	if steps[1] != "2. Decomposed into 2 sub-questions" {
		t.Errorf("unexpected second step: %q", steps[1])
	}
	if !strings.HasPrefix(steps[2], "3. Retrieved ") {
		t.Errorf("unexpected third step: %q", steps[2])
	}
	if !strings.HasPrefix(steps[3], "4. Validated ") {
		t.Errorf("unexpected fourth step: %q", steps[3])
	}
	if steps[4] != "5. Generated final answer with high_confidence confidence" {
		t.Errorf("unexpected fifth step: %q", steps[4])
	}

	wantAgents := []string{"RetrieverAgent", "AnalystAgent", "ValidatorAgent", "NarratorAgent"}
	if len(outcome.Explainability.AgentResponses) != len(wantAgents) {
		t.Fatalf("expected %d agent responses, got %d", len(wantAgents), len(outcome.Explainability.AgentResponses))
	}
	for i, want := range wantAgents {
		if outcome.Explainability.AgentResponses[i].AgentName != want {
			t.Errorf("expected agent %q at position %d, got %q",
				want, i, outcome.Explainability.AgentResponses[i].AgentName)
		}
	}
}
