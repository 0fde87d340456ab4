package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/agents"
	"github.com/sahoo-tech/RAG/internal/api"
	"github.com/sahoo-tech/RAG/internal/api/middleware"
	"github.com/sahoo-tech/RAG/internal/config"
	"github.com/sahoo-tech/RAG/internal/dataset"
	"github.com/sahoo-tech/RAG/internal/embedding"
	"github.com/sahoo-tech/RAG/internal/engine"
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

// setupTestAPI builds the full pipeline on the in-memory stores and the
// deterministic hashing oracle, so these tests need no external services.
func setupTestAPI(t *testing.T) *restful.Container {
	t.Helper()

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

	explainer := response.NewExplainer(logger)
	eng := engine.New(
		query.NewClassifier(logger),
		query.NewDecomposer(logger),
		coordinator,
		orchestrator,
		confidence,
		response.NewBuilder(logger),
		explainer,
		logger,
	)

	handler := api.NewHandler(eng, semantic, explainer, logger)

	container := restful.NewContainer()
	api.RegisterRoutes(container, handler)
	return container
}

type failingEngine struct{}

func (failingEngine) ProcessQuery(_ context.Context, _ string, _ bool) (*engine.Outcome, error) {
	return nil, errors.New("decomposition exploded")
}

func setupFailingAPI(t *testing.T) *restful.Container {
	t.Helper()

	logger := nopLogger()
	semantic := retrieval.NewSemanticRetriever(embedding.NewHashingEmbedder(), 0.7, logger)
	handler := api.NewHandler(failingEngine{}, semantic, response.NewExplainer(logger), logger)

	container := restful.NewContainer()
	api.RegisterRoutes(container, handler)
	return container
}

func postJSON(t *testing.T, container *restful.Container, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)
	return recorder
}

func TestAPI_Root(t *testing.T) {
	container := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	var root api.RootResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &root); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if root.Message != "RAG++ Analytical Reasoning Engine" {
		t.Errorf("unexpected message: %q", root.Message)
	}
	if root.Version != "1.0.0" {
		t.Errorf("unexpected version: %q", root.Version)
	}
	if root.Status != "running" {
		t.Errorf("unexpected status: %q", root.Status)
	}
}

func TestAPI_Health(t *testing.T) {
	container := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	var health api.HealthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &health); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if health.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %q", health.Status)
	}
	if health.Version != "1.0.0" {
		t.Errorf("unexpected version: %q", health.Version)
	}
	if health.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}

	for _, component := range []string{"classifier", "decomposer", "retrieval", "agents", "scoring"} {
		up, ok := health.Components[component]
		if !ok {
			t.Errorf("missing component %q", component)
			continue
		}
		if !up {
			t.Errorf("expected component %q to be up", component)
		}
	}
}

func TestAPI_Query_FullPipeline(t *testing.T) {
	container := setupTestAPI(t)

	recorder := postJSON(t, container, "/api/v1/query", api.QueryRequest{
		Query: "How has revenue changed over the last 3 months?",
	})

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", recorder.Code, recorder.Body.String())
	}

	var queryResponse api.QueryResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &queryResponse); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if !queryResponse.Success {
		t.Fatalf("expected success, got error %q", queryResponse.Error)
	}
	if queryResponse.Response == nil {
		t.Fatal("expected a final response")
	}
	if queryResponse.Explainability != nil {
		t.Error("expected no explainability when not requested")
	}

	if queryResponse.Response.Query != "How has revenue changed over the last 3 months?" {
		t.Errorf("unexpected query echo: %q", queryResponse.Response.Query)
	}
	if !strings.Contains(queryResponse.Response.Answer, "Based on the available data:") {
		t.Errorf("unexpected answer: %q", queryResponse.Response.Answer)
	}
	if queryResponse.Response.Confidence.ConfidenceLevel != models.ConfidenceHigh {
		t.Errorf("expected %s, got %s",
			models.ConfidenceHigh, queryResponse.Response.Confidence.ConfidenceLevel)
	}
	if queryResponse.Response.EvidenceCount < 1 {
		t.Errorf("expected validated evidence, got count %d", queryResponse.Response.EvidenceCount)
	}
}

func TestAPI_Query_Explainability(t *testing.T) {
	container := setupTestAPI(t)

	maxEvidence := 1
	recorder := postJSON(t, container, "/api/v1/query", api.QueryRequest{
		Query:                 "How has revenue changed over the last 3 months?",
		IncludeExplainability: true,
		MaxEvidence:           &maxEvidence,
	})

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", recorder.Code, recorder.Body.String())
	}

	var queryResponse api.QueryResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &queryResponse); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if !queryResponse.Success {
		t.Fatalf("expected success, got error %q", queryResponse.Error)
	}
	if queryResponse.Explainability == nil {
		t.Fatal("expected explainability output")
	}

	steps := queryResponse.Explainability.ReasoningSteps
	if len(steps) != 5 {
		t.Fatalf("expected 5 reasoning steps, got %d: %v", len(steps), steps)
	}
	if steps[0] != "1. Classified query as trend_analysis" {
		t.Errorf("unexpected first step: %q", steps[0])
	}
	if steps[1] != "2. Decomposed into 2 sub-questions" {
		t.Errorf("unexpected second step: %q", steps[1])
	}

	// max_evidence caps only the returned list, never the validated count.
	if len(queryResponse.Explainability.EvidenceObjects) != 1 {
		t.Errorf("expected evidence capped at 1, got %d",
			len(queryResponse.Explainability.EvidenceObjects))
	}
	if queryResponse.Response.EvidenceCount < 1 {
		t.Errorf("expected validated evidence count, got %d", queryResponse.Response.EvidenceCount)
	}
}

func TestAPI_Query_TooShort(t *testing.T) {
	container := setupTestAPI(t)

	recorder := postJSON(t, container, "/api/v1/query", api.QueryRequest{Query: "hi"})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", recorder.Code)
	}

	var errorResponse middleware.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &errorResponse); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if errorResponse.Error != "query must be at least 5 characters" {
		t.Errorf("unexpected error: %q", errorResponse.Error)
	}
	if errorResponse.Status != http.StatusBadRequest {
		t.Errorf("expected status field 400, got %d", errorResponse.Status)
	}
}

func TestAPI_Query_MalformedBody(t *testing.T) {
	container := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", recorder.Code)
	}
}

func TestAPI_Query_PipelineFailure(t *testing.T) {
	container := setupFailingAPI(t)

	recorder := postJSON(t, container, "/api/v1/query", api.QueryRequest{
		Query: "How has revenue changed over the last 3 months?",
	})

	// Pipeline failures are reported in the envelope, not as HTTP errors.
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	var queryResponse api.QueryResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &queryResponse); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if queryResponse.Success {
		t.Error("expected success=false")
	}
	if queryResponse.Response != nil {
		t.Errorf("expected no response payload, got %+v", queryResponse.Response)
	}
	if !strings.Contains(queryResponse.Error, "decomposition exploded") {
		t.Errorf("unexpected error: %q", queryResponse.Error)
	}
}

func TestAPI_Explain(t *testing.T) {
	container := setupTestAPI(t)

	// Explainability is forced even when the request does not ask for it.
	recorder := postJSON(t, container, "/api/v1/explain", api.QueryRequest{
		Query: "How has revenue changed over the last 3 months?",
	})

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", recorder.Code, recorder.Body.String())
	}

	var explainResponse api.ExplainResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &explainResponse); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if !explainResponse.Success {
		t.Fatalf("expected success, got error %q", explainResponse.Error)
	}
	if explainResponse.ExplainabilityData == nil {
		t.Fatal("expected explainability data")
	}
	if len(explainResponse.ExplainabilityData.ReasoningSteps) != 5 {
		t.Errorf("expected 5 reasoning steps, got %d",
			len(explainResponse.ExplainabilityData.ReasoningSteps))
	}

	for _, section := range []string{
		"## Query Decomposition",
		"## Evidence Collected",
		"## Agent Execution",
		"## Validation",
		"## Confidence Assessment",
		"## Reasoning Steps",
	} {
		if !strings.Contains(explainResponse.ExplainabilityText, section) {
			t.Errorf("expected section %q in explainability text", section)
		}
	}
	if !strings.Contains(explainResponse.ExplainabilityText, "Intent: trend_analysis") {
		t.Errorf("expected intent line in explainability text: %q", explainResponse.ExplainabilityText)
	}
}

func TestAPI_AddKnowledge(t *testing.T) {
	container := setupTestAPI(t)

	change := -2.5
	recorder := postJSON(t, container, "/api/v1/knowledge", api.KnowledgeRequest{
		Text:       "Churn rate declined to 3% for premium subscribers over the last month",
		Metric:     "churn",
		Segment:    "premium",
		TimeWindow: "last_30_days",
		Value:      0.03,
		Change:     &change,
	})

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", recorder.Code, recorder.Body.String())
	}

	var knowledgeResponse api.KnowledgeResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &knowledgeResponse); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if !knowledgeResponse.Success {
		t.Error("expected success")
	}
	// Five seed entries plus the appended one.
	if knowledgeResponse.Entries != 6 {
		t.Errorf("expected 6 entries, got %d", knowledgeResponse.Entries)
	}
}

func TestAPI_AddKnowledge_EmptyText(t *testing.T) {
	container := setupTestAPI(t)

	recorder := postJSON(t, container, "/api/v1/knowledge", api.KnowledgeRequest{Text: "   "})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", recorder.Code)
	}

	var errorResponse middleware.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &errorResponse); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if errorResponse.Error != "knowledge text is required" {
		t.Errorf("unexpected error: %q", errorResponse.Error)
	}
}
