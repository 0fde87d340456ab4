// Package api exposes the analytical pipeline over REST: query execution,
// explainability reports, knowledge-base appends and health.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/api/middleware"
	"github.com/sahoo-tech/RAG/internal/engine"
	"github.com/sahoo-tech/RAG/internal/evidence"
	"github.com/sahoo-tech/RAG/internal/response"
	"github.com/sahoo-tech/RAG/internal/retrieval"
)

const (
	serviceName    = "RAG++ Analytical Reasoning Engine"
	serviceVersion = "1.0.0"

	minQueryLength = 5
)

// QueryProcessor runs one query through the full pipeline.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, query string, includeExplainability bool) (*engine.Outcome, error)
}

// KnowledgeStore accepts new knowledge entries for semantic retrieval.
type KnowledgeStore interface {
	AddKnowledge(ctx context.Context, text string, meta retrieval.KnowledgeMeta) error
	Size() int
}

type Handler struct {
	engine    QueryProcessor
	knowledge KnowledgeStore
	explainer *response.Explainer
	logger    *zerolog.Logger
}

func NewHandler(engine QueryProcessor, knowledge KnowledgeStore, explainer *response.Explainer, logger *zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		knowledge: knowledge,
		explainer: explainer,
		logger:    logger,
	}
}

// POST /api/v1/query
// Body: QueryRequest
// Returns: QueryResponse
func (h *Handler) Query(req *restful.Request, resp *restful.Response) {
	queryRequest, ok := h.readQueryRequest(req, resp)
	if !ok {
		return
	}

	ctx := req.Request.Context()
	outcome, err := h.engine.ProcessQuery(ctx, queryRequest.Query, queryRequest.IncludeExplainability)
	if err != nil {
		h.logger.Error().Err(err).Msg("Query processing failed")
		resp.WriteHeaderAndEntity(http.StatusOK, QueryResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	capEvidence(outcome, queryRequest.MaxEvidence)

	resp.WriteHeaderAndEntity(http.StatusOK, QueryResponse{
		Success:        true,
		Response:       &outcome.Response,
		Explainability: outcome.Explainability,
	})
}

// POST /api/v1/explain
// Body: QueryRequest; explainability is always generated.
func (h *Handler) Explain(req *restful.Request, resp *restful.Response) {
	queryRequest, ok := h.readQueryRequest(req, resp)
	if !ok {
		return
	}

	ctx := req.Request.Context()
	outcome, err := h.engine.ProcessQuery(ctx, queryRequest.Query, true)
	if err != nil {
		h.logger.Error().Err(err).Msg("Query processing failed")
		resp.WriteHeaderAndEntity(http.StatusOK, ExplainResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	capEvidence(outcome, queryRequest.MaxEvidence)

	resp.WriteHeaderAndEntity(http.StatusOK, ExplainResponse{
		Success:            true,
		ExplainabilityText: h.explainer.FormatExplainabilityText(*outcome.Explainability),
		ExplainabilityData: outcome.Explainability,
	})
}

// POST /api/v1/knowledge
func (h *Handler) AddKnowledge(req *restful.Request, resp *restful.Response) {
	var knowledgeRequest KnowledgeRequest
	if err := req.ReadEntity(&knowledgeRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(knowledgeRequest.Text) == "" {
		middleware.HandleError(resp, errors.New("knowledge text is required"), http.StatusBadRequest)
		return
	}

	ctx := req.Request.Context()
	err := h.knowledge.AddKnowledge(ctx, knowledgeRequest.Text, retrieval.KnowledgeMeta{
		Metric:     knowledgeRequest.Metric,
		Segment:    knowledgeRequest.Segment,
		TimeWindow: knowledgeRequest.TimeWindow,
		Value:      knowledgeRequest.Value,
		Change:     knowledgeRequest.Change,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Knowledge append failed")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	h.logger.Info().Int("entries", h.knowledge.Size()).Msg("Knowledge entry added")

	resp.WriteHeaderAndEntity(http.StatusOK, KnowledgeResponse{
		Success: true,
		Entries: h.knowledge.Size(),
	})
}

// GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Components: map[string]bool{
			"classifier": true,
			"decomposer": true,
			"retrieval":  true,
			"agents":     true,
			"scoring":    true,
		},
		Version: serviceVersion,
	})
}

// GET /
func (h *Handler) Root(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, RootResponse{
		Message: serviceName,
		Version: serviceVersion,
		Status:  "running",
	})
}

// readQueryRequest parses and validates the shared query body. A false return
// means the rejection has already been written.
func (h *Handler) readQueryRequest(req *restful.Request, resp *restful.Response) (QueryRequest, bool) {
	var queryRequest QueryRequest
	if err := req.ReadEntity(&queryRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return QueryRequest{}, false
	}

	if len(queryRequest.Query) < minQueryLength {
		middleware.HandleError(resp,
			errors.New("query must be at least 5 characters"), http.StatusBadRequest)
		return QueryRequest{}, false
	}

	return queryRequest, true
}

// capEvidence trims the explainability evidence list to the requested
// maximum. Identity duplicates collapse first so the capped list spans as
// many distinct observations as possible. The response keeps the full
// validated count; only the returned list shrinks.
func capEvidence(outcome *engine.Outcome, maxEvidence *int) {
	if maxEvidence == nil || *maxEvidence <= 0 || outcome.Explainability == nil {
		return
	}
	objects := outcome.Explainability.EvidenceObjects
	if len(objects) <= *maxEvidence {
		return
	}
	objects = evidence.MergeByIdentity(objects)
	if len(objects) > *maxEvidence {
		objects = objects[:*maxEvidence]
	}
	outcome.Explainability.EvidenceObjects = objects
}
