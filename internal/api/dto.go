package api

import (
	"time"

	"github.com/sahoo-tech/RAG/internal/models"
)

// QueryRequest is the body of POST /query and POST /explain.
type QueryRequest struct {
	Query                 string `json:"query" description:"User's analytical query, at least 5 characters"`
	IncludeExplainability bool   `json:"include_explainability" description:"Include explainability output"`
	MaxEvidence           *int   `json:"max_evidence,omitempty" description:"Maximum evidence objects to return"`
}

// QueryResponse wraps a pipeline run. Pipeline failures report success=false
// with the error message; they are not HTTP errors.
type QueryResponse struct {
	Success        bool                         `json:"success"`
	Response       *models.FinalResponse        `json:"response,omitempty"`
	Explainability *models.ExplainabilityOutput `json:"explainability,omitempty"`
	Error          string                       `json:"error,omitempty"`
}

// ExplainResponse is the body of POST /explain: the rendered explainability
// report plus the raw bundle it was rendered from.
type ExplainResponse struct {
	Success            bool                         `json:"success"`
	ExplainabilityText string                       `json:"explainability_text,omitempty"`
	ExplainabilityData *models.ExplainabilityOutput `json:"explainability_data,omitempty"`
	Error              string                       `json:"error,omitempty"`
}

// KnowledgeRequest appends one entry to the semantic knowledge base.
type KnowledgeRequest struct {
	Text       string   `json:"text" description:"Knowledge text, embedded for similarity search"`
	Metric     string   `json:"metric,omitempty"`
	Segment    string   `json:"segment,omitempty"`
	TimeWindow string   `json:"time_window,omitempty"`
	Value      float64  `json:"value,omitempty"`
	Change     *float64 `json:"change,omitempty"`
}

// KnowledgeResponse reports the knowledge base size after the append.
type KnowledgeResponse struct {
	Success bool `json:"success"`
	Entries int  `json:"entries"`
}

// HealthResponse reports per-component readiness.
type HealthResponse struct {
	Status     string          `json:"status"`
	Timestamp  time.Time       `json:"timestamp"`
	Components map[string]bool `json:"components"`
	Version    string          `json:"version"`
}

// RootResponse identifies the service.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}
