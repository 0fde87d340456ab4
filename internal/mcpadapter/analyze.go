package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sahoo-tech/RAG/internal/engine"
	"github.com/sahoo-tech/RAG/internal/models"
)

// AnalyzeInput is the MCP tool input schema (matches HTTP API field names).
type AnalyzeInput struct {
	Query                 string `json:"query" jsonschema:"analytical question about business metrics"`
	IncludeExplainability bool   `json:"include_explainability,omitempty" jsonschema:"include the full reasoning trace"`
}

// AnalyzeResult is the tool output: the final answer with its confidence,
// plus the reasoning trace when requested.
type AnalyzeResult struct {
	Response       models.FinalResponse         `json:"response"`
	Explainability *models.ExplainabilityOutput `json:"explainability,omitempty"`
}

// NewAnalyzeMetricsHandler returns a tool handler backed by the engine.
// Pass the returned function to mcp.AddTool.
func NewAnalyzeMetricsHandler(eng *engine.Engine) func(context.Context, *mcp.CallToolRequest, AnalyzeInput) (*mcp.CallToolResult, AnalyzeResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, AnalyzeResult, error) {
		return AnalyzeMetrics(ctx, eng, req, input)
	}
}

// AnalyzeMetrics runs the full pipeline and returns the final response.
func AnalyzeMetrics(
	ctx context.Context,
	eng *engine.Engine,
	req *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeResult, error) {
	outcome, err := eng.ProcessQuery(ctx, input.Query, input.IncludeExplainability)
	if err != nil {
		return nil, AnalyzeResult{}, err
	}

	return nil, AnalyzeResult{
		Response:       outcome.Response,
		Explainability: outcome.Explainability,
	}, nil
}
