package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"

	"github.com/sahoo-tech/RAG/internal/api/middleware"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	root := new(restful.WebService)
	root.Produces(restful.MIME_JSON)

	root.
		Route(root.GET("/").
			To(handler.Root).
			Doc("Service identity").
			Metadata(restfulspec.KeyOpenAPITags, []string{"root"}).
			Writes(RootResponse{}).
			Returns(200, "OK", RootResponse{}))

	container.Add(root)

	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("/health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/query").
			To(handler.Query).
			Doc("Run an analytical query through the full pipeline").
			Metadata(restfulspec.KeyOpenAPITags, []string{"query"}).
			Reads(QueryRequest{}).
			Writes(QueryResponse{}).
			Returns(200, "OK", QueryResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/explain").
			To(handler.Explain).
			Doc("Run a query and return the rendered explainability report").
			Metadata(restfulspec.KeyOpenAPITags, []string{"query"}).
			Reads(QueryRequest{}).
			Writes(ExplainResponse{}).
			Returns(200, "OK", ExplainResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/knowledge").
			To(handler.AddKnowledge).
			Doc("Append an entry to the semantic knowledge base").
			Metadata(restfulspec.KeyOpenAPITags, []string{"knowledge"}).
			Reads(KnowledgeRequest{}).
			Writes(KnowledgeResponse{}).
			Returns(200, "OK", KnowledgeResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
