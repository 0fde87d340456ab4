// Package middleware holds the container-level filters shared by every
// route: request IDs, request logging and panic recovery.
package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the correlation id. Incoming values are reused so
// callers can trace a request across services.
const RequestIDHeader = "X-Request-ID"

const requestIDAttribute = "request_id"

// ErrorResponse is the envelope for requests rejected before the handler
// produced a domain response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// HandleError writes an ErrorResponse with the given status.
func HandleError(resp *restful.Response, err error, status int) {
	resp.WriteHeaderAndEntity(status, ErrorResponse{
		Error:  err.Error(),
		Status: status,
	})
}

// RequestID attaches a correlation id to the request and echoes it on the
// response.
func RequestID(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	id := req.Request.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}

	req.SetAttribute(requestIDAttribute, id)
	resp.AddHeader(RequestIDHeader, id)

	chain.ProcessFilter(req, resp)
}

// Logger logs one line per handled request.
func Logger(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()

	chain.ProcessFilter(req, resp)

	event := log.Info()
	if resp.StatusCode() >= http.StatusInternalServerError {
		event = log.Error()
	}

	if id, ok := req.Attribute(requestIDAttribute).(string); ok {
		event = event.Str("request_id", id)
	}

	event.
		Str("method", req.Request.Method).
		Str("path", req.Request.URL.Path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("Request handled")
}

// RecoverPanic converts a handler panic into a 500 envelope so one bad
// request cannot take the server down.
func RecoverPanic(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("method", req.Request.Method).
				Str("path", req.Request.URL.Path).
				Msg("Handler panicked")
			HandleError(resp, errors.New("internal server error"), http.StatusInternalServerError)
		}
	}()

	chain.ProcessFilter(req, resp)
}
