package llm

import (
	"context"
)

// Client is the text-generation oracle. The pipeline only uses it to polish
// narration, so implementations may fail freely; callers fall back to
// deterministic templates.
type Client interface {
	InvokeModel(ctx context.Context, request Request) (*Response, error)
	InvokeModelWithRetry(ctx context.Context, request Request) (*Response, error)
}
