package stream

import "context"

// StreamConsumer pulls query messages off a stream and runs them through
// the pipeline until its context is cancelled.
type StreamConsumer interface {
	Setup(ctx context.Context) error
	Start(ctx context.Context) error
	Stop() error
}
