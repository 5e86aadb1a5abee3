package stream

import "context"

// StreamConsumer pulls trace analysis requests from a message stream and
// publishes a report for each one.
type StreamConsumer interface {
	// Setup creates the consumer group and stream when missing.
	Setup(ctx context.Context) error
	// Start blocks, analysing requests until ctx is cancelled.
	Start(ctx context.Context) error
	// Stop releases the connection to the stream backend.
	Stop() error
}
