package orderreaderv1

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// OrderReader defines the interface for reading order requests from a source.
type OrderReader interface {
	// ReadMessage reads a message and returns it with the parsed order request
	ReadMessage(ctx context.Context) (kafka.Message, *PlaceOrderRequest, error)
	// SetOffset sets the offset for the reader
	SetOffset(offset int64) error
	// CommitMessages commits the messages after processing
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	// Close closes the reader
	Close() error
}
