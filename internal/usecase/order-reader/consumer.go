package orderreader

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	orderreaderv1 "github.com/tradecore/matching-engine/internal/domain/order-reader/v1"
	"github.com/tradecore/matching-engine/pkg/config"
	"github.com/tradecore/matching-engine/pkg/logger"
)

// Reader consumes order requests from the order topic.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger
}

// NewReader creates a Kafka reader for the order topic. It returns an
// implementation of the OrderReader interface.
func NewReader(config config.KafkaConfig, log *logger.Logger) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "operation", Value: operation},
	)
}

// SetOffset sets the offset for the Kafka reader.
func (r *Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadMessage reads a message from the order topic and parses it as a
// PlaceOrderRequest.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *orderreaderv1.PlaceOrderRequest, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return kafka.Message{}, nil, err
	}

	var request orderreaderv1.PlaceOrderRequest
	if err := json.Unmarshal(msg.Value, &request); err != nil {
		r.logError(err, "UnmarshalOrderRequest")
		return kafka.Message{}, nil, err
	}

	r.logger.Info("ReadMessage",
		logger.Field{Key: "pair", Value: request.Pair},
		logger.Field{Key: "userID", Value: request.UserID},
		logger.Field{Key: "type", Value: request.Type},
		logger.Field{Key: "bid", Value: request.Bid},
		logger.Field{Key: "size", Value: request.Size},
		logger.Field{Key: "price", Value: request.Price},
	)

	request.Offset = msg.Offset

	return msg, &request, nil
}

// CommitMessages acknowledges processed messages. The reader runs in
// partition mode and replays from the snapshot offset on restart, so there
// is no consumer-group commit to perform.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	return nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}
