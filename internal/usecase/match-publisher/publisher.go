package matchpublisher

import (
	"context"

	"github.com/segmentio/kafka-go"
	matchpublisherv1 "github.com/tradecore/matching-engine/internal/domain/match-publisher/v1"
	"github.com/tradecore/matching-engine/pkg/config"
	"github.com/tradecore/matching-engine/pkg/errors"
	"github.com/tradecore/matching-engine/pkg/logger"
)

// Publisher publishes match events to the match topic.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

// NewPublisher creates a Kafka publisher for match events.
func NewPublisher(config config.MatchPublisherConfig, logger *logger.Logger) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: config.Brokers,
		Topic:   config.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      logger,
	}
}

// PublishMatchEvent publishes a match event to the match topic.
func (p *Publisher) PublishMatchEvent(ctx context.Context, matchEvent *matchpublisherv1.MatchEvent) error {
	msg := kafka.Message{
		Key:   []byte(matchEvent.Pair),
		Value: matchpublisherv1.ToBytes(matchEvent),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "matchEvent", Value: matchEvent},
		)
		return errors.NewTracer("failed to publish match event").Wrap(err)
	}
	return nil
}

// Close closes the underlying Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
