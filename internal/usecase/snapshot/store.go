package snapshot

import (
	"context"
	"encoding/json"

	marketv1 "github.com/tradecore/matching-engine/internal/domain/market/v1"
	snapshotv1 "github.com/tradecore/matching-engine/internal/domain/snapshot/v1"
	"github.com/tradecore/matching-engine/pkg/errors"
	"github.com/tradecore/matching-engine/pkg/logger"
	"github.com/tradecore/matching-engine/pkg/redis"
)

const keyPrefix = "snapshot:"

// Store persists order book snapshots in Redis, one key per trading pair.
type Store struct {
	logger      *logger.Logger
	redisclient redis.Client
}

// NewSnapshotStore creates a snapshot store backed by the given Redis client.
func NewSnapshotStore(redisclient redis.Client, logger *logger.Logger) *Store {
	return &Store{
		redisclient: redisclient,
		logger:      logger,
	}
}

func key(pair marketv1.TradingPair) string {
	return keyPrefix + pair.String()
}

// Store stores the snapshot for the pair in Redis.
func (s *Store) Store(ctx context.Context, pair marketv1.TradingPair, snapshot *snapshotv1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: pair.String(),
		})
		return errors.NewTracer("snapshot_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, key(pair), buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: pair.String(),
		})
		return errors.NewTracer("snapshot_store_error").Wrap(err)
	}

	s.logger.InfoContext(ctx, "Snapshot stored", logger.Field{
		Key:   "pair",
		Value: pair.String(),
	}, logger.Field{
		Key:   "action",
		Value: "store snapshot",
	})
	return nil
}

// Load loads the snapshot for the pair from Redis. A missing snapshot is not
// an error; it returns nil.
func (s *Store) Load(ctx context.Context, pair marketv1.TradingPair) (*snapshotv1.Snapshot, error) {
	data, err := s.redisclient.Get(ctx, key(pair))
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: pair.String(),
		}, logger.Field{
			Key:   "action",
			Value: "load snapshot",
		})
		return nil, errors.NewTracer("snapshot_load_error").Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, "No snapshot found", logger.Field{
			Key:   "pair",
			Value: pair.String(),
		})
		return nil, nil
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: pair.String(),
		}, logger.Field{
			Key:   "action",
			Value: "unmarshal snapshot",
		})
		return nil, errors.NewTracer("snapshot_unmarshal_error").Wrap(err)
	}

	return &snapshot, nil
}
