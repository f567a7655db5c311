package snapshotv1

import (
	"context"

	marketv1 "github.com/tradecore/matching-engine/internal/domain/market/v1"
)

// Store defines the interface for storing and loading order book snapshots.
type Store interface {
	Store(ctx context.Context, pair marketv1.TradingPair, snapshot *Snapshot) error
	Load(ctx context.Context, pair marketv1.TradingPair) (*Snapshot, error)
}
