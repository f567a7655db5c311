package engine

import (
	"context"
	"sync"
	"time"

	marketv1 "github.com/tradecore/matching-engine/internal/domain/market/v1"
	matchpublisherv1 "github.com/tradecore/matching-engine/internal/domain/match-publisher/v1"
	orderreaderv1 "github.com/tradecore/matching-engine/internal/domain/order-reader/v1"
	orderbookv1 "github.com/tradecore/matching-engine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/tradecore/matching-engine/internal/domain/snapshot/v1"
	matchingengine "github.com/tradecore/matching-engine/internal/usecase/engine"
	"github.com/tradecore/matching-engine/pkg/config"
	"github.com/tradecore/matching-engine/pkg/errors"
	"github.com/tradecore/matching-engine/pkg/logger"
)

// App wires the matching engine registry to its order intake, match
// publishing, and snapshot persistence.
type App struct {
	engine         *matchingengine.MatchingEngine
	orderReader    orderreaderv1.OrderReader
	snapshotStore  snapshotv1.Store
	matchPublisher matchpublisherv1.MatchPublisher
	logger         *logger.Logger
	config         *config.Config

	mu                 sync.RWMutex
	orderOffset        int64
	lastSnapshotOffset int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	snapshotInterval    time.Duration
	snapshotOffsetDelta int64

	totalMatches int64
	matchesMutex sync.RWMutex
}

// NewApp creates an App with default options.
func NewApp(
	engine *matchingengine.MatchingEngine,
	orderReader orderreaderv1.OrderReader,
	snapshotStore snapshotv1.Store,
	matchPublisher matchpublisherv1.MatchPublisher,
	logger *logger.Logger,
	config *config.Config,
) (*App, error) {
	return NewAppWithOptions(engine, orderReader, snapshotStore, matchPublisher, logger, config, DefaultOptions())
}

// NewAppWithOptions creates an App with custom options, registering the
// configured markets and restoring their books from stored snapshots.
func NewAppWithOptions(
	engine *matchingengine.MatchingEngine,
	orderReader orderreaderv1.OrderReader,
	snapshotStore snapshotv1.Store,
	matchPublisher matchpublisherv1.MatchPublisher,
	logger *logger.Logger,
	config *config.Config,
	options *Options,
) (*App, error) {
	a := &App{
		engine:         engine,
		orderReader:    orderReader,
		snapshotStore:  snapshotStore,
		matchPublisher: matchPublisher,
		logger:         logger,
		config:         config,

		snapshotInterval:    options.SnapshotInterval,
		snapshotOffsetDelta: options.SnapshotOffsetDelta,
		orderOffset:         -1,
	}

	if err := a.registerMarkets(context.Background()); err != nil {
		return nil, err
	}

	return a, nil
}

// registerMarkets registers the configured pairs and restores each book from
// its stored snapshot. The replay offset is the oldest snapshot offset, so
// no market misses orders recorded after its last snapshot.
func (a *App) registerMarkets(ctx context.Context) error {
	for _, raw := range a.config.Pairs {
		pair, err := marketv1.ParseTradingPair(raw)
		if err != nil {
			return errors.TracerFromError(err)
		}

		if err := a.engine.AddNewMarket(pair); err != nil {
			return err
		}

		snapshot, err := a.snapshotStore.Load(ctx, pair)
		if err != nil {
			return err
		}
		if snapshot == nil {
			continue
		}

		ob, err := a.engine.Orderbook(pair)
		if err != nil {
			return err
		}
		if err := ob.RestoreOrderbook(snapshot); err != nil {
			return errors.TracerFromError(err)
		}

		a.mu.Lock()
		if a.orderOffset < 0 || snapshot.OrderOffset < a.orderOffset {
			a.orderOffset = snapshot.OrderOffset
			a.lastSnapshotOffset = snapshot.OrderOffset
		}
		a.mu.Unlock()

		a.logger.Info("Orderbook restored from snapshot", logger.Field{
			Key:   "pair",
			Value: pair.String(),
		}, logger.Field{
			Key:   "orderOffset",
			Value: snapshot.OrderOffset,
		})
	}

	return nil
}

// Start launches the order processor and snapshot manager.
func (a *App) Start(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)

	a.wg.Add(2)
	go a.runOrderProcessor()
	go a.runSnapshotManager()

	a.logger.Info("Matching engine started", logger.Field{
		Key:   "pairs",
		Value: a.config.Pairs,
	})

	return nil
}

// Stop gracefully shuts down the engine.
func (a *App) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("Matching engine stopped gracefully")
		return nil
	case <-ctx.Done():
		a.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runOrderProcessor reads order requests and routes them to the registry.
func (a *App) runOrderProcessor() {
	defer a.wg.Done()

	a.logger.Info("Starting order processor")

	currentOffset := a.getOrderOffset()
	if currentOffset > 0 {
		currentOffset++
	}

	if err := a.orderReader.SetOffset(currentOffset); err != nil {
		a.logger.Error(errors.TracerFromError(err), logger.Field{
			Key:   "action",
			Value: "set_order_reader_offset",
		})
		return
	}

	for {
		select {
		case <-a.ctx.Done():
			a.logger.Info("Order processor shutting down")
			a.orderReader.Close()
			return
		default:
			msg, orderRequest, err := a.orderReader.ReadMessage(a.ctx)
			if err != nil {
				a.logger.ErrorContext(a.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_order_message",
				})
				time.Sleep(100 * time.Millisecond)
				continue
			}

			if err := a.orderReader.CommitMessages(a.ctx, msg); err != nil {
				a.logger.ErrorContext(a.ctx, err, logger.Field{
					Key:   "action",
					Value: "commit_order_message",
				})
			}

			if err := a.processOrder(orderRequest); err != nil {
				a.logger.ErrorContext(a.ctx, err, logger.Field{
					Key:   "action",
					Value: "process_order",
				})
				continue
			}

			a.setOrderOffset(msg.Offset)
		}
	}
}

// runSnapshotManager handles periodic snapshots.
func (a *App) runSnapshotManager() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.snapshotInterval)
	defer ticker.Stop()

	a.logger.Info("Starting snapshot manager")

	for {
		select {
		case <-a.ctx.Done():
			a.logger.Info("Snapshot manager shutting down")
			return
		case <-ticker.C:
			if a.shouldCreateSnapshot() {
				a.createAndStoreSnapshots()
			}
		}
	}
}

// processOrder routes a single order request to the pair's book.
func (a *App) processOrder(orderRequest *orderreaderv1.PlaceOrderRequest) error {
	a.logger.Debug("Processing order",
		logger.Field{Key: "orderOffset", Value: orderRequest.Offset},
		logger.Field{Key: "pair", Value: orderRequest.Pair},
		logger.Field{Key: "userID", Value: orderRequest.UserID},
		logger.Field{Key: "bid", Value: orderRequest.Bid},
	)

	pair, err := marketv1.ParseTradingPair(orderRequest.Pair)
	if err != nil {
		return errors.TracerFromError(err)
	}

	switch orderRequest.Type {
	case orderbookv1.OrderTypeLimit:
		order := a.buildOrder(orderRequest)
		return a.engine.PlaceLimitOrder(pair, orderRequest.Price, order)
	case orderbookv1.OrderTypeMarket:
		order := a.buildOrder(orderRequest)
		matches, err := a.engine.FillMarketOrder(pair, order)
		if err != nil {
			return err
		}

		if len(matches) > 0 {
			a.publishMatches(pair, order, matches)
		}

		if !order.IsFilled() {
			a.logger.Warn("Market order partially filled, liquidity exhausted",
				logger.Field{Key: "orderID", Value: order.ID},
				logger.Field{Key: "remaining", Value: order.Size},
			)
		}
	case orderbookv1.OrderTypeCancel:
		return a.engine.CancelOrder(pair, orderRequest.OrderID)
	}
	return nil
}

func (a *App) buildOrder(orderRequest *orderreaderv1.PlaceOrderRequest) *orderbookv1.Order {
	order := orderbookv1.NewOrder(orderRequest.UserID, orderRequest.Size, orderRequest.Bid)
	if orderRequest.OrderID != "" {
		order.ID = orderRequest.OrderID
	}
	return order
}

// publishMatches emits one event per match and updates statistics.
func (a *App) publishMatches(pair marketv1.TradingPair, taker *orderbookv1.Order, matches []orderbookv1.Match) {
	a.matchesMutex.Lock()
	a.totalMatches += int64(len(matches))
	currentTotal := a.totalMatches
	a.matchesMutex.Unlock()

	a.logger.Info("Matches executed",
		logger.Field{Key: "pair", Value: pair.String()},
		logger.Field{Key: "matchCount", Value: len(matches)},
		logger.Field{Key: "totalMatches", Value: currentTotal},
	)

	for i := range matches {
		match := &matches[i]
		event := matchpublisherv1.CreateFromMatch(match, taker, pair.String())
		if err := a.matchPublisher.PublishMatchEvent(a.ctx, event); err != nil {
			a.logger.ErrorContext(a.ctx, err, logger.Field{
				Key:   "action",
				Value: "publish_match_event",
			})
		}

		a.logger.Info("Trade executed",
			logger.Field{Key: "matchIndex", Value: i + 1},
			logger.Field{Key: "price", Value: match.Price},
			logger.Field{Key: "size", Value: match.SizeFilled},
			logger.Field{Key: "bidOrderID", Value: match.Bid.ID},
			logger.Field{Key: "askOrderID", Value: match.Ask.ID},
			logger.Field{Key: "askIsFilled", Value: match.AskIsFilled()},
			logger.Field{Key: "bidIsFilled", Value: match.BidIsFilled()},
		)
	}
}

// shouldCreateSnapshot checks if enough orders were processed since the last
// snapshot.
func (a *App) shouldCreateSnapshot() bool {
	a.mu.RLock()
	currentOffset := a.orderOffset
	lastSnapshotOffset := a.lastSnapshotOffset
	a.mu.RUnlock()

	if currentOffset <= 0 {
		return false
	}

	return currentOffset-lastSnapshotOffset >= a.snapshotOffsetDelta
}

// createAndStoreSnapshots snapshots every registered market.
func (a *App) createAndStoreSnapshots() {
	currentOffset := a.getOrderOffset()

	a.logger.Info("Creating snapshots", logger.Field{
		Key:   "currentOffset",
		Value: currentOffset,
	})

	stored := true
	for _, pair := range a.engine.Markets() {
		ob, err := a.engine.Orderbook(pair)
		if err != nil {
			a.logger.ErrorContext(a.ctx, err)
			stored = false
			continue
		}

		snapshot := ob.CreateSnapshot(pair.String())
		snapshot.OrderOffset = currentOffset

		if err := a.snapshotStore.Store(a.ctx, pair, snapshot); err != nil {
			a.logger.ErrorContext(a.ctx, err, logger.Field{
				Key:   "action",
				Value: "store_snapshot",
			})
			stored = false
		}
	}

	if stored {
		a.setLastSnapshotOffset(currentOffset)
	}
}

func (a *App) getOrderOffset() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.orderOffset
}

func (a *App) setOrderOffset(offset int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.orderOffset = offset
}

func (a *App) setLastSnapshotOffset(offset int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastSnapshotOffset = offset
}

// GetOrderOffset returns the current order offset.
func (a *App) GetOrderOffset() int64 {
	return a.getOrderOffset()
}

// GetTotalMatches returns the total number of matches processed.
func (a *App) GetTotalMatches() int64 {
	a.matchesMutex.RLock()
	defer a.matchesMutex.RUnlock()
	return a.totalMatches
}
