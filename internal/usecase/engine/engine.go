package engine

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	marketv1 "github.com/tradecore/matching-engine/internal/domain/market/v1"
	orderbookv1 "github.com/tradecore/matching-engine/internal/domain/orderbook/v1"
	"github.com/tradecore/matching-engine/internal/usecase/orderbook"
	"github.com/tradecore/matching-engine/pkg/errors"
)

// MatchingEngine owns the set of active markets and routes orders to the
// order book registered for their trading pair. Markets are independent: the
// registry lock only guards the map itself, and each book carries its own
// synchronization.
type MatchingEngine struct {
	mu         sync.RWMutex
	orderbooks map[marketv1.TradingPair]*orderbook.Orderbook
}

// NewMatchingEngine creates an engine with no registered markets.
func NewMatchingEngine() *MatchingEngine {
	return &MatchingEngine{
		orderbooks: make(map[marketv1.TradingPair]*orderbook.Orderbook),
	}
}

// AddNewMarket registers an empty order book for the pair. Registering the
// same pair twice is rejected; overwriting would silently discard a live
// book.
func (e *MatchingEngine) AddNewMarket(pair marketv1.TradingPair) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.orderbooks[pair]; exists {
		return errors.NewErrorDetails(
			fmt.Sprintf("an orderbook for trading pair %s is already registered", pair),
			string(errors.MarketAlreadyExists),
			"pair",
		)
	}

	e.orderbooks[pair] = orderbook.NewOrderbook()
	return nil
}

// PlaceLimitOrder rests an order on the book registered for the pair. An
// unregistered pair is an error and mutates nothing; a book is never created
// implicitly.
func (e *MatchingEngine) PlaceLimitOrder(pair marketv1.TradingPair, price decimal.Decimal, order *orderbookv1.Order) error {
	ob, err := e.Orderbook(pair)
	if err != nil {
		return err
	}

	return ob.PlaceLimitOrder(price, order)
}

// FillMarketOrder fills an incoming market order against the book registered
// for the pair and returns the resulting matches.
func (e *MatchingEngine) FillMarketOrder(pair marketv1.TradingPair, order *orderbookv1.Order) ([]orderbookv1.Match, error) {
	ob, err := e.Orderbook(pair)
	if err != nil {
		return nil, err
	}

	return ob.FillMarketOrder(order)
}

// CancelOrder removes a resting order from the pair's book.
func (e *MatchingEngine) CancelOrder(pair marketv1.TradingPair, orderID string) error {
	ob, err := e.Orderbook(pair)
	if err != nil {
		return err
	}

	return ob.CancelOrder(orderID)
}

// Orderbook returns the book registered for the pair.
func (e *MatchingEngine) Orderbook(pair marketv1.TradingPair) (*orderbook.Orderbook, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ob, exists := e.orderbooks[pair]
	if !exists {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("the orderbook for trading pair %s does not exist", pair),
			string(errors.MarketNotFound),
			"pair",
		)
	}
	return ob, nil
}

// Markets returns the pairs with a registered order book.
func (e *MatchingEngine) Markets() []marketv1.TradingPair {
	e.mu.RLock()
	defer e.mu.RUnlock()

	pairs := make([]marketv1.TradingPair, 0, len(e.orderbooks))
	for pair := range e.orderbooks {
		pairs = append(pairs, pair)
	}
	return pairs
}
