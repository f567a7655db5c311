package orderbook

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	orderbookv1 "github.com/tradecore/matching-engine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/tradecore/matching-engine/internal/domain/snapshot/v1"
)

// Orderbook holds all resting liquidity for one market, split into bid and
// ask price levels. Levels are keyed by the exact decimal price (canonical
// string form), so two orders share a level iff their prices are equal as
// exact values, never by float rounding.
//
// The book is the synchronization boundary: one lock guards both sides, and
// levels below it are not individually locked.
type Orderbook struct {
	mu        sync.RWMutex
	AskLimits map[string]*orderbookv1.Limit // canonical price -> limit
	BidLimits map[string]*orderbookv1.Limit // canonical price -> limit
	Orders    map[string]*orderbookv1.Order // orderID -> order
}

// NewOrderbook creates a new empty orderbook.
func NewOrderbook() *Orderbook {
	return &Orderbook{
		AskLimits: make(map[string]*orderbookv1.Limit),
		BidLimits: make(map[string]*orderbookv1.Limit),
		Orders:    make(map[string]*orderbookv1.Order),
	}
}

// priceKey returns the canonical map key for an exact price. Decimal's
// String trims trailing zeros, so numerically equal prices always collide.
func priceKey(price decimal.Decimal) string {
	return price.String()
}

// PlaceLimitOrder rests an order at the given price, creating the level on
// first use.
func (ob *Orderbook) PlaceLimitOrder(price decimal.Decimal, order *orderbookv1.Order) error {
	if order == nil {
		return orderbookv1.ErrNilOrder
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: got %s", orderbookv1.ErrInvalidPrice, price)
	}
	if !order.Size.IsPositive() {
		return fmt.Errorf("%w: got %s", orderbookv1.ErrInvalidSize, order.Size)
	}
	if order.ID == "" {
		return fmt.Errorf("order ID cannot be empty")
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	if _, exists := ob.Orders[order.ID]; exists {
		return fmt.Errorf("order with ID %s already exists", order.ID)
	}

	var limits map[string]*orderbookv1.Limit
	if order.IsBid() {
		limits = ob.BidLimits
	} else {
		limits = ob.AskLimits
	}

	key := priceKey(price)
	limit, exists := limits[key]
	if !exists {
		limit = orderbookv1.NewLimit(price)
		limits[key] = limit
	}

	if err := limit.AddOrder(order); err != nil {
		return err
	}

	ob.Orders[order.ID] = order

	return nil
}

// FillMarketOrder consumes resting liquidity with the incoming order,
// walking the opposing side's levels from best to worst price until the
// order is filled or liquidity runs out. A partially filled order is not an
// error; the caller inspects the remaining size. Emptied levels are removed
// from their side.
func (ob *Orderbook) FillMarketOrder(order *orderbookv1.Order) ([]orderbookv1.Match, error) {
	if order == nil {
		return nil, orderbookv1.ErrNilOrder
	}
	if !order.Size.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", orderbookv1.ErrInvalidSize, order.Size)
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	var matches []orderbookv1.Match

	// A bid consumes asks from the cheapest level up; an ask consumes bids
	// from the most generous level down.
	var limits orderbookv1.Limits
	if order.IsBid() {
		for _, limit := range ob.AskLimits {
			limits = append(limits, limit)
		}
		sort.Sort(orderbookv1.ByBestAsk{Limits: limits})
	} else {
		for _, limit := range ob.BidLimits {
			limits = append(limits, limit)
		}
		sort.Sort(orderbookv1.ByBestBid{Limits: limits})
	}

	for _, limit := range limits {
		if order.IsFilled() {
			break
		}

		limitMatches := limit.Fill(order)
		matches = append(matches, limitMatches...)

		for _, match := range limitMatches {
			if match.Ask.IsFilled() && match.Ask != order {
				delete(ob.Orders, match.Ask.ID)
			}
			if match.Bid.IsFilled() && match.Bid != order {
				delete(ob.Orders, match.Bid.ID)
			}
		}

		if limit.IsEmpty() {
			if order.IsBid() {
				delete(ob.AskLimits, priceKey(limit.Price))
			} else {
				delete(ob.BidLimits, priceKey(limit.Price))
			}
		}
	}

	return matches, nil
}

// CancelOrder removes a resting order from its level, dropping the level if
// it empties.
func (ob *Orderbook) CancelOrder(orderID string) error {
	if orderID == "" {
		return fmt.Errorf("order ID cannot be empty")
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, exists := ob.Orders[orderID]
	if !exists {
		return fmt.Errorf("order with ID %s does not exist", orderID)
	}

	// RemoveOrder clears the order's level back-pointer, so keep it first.
	limit := order.Limit

	if limit != nil {
		if err := limit.RemoveOrder(order); err != nil {
			return err
		}

		if limit.IsEmpty() {
			if order.IsBid() {
				delete(ob.BidLimits, priceKey(limit.Price))
			} else {
				delete(ob.AskLimits, priceKey(limit.Price))
			}
		}
	}

	delete(ob.Orders, orderID)

	return nil
}

// Asks returns ask limits sorted by price ascending. The slice is a snapshot
// recomputed on every call, not a live view.
func (ob *Orderbook) Asks() []*orderbookv1.Limit {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	var limits orderbookv1.Limits
	for _, limit := range ob.AskLimits {
		limits = append(limits, limit)
	}
	sort.Sort(orderbookv1.ByBestAsk{Limits: limits})
	return limits
}

// Bids returns bid limits sorted by price descending. Snapshot semantics,
// same as Asks.
func (ob *Orderbook) Bids() []*orderbookv1.Limit {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	var limits orderbookv1.Limits
	for _, limit := range ob.BidLimits {
		limits = append(limits, limit)
	}
	sort.Sort(orderbookv1.ByBestBid{Limits: limits})
	return limits
}

// AskTotalVolume returns the total resting ask volume.
func (ob *Orderbook) AskTotalVolume() decimal.Decimal {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	total := decimal.Zero
	for _, limit := range ob.AskLimits {
		total = total.Add(limit.TotalVolume)
	}
	return total
}

// BidTotalVolume returns the total resting bid volume.
func (ob *Orderbook) BidTotalVolume() decimal.Decimal {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	total := decimal.Zero
	for _, limit := range ob.BidLimits {
		total = total.Add(limit.TotalVolume)
	}
	return total
}

// CreateSnapshot flattens the book's resting orders into a snapshot entity.
func (ob *Orderbook) CreateSnapshot(pair string) *snapshotv1.Snapshot {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	var bookOrders []snapshotv1.BookOrder

	collect := func(limits map[string]*orderbookv1.Limit) {
		for _, limit := range limits {
			for _, order := range limit.Orders {
				bookOrders = append(bookOrders, snapshotv1.BookOrder{
					OrderID:   order.ID,
					UserID:    order.UserID,
					Size:      order.Size,
					Bid:       order.Bid,
					Price:     limit.Price,
					Timestamp: order.Timestamp,
				})
			}
		}
	}

	collect(ob.AskLimits)
	collect(ob.BidLimits)

	return &snapshotv1.Snapshot{
		Pair:   pair,
		Orders: bookOrders,
	}
}

// RestoreOrderbook rebuilds the book from a snapshot, replacing any current
// state.
func (ob *Orderbook) RestoreOrderbook(snapshot *snapshotv1.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	ob.AskLimits = make(map[string]*orderbookv1.Limit)
	ob.BidLimits = make(map[string]*orderbookv1.Limit)
	ob.Orders = make(map[string]*orderbookv1.Order)

	for _, bookOrder := range snapshot.Orders {
		order := &orderbookv1.Order{
			ID:        bookOrder.OrderID,
			UserID:    bookOrder.UserID,
			Size:      bookOrder.Size,
			Bid:       bookOrder.Bid,
			Timestamp: bookOrder.Timestamp,
		}

		var limits map[string]*orderbookv1.Limit
		if order.IsBid() {
			limits = ob.BidLimits
		} else {
			limits = ob.AskLimits
		}

		key := priceKey(bookOrder.Price)
		limit, exists := limits[key]
		if !exists {
			limit = orderbookv1.NewLimit(bookOrder.Price)
			limits[key] = limit
		}

		if err := limit.AddOrder(order); err != nil {
			return fmt.Errorf("failed to restore order %s: %w", bookOrder.OrderID, err)
		}

		ob.Orders[order.ID] = order
	}

	return nil
}
