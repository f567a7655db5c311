package orderbookv1

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// OrderType represents the type of order.
type OrderType string

const (
	// OrderTypeMarket represents a market order.
	OrderTypeMarket OrderType = "market"
	// OrderTypeLimit represents a limit order.
	OrderTypeLimit OrderType = "limit"
	// OrderTypeCancel represents a cancel request.
	OrderTypeCancel OrderType = "cancel"
)

// Order represents a single order in the order book. The side is fixed at
// creation; Size is the remaining (unfilled) quantity and only ever decreases,
// mutated exclusively by Limit.Fill.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userID"`
	Size      decimal.Decimal `json:"size"`
	Bid       bool            `json:"bid"`
	Limit     *Limit          `json:"-"`
	Timestamp int64           `json:"timestamp"`
}

// NewOrder creates a new order with a fresh ULID handle.
func NewOrder(userID string, size decimal.Decimal, bid bool) *Order {
	return &Order{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Size:      size,
		Bid:       bid,
		Timestamp: time.Now().UnixNano(),
	}
}

// IsBid checks if the order is a bid (buy) order.
func (o *Order) IsBid() bool {
	return o.Bid
}

// IsAsk checks if the order is an ask (sell) order.
func (o *Order) IsAsk() bool {
	return !o.Bid
}

// IsFilled checks if the order is filled. The remaining size must be exactly
// zero; decimal arithmetic keeps this an exact comparison.
func (o *Order) IsFilled() bool {
	return o.Size.IsZero()
}
