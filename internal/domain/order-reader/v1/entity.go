package orderreaderv1

import (
	"github.com/shopspring/decimal"
	orderbookv1 "github.com/tradecore/matching-engine/internal/domain/orderbook/v1"
)

// PlaceOrderRequest represents a request to place an order on a market.
type PlaceOrderRequest struct {
	OrderID string                `json:"orderID"`
	UserID  string                `json:"userID"`
	Pair    string                `json:"pair"`
	Type    orderbookv1.OrderType `json:"type"`
	Bid     bool                  `json:"bid"`
	Size    decimal.Decimal       `json:"size"`
	Price   decimal.Decimal       `json:"price"`
	Offset  int64                 `json:"-"` // Offset of the request in the stream
}
