package snapshotv1

import "github.com/shopspring/decimal"

// Snapshot represents the state of one market's order book at a specific
// point in time.
type Snapshot struct {
	Pair        string      `json:"pair"`
	OrderOffset int64       `json:"orderOffset"`
	Orders      []BookOrder `json:"orders"`
}

// BookOrder represents a resting order in the order book with its details.
type BookOrder struct {
	OrderID   string          `json:"orderID"`
	UserID    string          `json:"userID"`
	Size      decimal.Decimal `json:"size"`
	Bid       bool            `json:"bid"`
	Price     decimal.Decimal `json:"price"`
	Timestamp int64           `json:"timestamp"`
}
