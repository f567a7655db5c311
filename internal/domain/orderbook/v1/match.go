package orderbookv1

import "github.com/shopspring/decimal"

// Match represents a fill between an ask and a bid order at one price level.
type Match struct {
	Ask        *Order          `json:"ask"`
	Bid        *Order          `json:"bid"`
	SizeFilled decimal.Decimal `json:"sizeFilled"`
	Price      decimal.Decimal `json:"price"`
}

// AskIsFilled checks if the ask order is filled.
func (m *Match) AskIsFilled() bool {
	return m.Ask.IsFilled()
}

// BidIsFilled checks if the bid order is filled.
func (m *Match) BidIsFilled() bool {
	return m.Bid.IsFilled()
}
