package matchpublisherv1

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	orderbookv1 "github.com/tradecore/matching-engine/internal/domain/orderbook/v1"
)

// MatchEvent is the wire representation of a single fill.
type MatchEvent struct {
	MatchID     string          `json:"matchID"`
	Pair        string          `json:"pair"`
	BuyOrderID  string          `json:"buyOrderID"`
	SellOrderID string          `json:"sellOrderID"`
	TakerSide   string          `json:"takerSide"`
	Volume      decimal.Decimal `json:"volume"`
	Price       decimal.Decimal `json:"price"`
	Timestamp   time.Time       `json:"timestamp"`
}

// CreateFromMatch creates a match event from a match and the taker order.
func CreateFromMatch(match *orderbookv1.Match, taker *orderbookv1.Order, pair string) *MatchEvent {
	matchEvent := &MatchEvent{
		MatchID:   taker.ID,
		Pair:      pair,
		Timestamp: time.Unix(0, taker.Timestamp),
	}

	if taker.IsBid() {
		matchEvent.BuyOrderID = taker.ID
		matchEvent.SellOrderID = match.Ask.ID
		matchEvent.TakerSide = "buy"
	} else {
		matchEvent.BuyOrderID = match.Bid.ID
		matchEvent.SellOrderID = taker.ID
		matchEvent.TakerSide = "sell"
	}

	matchEvent.Volume = match.SizeFilled
	matchEvent.Price = match.Price

	return matchEvent
}

// ToBytes converts the match event to a byte array.
func ToBytes(matchEvent *MatchEvent) []byte {
	buf, err := json.Marshal(matchEvent)
	if err != nil {
		return nil
	}

	return buf
}

// FromBytes converts a byte array to a match event.
func FromBytes(data []byte) *MatchEvent {
	var matchEvent MatchEvent
	if err := json.Unmarshal(data, &matchEvent); err != nil {
		return nil
	}
	return &matchEvent
}
