package orderbookv1

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNilOrder is returned when a nil order is passed to a limit.
	ErrNilOrder = errors.New("order cannot be nil")
	// ErrInvalidPrice is returned when a limit price is not strictly positive.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrInvalidSize is returned when an order size is not strictly positive.
	ErrInvalidSize = errors.New("size must be positive")
	// ErrOrderNotFound is returned when an order is not resident in the limit.
	ErrOrderNotFound = errors.New("order not found in limit")
)

// Limit represents a single price level: the FIFO queue of all resting orders
// sharing one exact price. The queue preserves insertion order for its whole
// lifetime; earlier orders always fill before later ones.
type Limit struct {
	Price       decimal.Decimal `json:"price"`
	Orders      []*Order        `json:"orders"`
	TotalVolume decimal.Decimal `json:"totalVolume"`
}

// NewLimit creates a new Limit at the given price.
func NewLimit(price decimal.Decimal) *Limit {
	return &Limit{
		Price:  price,
		Orders: make([]*Order, 0),
	}
}

// AddOrder appends an order to the end of the queue and updates the total
// volume. O(1), preserves FIFO.
func (l *Limit) AddOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if !order.Size.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidSize, order.Size)
	}

	order.Limit = l
	l.Orders = append(l.Orders, order)
	l.TotalVolume = l.TotalVolume.Add(order.Size)

	return nil
}

// RemoveOrder removes an order from the queue and updates the total volume.
func (l *Limit) RemoveOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}

	for i, o := range l.Orders {
		if o == order {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			l.TotalVolume = l.TotalVolume.Sub(order.Size)
			order.Limit = nil
			return nil
		}
	}

	return ErrOrderNotFound
}

// Fill consumes resting orders with the incoming order in strict time
// priority. A resting order is either driven to zero or absorbs the whole
// remainder of the incoming order, in which case iteration stops. Exhausted
// orders are removed from the queue after the pass. Returns one match per
// resting order touched. An incoming order without positive remaining size
// has nothing to fill; resting sizes only ever decrease.
func (l *Limit) Fill(incomingOrder *Order) []Match {
	if incomingOrder == nil || !incomingOrder.Size.IsPositive() {
		return nil
	}

	var matches []Match
	var ordersToRemove []*Order

	for _, existingOrder := range l.Orders {
		if incomingOrder.IsFilled() {
			break
		}

		match := l.createMatch(incomingOrder, existingOrder)
		matches = append(matches, match)

		l.TotalVolume = l.TotalVolume.Sub(match.SizeFilled)

		if existingOrder.IsFilled() {
			ordersToRemove = append(ordersToRemove, existingOrder)
		}
	}

	for _, orderToRemove := range ordersToRemove {
		l.removeFilled(orderToRemove)
	}

	return matches
}

// createMatch applies the partial-fill arithmetic between the incoming and a
// resting order. The sum of both sizes is conserved by construction.
func (l *Limit) createMatch(incomingOrder, existingOrder *Order) Match {
	var bid, ask *Order
	var sizeFilled decimal.Decimal

	if incomingOrder.IsBid() {
		bid = incomingOrder
		ask = existingOrder
	} else {
		bid = existingOrder
		ask = incomingOrder
	}

	if incomingOrder.Size.GreaterThanOrEqual(existingOrder.Size) {
		sizeFilled = existingOrder.Size
		incomingOrder.Size = incomingOrder.Size.Sub(existingOrder.Size)
		existingOrder.Size = decimal.Zero
	} else {
		sizeFilled = incomingOrder.Size
		existingOrder.Size = existingOrder.Size.Sub(incomingOrder.Size)
		incomingOrder.Size = decimal.Zero
	}

	return Match{
		Ask:        ask,
		Bid:        bid,
		SizeFilled: sizeFilled,
		Price:      l.Price,
	}
}

// removeFilled drops an exhausted order from the queue. The order's size is
// already zero, so the total volume is untouched.
func (l *Limit) removeFilled(order *Order) {
	for i, o := range l.Orders {
		if o == order {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			order.Limit = nil
			break
		}
	}
}

// IsEmpty checks if the limit has no orders.
func (l *Limit) IsEmpty() bool {
	return len(l.Orders) == 0
}

// OrderCount returns the number of orders at this limit.
func (l *Limit) OrderCount() int {
	return len(l.Orders)
}

// Validate checks the limit's internal consistency: positive price,
// non-negative order sizes, and total volume matching the queue sum exactly.
func (l *Limit) Validate() error {
	if !l.Price.IsPositive() {
		return fmt.Errorf("%w: limit price %s", ErrInvalidPrice, l.Price)
	}

	calculatedVolume := decimal.Zero
	for _, order := range l.Orders {
		if order == nil {
			return fmt.Errorf("nil order found in limit")
		}
		if order.Size.IsNegative() {
			return fmt.Errorf("%w: order has size %s", ErrInvalidSize, order.Size)
		}
		calculatedVolume = calculatedVolume.Add(order.Size)
	}

	if !calculatedVolume.Equal(l.TotalVolume) {
		return fmt.Errorf("volume mismatch: calculated %s, stored %s", calculatedVolume, l.TotalVolume)
	}

	return nil
}
