package orderbookv1

// Limits represents a slice of Limit pointers, one per price level.
type Limits []*Limit

// ByBestAsk sorts Limits by the best ask price (lowest price first).
type ByBestAsk struct {
	Limits
}

func (a ByBestAsk) Len() int {
	return len(a.Limits)
}

func (a ByBestAsk) Less(i, j int) bool {
	return a.Limits[i].Price.LessThan(a.Limits[j].Price)
}

func (a ByBestAsk) Swap(i, j int) {
	a.Limits[i], a.Limits[j] = a.Limits[j], a.Limits[i]
}

// ByBestBid sorts Limits by the best bid price (highest price first).
type ByBestBid struct {
	Limits
}

func (b ByBestBid) Len() int {
	return len(b.Limits)
}

func (b ByBestBid) Less(i, j int) bool {
	return b.Limits[i].Price.GreaterThan(b.Limits[j].Price)
}

func (b ByBestBid) Swap(i, j int) {
	b.Limits[i], b.Limits[j] = b.Limits[j], b.Limits[i]
}
