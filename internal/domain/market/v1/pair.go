package marketv1

import (
	"fmt"
	"strings"
)

// TradingPair identifies a market by its base and quote symbols.
// It is a comparable value type: equality and map hashing use both fields.
type TradingPair struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

// NewTradingPair creates a trading pair from base and quote symbols.
func NewTradingPair(base, quote string) TradingPair {
	return TradingPair{
		Base:  base,
		Quote: quote,
	}
}

// ParseTradingPair parses the canonical "BASE_QUOTE" form.
func ParseTradingPair(s string) (TradingPair, error) {
	base, quote, ok := strings.Cut(s, "_")
	if !ok || base == "" || quote == "" {
		return TradingPair{}, fmt.Errorf("invalid trading pair %q, expected BASE_QUOTE", s)
	}
	return TradingPair{Base: base, Quote: quote}, nil
}

// String returns the canonical display form, e.g. "BTC_USD".
func (p TradingPair) String() string {
	return fmt.Sprintf("%s_%s", p.Base, p.Quote)
}
