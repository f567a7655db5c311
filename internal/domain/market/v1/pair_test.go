package marketv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradingPair_String(t *testing.T) {
	pair := NewTradingPair("BTC", "USD")
	assert.Equal(t, "BTC_USD", pair.String())
}

func TestParseTradingPair(t *testing.T) {
	t.Run("parses canonical form", func(t *testing.T) {
		pair, err := ParseTradingPair("ETH_USDT")
		require.NoError(t, err)
		assert.Equal(t, NewTradingPair("ETH", "USDT"), pair)
	})

	t.Run("round trips through String", func(t *testing.T) {
		pair, err := ParseTradingPair("BTC_USD")
		require.NoError(t, err)
		assert.Equal(t, "BTC_USD", pair.String())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, input := range []string{"", "BTC", "_USD", "BTC_"} {
			_, err := ParseTradingPair(input)
			assert.Error(t, err, "input %q", input)
		}
	})
}

func TestTradingPair_Comparable(t *testing.T) {
	// pairs are value types usable as map keys
	books := map[TradingPair]int{}
	books[NewTradingPair("BTC", "USD")] = 1
	books[NewTradingPair("BTC", "USD")] = 2
	books[NewTradingPair("ETH", "USD")] = 3

	assert.Len(t, books, 2)
	assert.Equal(t, 2, books[NewTradingPair("BTC", "USD")])

	// different field splits are distinct pairs
	assert.NotEqual(t, NewTradingPair("BT", "CUSD"), NewTradingPair("BTC", "USD"))
}
