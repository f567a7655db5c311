package orderbook

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/tradecore/matching-engine/internal/domain/orderbook/v1"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func placeLimit(t *testing.T, ob *Orderbook, price string, size string, bid bool) *orderbookv1.Order {
	t.Helper()
	order := orderbookv1.NewOrder("testuser", d(size), bid)
	require.NoError(t, ob.PlaceLimitOrder(d(price), order))
	return order
}

func TestOrderbook_PlaceLimitOrder(t *testing.T) {
	t.Run("rests an order on the correct side", func(t *testing.T) {
		ob := NewOrderbook()
		bid := placeLimit(t, ob, "10000", "5", true)
		ask := placeLimit(t, ob, "10100", "3", false)

		bids := ob.Bids()
		asks := ob.Asks()
		require.Len(t, bids, 1)
		require.Len(t, asks, 1)
		assert.Same(t, bid, bids[0].Orders[0])
		assert.Same(t, ask, asks[0].Orders[0])
		assert.True(t, ob.BidTotalVolume().Equal(d("5")))
		assert.True(t, ob.AskTotalVolume().Equal(d("3")))
	})

	t.Run("equal prices share one level regardless of representation", func(t *testing.T) {
		ob := NewOrderbook()
		placeLimit(t, ob, "10", "1", true)
		placeLimit(t, ob, "10.0", "2", true)
		placeLimit(t, ob, "10.000", "3", true)

		bids := ob.Bids()
		require.Len(t, bids, 1)
		assert.Equal(t, 3, bids[0].OrderCount())
		assert.True(t, bids[0].TotalVolume.Equal(d("6")))
	})

	t.Run("distinct prices get distinct levels", func(t *testing.T) {
		ob := NewOrderbook()
		placeLimit(t, ob, "10", "1", false)
		placeLimit(t, ob, "10.01", "1", false)

		assert.Len(t, ob.Asks(), 2)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		ob := NewOrderbook()

		err := ob.PlaceLimitOrder(d("100"), nil)
		assert.ErrorIs(t, err, orderbookv1.ErrNilOrder)

		err = ob.PlaceLimitOrder(decimal.Zero, orderbookv1.NewOrder("testuser", d("1"), true))
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidPrice)

		err = ob.PlaceLimitOrder(d("100"), orderbookv1.NewOrder("testuser", decimal.Zero, true))
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidSize)
	})

	t.Run("rejects duplicate order IDs", func(t *testing.T) {
		ob := NewOrderbook()
		order := placeLimit(t, ob, "100", "1", true)

		dup := orderbookv1.NewOrder("testuser", d("1"), true)
		dup.ID = order.ID
		err := ob.PlaceLimitOrder(d("105"), dup)
		assert.Error(t, err)
		assert.Len(t, ob.Bids(), 1)
	})
}

func TestOrderbook_ViewsAreSorted(t *testing.T) {
	ob := NewOrderbook()
	for _, price := range []string{"300", "100", "500", "200"} {
		placeLimit(t, ob, price, "1", false)
		placeLimit(t, ob, price, "1", true)
	}

	asks := ob.Asks()
	require.Len(t, asks, 4)
	for i := 1; i < len(asks); i++ {
		assert.True(t, asks[i-1].Price.LessThan(asks[i].Price),
			"asks must ascend, got %s before %s", asks[i-1].Price, asks[i].Price)
	}

	bids := ob.Bids()
	require.Len(t, bids, 4)
	for i := 1; i < len(bids); i++ {
		assert.True(t, bids[i-1].Price.GreaterThan(bids[i].Price),
			"bids must descend, got %s before %s", bids[i-1].Price, bids[i].Price)
	}
}

func TestOrderbook_FillMarketOrder(t *testing.T) {
	t.Run("market bid consumes the cheapest ask level first", func(t *testing.T) {
		ob := NewOrderbook()
		for _, price := range []string{"100", "200", "300", "500"} {
			placeLimit(t, ob, price, "10", false)
		}

		incoming := orderbookv1.NewOrder("taker", d("10"), true)
		matches, err := ob.FillMarketOrder(incoming)
		require.NoError(t, err)

		require.Len(t, matches, 1)
		assert.True(t, matches[0].Price.Equal(d("100")))
		assert.True(t, matches[0].SizeFilled.Equal(d("10")))
		assert.True(t, incoming.IsFilled())

		// the emptied level is gone and the rest is untouched
		asks := ob.Asks()
		require.Len(t, asks, 3)
		assert.True(t, asks[0].Price.Equal(d("200")))
		assert.True(t, ob.AskTotalVolume().Equal(d("30")))
	})

	t.Run("market ask walks bid levels from best price down", func(t *testing.T) {
		ob := NewOrderbook()
		placeLimit(t, ob, "105", "1", true)
		placeLimit(t, ob, "110", "1", true)
		placeLimit(t, ob, "100", "1", true)

		incoming := orderbookv1.NewOrder("taker", d("2"), false)
		matches, err := ob.FillMarketOrder(incoming)
		require.NoError(t, err)

		require.Len(t, matches, 2)
		assert.True(t, matches[0].Price.Equal(d("110")))
		assert.True(t, matches[1].Price.Equal(d("105")))
		assert.True(t, incoming.IsFilled())

		bids := ob.Bids()
		require.Len(t, bids, 1)
		assert.True(t, bids[0].Price.Equal(d("100")))
	})

	t.Run("partial fill when liquidity runs out is not an error", func(t *testing.T) {
		ob := NewOrderbook()
		placeLimit(t, ob, "100", "3", false)

		incoming := orderbookv1.NewOrder("taker", d("5"), true)
		matches, err := ob.FillMarketOrder(incoming)
		require.NoError(t, err)

		require.Len(t, matches, 1)
		assert.True(t, incoming.Size.Equal(d("2")))
		assert.Empty(t, ob.Asks())
		assert.True(t, ob.AskTotalVolume().IsZero())
	})

	t.Run("empty book fills nothing", func(t *testing.T) {
		ob := NewOrderbook()
		incoming := orderbookv1.NewOrder("taker", d("5"), true)

		matches, err := ob.FillMarketOrder(incoming)
		require.NoError(t, err)
		assert.Empty(t, matches)
		assert.True(t, incoming.Size.Equal(d("5")))
	})

	t.Run("filled resting orders leave the order index", func(t *testing.T) {
		ob := NewOrderbook()
		resting := placeLimit(t, ob, "100", "2", false)
		survivor := placeLimit(t, ob, "100", "5", false)

		incoming := orderbookv1.NewOrder("taker", d("4"), true)
		_, err := ob.FillMarketOrder(incoming)
		require.NoError(t, err)

		assert.Error(t, ob.CancelOrder(resting.ID))
		assert.True(t, survivor.Size.Equal(d("3")))
		assert.NoError(t, ob.CancelOrder(survivor.ID))
	})

	t.Run("nil order is an error", func(t *testing.T) {
		ob := NewOrderbook()
		_, err := ob.FillMarketOrder(nil)
		assert.ErrorIs(t, err, orderbookv1.ErrNilOrder)
	})

	t.Run("non-positive size is rejected and touches nothing", func(t *testing.T) {
		ob := NewOrderbook()
		resting := placeLimit(t, ob, "100", "5", false)

		for _, size := range []string{"-3", "0"} {
			incoming := orderbookv1.NewOrder("taker", d(size), true)
			matches, err := ob.FillMarketOrder(incoming)
			assert.ErrorIs(t, err, orderbookv1.ErrInvalidSize, "size %s", size)
			assert.Empty(t, matches)
		}

		// resting liquidity never inflates
		assert.True(t, resting.Size.Equal(d("5")))
		assert.True(t, ob.AskTotalVolume().Equal(d("5")))
	})
}

func TestOrderbook_FillMarketOrder_TimePriorityWithinLevel(t *testing.T) {
	ob := NewOrderbook()
	first := placeLimit(t, ob, "10", "100", true)
	second := placeLimit(t, ob, "10", "100", true)

	incoming := orderbookv1.NewOrder("taker", d("199"), false)
	matches, err := ob.FillMarketOrder(incoming)
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Same(t, first, matches[0].Bid)
	assert.Same(t, second, matches[1].Bid)
	assert.True(t, second.Size.Equal(d("1")))
	assert.True(t, ob.BidTotalVolume().Equal(d("1")))
}

func TestOrderbook_CancelOrder(t *testing.T) {
	t.Run("removes the order and its volume", func(t *testing.T) {
		ob := NewOrderbook()
		order := placeLimit(t, ob, "10000", "5", true)
		placeLimit(t, ob, "10000", "2", true)

		require.NoError(t, ob.CancelOrder(order.ID))

		bids := ob.Bids()
		require.Len(t, bids, 1)
		assert.Equal(t, 1, bids[0].OrderCount())
		assert.True(t, ob.BidTotalVolume().Equal(d("2")))
	})

	t.Run("drops the level when it empties", func(t *testing.T) {
		ob := NewOrderbook()
		order := placeLimit(t, ob, "10000", "5", false)

		require.NoError(t, ob.CancelOrder(order.ID))
		assert.Empty(t, ob.Asks())
	})

	t.Run("unknown or repeated cancel is an error", func(t *testing.T) {
		ob := NewOrderbook()
		order := placeLimit(t, ob, "10000", "5", true)

		require.NoError(t, ob.CancelOrder(order.ID))
		assert.Error(t, ob.CancelOrder(order.ID))
		assert.Error(t, ob.CancelOrder("missing"))
		assert.Error(t, ob.CancelOrder(""))
	})
}

func TestOrderbook_SnapshotRoundTrip(t *testing.T) {
	ob := NewOrderbook()
	placeLimit(t, ob, "10000", "1.5", true)
	placeLimit(t, ob, "9900", "2", true)
	placeLimit(t, ob, "10100", "0.75", false)

	snapshot := ob.CreateSnapshot("BTC_USD")
	require.Len(t, snapshot.Orders, 3)
	assert.Equal(t, "BTC_USD", snapshot.Pair)

	restored := NewOrderbook()
	require.NoError(t, restored.RestoreOrderbook(snapshot))

	assert.True(t, restored.BidTotalVolume().Equal(ob.BidTotalVolume()))
	assert.True(t, restored.AskTotalVolume().Equal(ob.AskTotalVolume()))
	require.Len(t, restored.Bids(), 2)
	require.Len(t, restored.Asks(), 1)

	// restored book keeps matching correctly
	incoming := orderbookv1.NewOrder("taker", d("1"), true)
	matches, err := restored.FillMarketOrder(incoming)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.True(t, matches[0].Price.Equal(d("10100")))
}

func TestOrderbook_RestoreOrderbook_NilSnapshot(t *testing.T) {
	ob := NewOrderbook()
	assert.Error(t, ob.RestoreOrderbook(nil))
}

func TestOrderbook_ConcurrentAccess(t *testing.T) {
	ob := NewOrderbook()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(bid bool) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				order := orderbookv1.NewOrder("testuser", d("1"), bid)
				_ = ob.PlaceLimitOrder(d("100"), order)
				_ = ob.BidTotalVolume()
				_ = ob.Asks()
			}
		}(i%2 == 0)
	}
	wg.Wait()

	assert.True(t, ob.BidTotalVolume().Equal(d("200")))
	assert.True(t, ob.AskTotalVolume().Equal(d("200")))
}
