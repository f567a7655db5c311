package snapshot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketv1 "github.com/tradecore/matching-engine/internal/domain/market/v1"
	snapshotv1 "github.com/tradecore/matching-engine/internal/domain/snapshot/v1"
	"github.com/tradecore/matching-engine/pkg/logger"
)

// fakeRedisClient keeps values in a map, matching the Get/Set contract of the
// real client: a missing key reads as an empty string.
type fakeRedisClient struct {
	values map[string]string
	setErr error
	getErr error
}

func newFakeRedisClient() *fakeRedisClient {
	return &fakeRedisClient{values: make(map[string]string)}
}

func (c *fakeRedisClient) Connect(ctx context.Context) error    { return nil }
func (c *fakeRedisClient) Disconnect(ctx context.Context) error { return nil }
func (c *fakeRedisClient) Ping(ctx context.Context) error       { return nil }
func (c *fakeRedisClient) Reconnect(ctx context.Context) bool   { return true }

func (c *fakeRedisClient) Get(ctx context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.values[key], nil
}

func (c *fakeRedisClient) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.values[key] = string(value.([]byte))
	return nil
}

func (c *fakeRedisClient) Del(ctx context.Context, keys ...string) (int64, error) {
	var deleted int64
	for _, key := range keys {
		if _, ok := c.values[key]; ok {
			delete(c.values, key)
			deleted++
		}
	}
	return deleted, nil
}

func newTestStore(t *testing.T) (*Store, *fakeRedisClient) {
	t.Helper()
	log, err := logger.NewLogger(logger.WithLoggingLevel("error"))
	require.NoError(t, err)
	client := newFakeRedisClient()
	return NewSnapshotStore(client, log), client
}

func testSnapshot() *snapshotv1.Snapshot {
	return &snapshotv1.Snapshot{
		Pair:        "BTC_USD",
		OrderOffset: 7,
		Orders: []snapshotv1.BookOrder{
			{
				OrderID:   "order-1",
				UserID:    "user1",
				Size:      decimal.RequireFromString("1.5"),
				Bid:       true,
				Price:     decimal.RequireFromString("10000"),
				Timestamp: time.Now().UnixNano(),
			},
		},
	}
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	store, client := newTestStore(t)
	pair := marketv1.NewTradingPair("BTC", "USD")
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, pair, testSnapshot()))

	// stored under a per-pair key
	_, ok := client.values["snapshot:BTC_USD"]
	assert.True(t, ok)

	loaded, err := store.Load(ctx, pair)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "BTC_USD", loaded.Pair)
	assert.Equal(t, int64(7), loaded.OrderOffset)
	require.Len(t, loaded.Orders, 1)
	assert.Equal(t, "order-1", loaded.Orders[0].OrderID)
	assert.True(t, loaded.Orders[0].Size.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, loaded.Orders[0].Price.Equal(decimal.RequireFromString("10000")))
}

func TestSnapshotStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	loaded, err := store.Load(context.Background(), marketv1.NewTradingPair("ETH", "USD"))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSnapshotStore_Errors(t *testing.T) {
	t.Run("set failure surfaces", func(t *testing.T) {
		store, client := newTestStore(t)
		client.setErr = fmt.Errorf("connection refused")

		err := store.Store(context.Background(), marketv1.NewTradingPair("BTC", "USD"), testSnapshot())
		assert.Error(t, err)
	})

	t.Run("get failure surfaces", func(t *testing.T) {
		store, client := newTestStore(t)
		client.getErr = fmt.Errorf("connection refused")

		_, err := store.Load(context.Background(), marketv1.NewTradingPair("BTC", "USD"))
		assert.Error(t, err)
	})

	t.Run("corrupt payload surfaces", func(t *testing.T) {
		store, client := newTestStore(t)
		client.values["snapshot:BTC_USD"] = "{not json"

		_, err := store.Load(context.Background(), marketv1.NewTradingPair("BTC", "USD"))
		assert.Error(t, err)
	})
}
