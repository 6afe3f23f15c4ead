package cache

import (
	"context"
	"testing"
	"time"

	"go-inventory-api/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (ReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisReportCache(client, time.Minute), mr
}

func TestRedisReportCache_RoundTripAndInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	owner := uuid.New()

	_, ok, err := c.Get(ctx, owner, 30)
	require.NoError(t, err)
	assert.False(t, ok)

	report := &model.InventoryReport{
		TotalInventoryValue: decimal.RequireFromString("1100.00"),
		LowStockItemsCount:  2,
		Sales:               5,
		Restocks:            20,
		WindowDays:          30,
		From:                time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:                  time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.Set(ctx, owner, 30, report))
	require.NoError(t, c.Set(ctx, owner, 7, report))
	assert.Equal(t, time.Minute, mr.TTL(reportKey(owner)))

	got, ok, err := c.Get(ctx, owner, 30)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1100.00", got.TotalInventoryValue.StringFixed(2))
	assert.Equal(t, 5, got.Sales)
	assert.True(t, report.To.Equal(got.To))

	_, ok, err = c.Get(ctx, uuid.New(), 30)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Invalidate(ctx, owner))
	for _, window := range []int{7, 30} {
		_, ok, err = c.Get(ctx, owner, window)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestRedisReportCache_Expires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	owner := uuid.New()

	require.NoError(t, c.Set(ctx, owner, 30, &model.InventoryReport{WindowDays: 30}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, owner, 30)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisReportCache_ServerDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), uuid.New(), 30)
	assert.Error(t, err)
}

func TestNopReportCache(t *testing.T) {
	c := NewNopReportCache()
	ctx := context.Background()
	owner := uuid.New()

	require.NoError(t, c.Set(ctx, owner, 30, &model.InventoryReport{}))
	_, ok, err := c.Get(ctx, owner, 30)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx, owner))
}
