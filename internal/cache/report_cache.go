// Package cache keeps computed inventory reports in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-inventory-api/internal/config"
	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReportCache stores one report per owner and window length. Invalidate
// drops every window of the owner at once.
type ReportCache interface {
	Get(ctx context.Context, ownerID uuid.UUID, windowDays int) (*model.InventoryReport, bool, error)
	Set(ctx context.Context, ownerID uuid.UUID, windowDays int, report *model.InventoryReport) error
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

type redisReportCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisReportCache(client redis.Cmdable, ttl time.Duration) ReportCache {
	return &redisReportCache{client: client, ttl: ttl}
}

func reportKey(ownerID uuid.UUID) string {
	return "inventory:report:" + ownerID.String()
}

func (c *redisReportCache) Get(ctx context.Context, ownerID uuid.UUID, windowDays int) (*model.InventoryReport, bool, error) {
	raw, err := c.client.HGet(ctx, reportKey(ownerID), strconv.Itoa(windowDays)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var report model.InventoryReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, false, err
	}
	return &report, true, nil
}

func (c *redisReportCache) Set(ctx context.Context, ownerID uuid.UUID, windowDays int, report *model.InventoryReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	key := reportKey(ownerID)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, strconv.Itoa(windowDays), raw)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	return err
}

func (c *redisReportCache) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	return c.client.Del(ctx, reportKey(ownerID)).Err()
}

type nopReportCache struct{}

// NewNopReportCache never hits; used when Redis is not configured.
func NewNopReportCache() ReportCache { return nopReportCache{} }

func (nopReportCache) Get(context.Context, uuid.UUID, int) (*model.InventoryReport, bool, error) {
	return nil, false, nil
}

func (nopReportCache) Set(context.Context, uuid.UUID, int, *model.InventoryReport) error {
	return nil
}

func (nopReportCache) Invalidate(context.Context, uuid.UUID) error { return nil }
