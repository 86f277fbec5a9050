package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skyseat/pkg/logger"
	"skyseat/pkg/model"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "seatmap:"

// SeatMapCache is a short-TTL cache of assembled seat maps. A miss or a cache
// failure is never fatal; callers fall through to the builder.
type SeatMapCache interface {
	Get(ctx context.Context, scheduleID string, seatClassID string) (*model.SeatMap, bool)
	Set(ctx context.Context, scheduleID string, seatClassID string, seatMap *model.SeatMap)

	// InvalidateSchedule drops every cached map for the schedule, across all
	// cabin classes. Called after any seat mutation.
	InvalidateSchedule(ctx context.Context, scheduleID string)
}

type redisSeatMapCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewRedisSeatMapCache(client *redis.Client, ttl time.Duration, log *logger.Logger) SeatMapCache {
	return &redisSeatMapCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func cacheKey(scheduleID, seatClassID string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, scheduleID, seatClassID)
}

func (c *redisSeatMapCache) Get(ctx context.Context, scheduleID string, seatClassID string) (*model.SeatMap, bool) {
	data, err := c.client.Get(ctx, cacheKey(scheduleID, seatClassID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("seat map cache read failed", "schedule_id", scheduleID, "error", err)
		}
		return nil, false
	}

	var seatMap model.SeatMap
	if err := json.Unmarshal(data, &seatMap); err != nil {
		c.log.Warn("seat map cache entry corrupt, dropping", "schedule_id", scheduleID, "error", err)
		c.client.Del(ctx, cacheKey(scheduleID, seatClassID))
		return nil, false
	}
	return &seatMap, true
}

func (c *redisSeatMapCache) Set(ctx context.Context, scheduleID string, seatClassID string, seatMap *model.SeatMap) {
	if c.ttl <= 0 {
		return
	}

	data, err := json.Marshal(seatMap)
	if err != nil {
		c.log.Warn("seat map cache encode failed", "schedule_id", scheduleID, "error", err)
		return
	}
	if err := c.client.Set(ctx, cacheKey(scheduleID, seatClassID), data, c.ttl).Err(); err != nil {
		c.log.Warn("seat map cache write failed", "schedule_id", scheduleID, "error", err)
	}
}

func (c *redisSeatMapCache) InvalidateSchedule(ctx context.Context, scheduleID string) {
	pattern := keyPrefix + scheduleID + ":*"

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.log.Warn("seat map cache invalidation failed", "schedule_id", scheduleID, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.log.Warn("seat map cache delete failed", "schedule_id", scheduleID, "error", err)
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

// NoopSeatMapCache disables caching; used when Redis is not configured and in
// service tests that do not exercise the cache.
type NoopSeatMapCache struct{}

func (NoopSeatMapCache) Get(ctx context.Context, scheduleID string, seatClassID string) (*model.SeatMap, bool) {
	return nil, false
}

func (NoopSeatMapCache) Set(ctx context.Context, scheduleID string, seatClassID string, seatMap *model.SeatMap) {
}

func (NoopSeatMapCache) InvalidateSchedule(ctx context.Context, scheduleID string) {}
