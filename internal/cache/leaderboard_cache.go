// Package cache holds the Redis-backed read cache for hot leaderboard
// queries. The database stays authoritative; everything here is advisory
// and safe to lose.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/garudlab/sweepquiz/internal/logger"
	"github.com/garudlab/sweepquiz/internal/models"
)

const (
	countKey     = "leaderboard:count"
	firstPageKey = "leaderboard:first_page"
)

// LeaderboardCache caches the total entry count and the first page, the two
// reads every visitor triggers. Misses and Redis errors both read as "not
// cached"; callers fall through to the repository.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
		ttl:    ttl,
		log:    logger.Default().WithPrefix("leaderboard_cache"),
	}
}

func (c *LeaderboardCache) GetCount(ctx context.Context) (int, bool) {
	raw, err := c.client.Get(ctx, countKey).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("count read failed: %v", err)
		}
		return 0, false
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (c *LeaderboardCache) SetCount(ctx context.Context, count int) {
	if err := c.client.Set(ctx, countKey, strconv.Itoa(count), c.ttl).Err(); err != nil {
		c.log.Warn("count write failed: %v", err)
	}
}

func (c *LeaderboardCache) GetFirstPage(ctx context.Context) (models.LeaderboardPage, bool) {
	raw, err := c.client.Get(ctx, firstPageKey).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("first page read failed: %v", err)
		}
		return models.LeaderboardPage{}, false
	}
	var page models.LeaderboardPage
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		c.log.Warn("first page payload unparseable: %v", err)
		return models.LeaderboardPage{}, false
	}
	return page, true
}

func (c *LeaderboardCache) SetFirstPage(ctx context.Context, page models.LeaderboardPage) {
	raw, err := json.Marshal(page)
	if err != nil {
		c.log.Warn("first page serialize failed: %v", err)
		return
	}
	if err := c.client.Set(ctx, firstPageKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn("first page write failed: %v", err)
	}
}

// Invalidate drops both keys so the next read goes to the database.
func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, countKey, firstPageKey).Err(); err != nil {
		c.log.Warn("invalidate failed: %v", err)
	}
}
