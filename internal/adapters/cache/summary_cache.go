package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.SummaryCache = (*RedisSummaryCache)(nil)

const DefaultSummaryTTL = 24 * time.Hour

// RedisSummaryCache stores one JSON dashboard per user. A miss is reported
// as (nil, nil).
type RedisSummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSummaryCache(rdb *redis.Client, ttl time.Duration) *RedisSummaryCache {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &RedisSummaryCache{rdb: rdb, ttl: ttl}
}

func summaryKey(userID string) string {
	return fmt.Sprintf("summary:%s", userID)
}

func (c *RedisSummaryCache) Get(ctx context.Context, userID string) (*domain.DashboardSummary, error) {
	data, err := c.rdb.Get(ctx, summaryKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("summary cache: get: %w", err)
	}

	var summary domain.DashboardSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		c.rdb.Del(ctx, summaryKey(userID))
		return nil, fmt.Errorf("summary cache: corrupted entry: %w", err)
	}
	return &summary, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, summary *domain.DashboardSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("summary cache: encode: %w", err)
	}
	if err := c.rdb.Set(ctx, summaryKey(summary.UserID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("summary cache: set: %w", err)
	}
	return nil
}

func (c *RedisSummaryCache) Delete(ctx context.Context, userID string) error {
	if err := c.rdb.Del(ctx, summaryKey(userID)).Err(); err != nil {
		return fmt.Errorf("summary cache: delete: %w", err)
	}
	return nil
}
