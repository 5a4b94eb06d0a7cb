package storage

import (
	"context"
	"strconv"
	"time"

	"quickbite/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisAnalyticsStore keeps per-day product sale counters and running order
// status counts. Daily keys expire after a week.
type RedisAnalyticsStore struct {
	Client *redis.Client
}

func NewRedisAnalyticsStore(client *redis.Client) *RedisAnalyticsStore {
	return &RedisAnalyticsStore{Client: client}
}

func (s *RedisAnalyticsStore) RecordOrderCreated(ctx context.Context, event domain.OrderEvent) error {
	today := time.Now().Format("2006-01-02")
	dailyKey := "analytics:daily:" + today

	for _, productID := range event.ProductIDs {
		if err := s.Client.ZIncrBy(ctx, dailyKey, 1, strconv.Itoa(productID)).Err(); err != nil {
			return err
		}
	}
	s.Client.Expire(ctx, dailyKey, 7*24*time.Hour)

	return s.Client.HIncrBy(ctx, "analytics:status_counts", domain.StatusPending, 1).Err()
}

func (s *RedisAnalyticsStore) RecordStatusChange(ctx context.Context, event domain.OrderEvent) error {
	return s.Client.HIncrBy(ctx, "analytics:status_counts", event.Status, 1).Err()
}
