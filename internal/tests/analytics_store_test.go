package tests

import (
	"context"
	"testing"

	"quickbite/internal/domain"
	"quickbite/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisAnalyticsStore_Counters(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := storage.NewRedisAnalyticsStore(client)

	require.NoError(t, store.RecordOrderCreated(ctx, domain.OrderEvent{
		Type:       domain.EventOrderCreated,
		OrderID:    1,
		ProductIDs: []int{10, 10, 11},
	}))
	require.NoError(t, store.RecordStatusChange(ctx, domain.OrderEvent{
		Type:    domain.EventStatusChanged,
		OrderID: 1,
		Status:  domain.StatusAccepted,
	}))

	counts, err := client.HGetAll(ctx, "analytics:status_counts").Result()
	require.NoError(t, err)
	assert.Equal(t, "1", counts[domain.StatusPending])
	assert.Equal(t, "1", counts[domain.StatusAccepted])
}
