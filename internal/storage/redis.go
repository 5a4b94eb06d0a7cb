package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCartStore persists one serialized cart blob per cart key. The blob is
// read once when the cart is opened and overwritten after every mutation.
type RedisCartStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{Client: client, TTL: ttl}
}

func (s *RedisCartStore) cartBlobKey(cartKey string) string {
	return "cart:" + cartKey
}

func (s *RedisCartStore) Save(ctx context.Context, cartKey string, blob []byte) error {
	return s.Client.Set(ctx, s.cartBlobKey(cartKey), blob, s.TTL).Err()
}

// Load returns nil for an absent blob; the cart layer treats that as empty.
func (s *RedisCartStore) Load(ctx context.Context, cartKey string) ([]byte, error) {
	blob, err := s.Client.Get(ctx, s.cartBlobKey(cartKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}
