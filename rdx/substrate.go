package rdx

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Substrate adapts the Redis client to the persist.Substrate contract.
// All calls are bounded; the storefront treats the substrate as local and
// fast, so a slow Redis should fail rather than stall a mutation.
type Substrate struct {
	client  *redis.Client
	timeout time.Duration
}

func NewSubstrate(client *redis.Client) *Substrate {
	return &Substrate{client: client, timeout: 3 * time.Second}
}

func (s *Substrate) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *Substrate) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *Substrate) Del(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Del(ctx, key).Err()
}
