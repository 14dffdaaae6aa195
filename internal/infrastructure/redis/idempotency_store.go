package redisstore

import (
	"context"
	"fmt"
	"time"

	"crypto-report/internal/application"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "crypto-report:idem:"

// Store reserves idempotency keys with SETNX. A reservation expires after TTL.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
	Now    func() time.Time
}

var _ application.IdempotencyStore = (*Store)(nil)

func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: client, TTL: ttl, Now: time.Now}
}

func (s *Store) TryReserve(ctx context.Context, key string) (bool, error) {
	stamp := s.Now().UTC().Format(time.RFC3339Nano)
	ok, err := s.Client.SetNX(ctx, keyPrefix+key, stamp, s.TTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (s *Store) Release(ctx context.Context, key string) error {
	if err := s.Client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}
