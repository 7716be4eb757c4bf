package redis

import (
	"context"
	"errors"
	"time"

	"localservices-frontend/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

// Ensure the adapter implements the port interface.
var _ repository.KeyValueStore = (*KVStore)(nil)

// KVStore keeps session keys in Redis so several terminals on one machine, or a
// shared dev box, see the same login.
type KVStore struct {
	client RedisClient
	prefix string
	ttl    time.Duration
}

// NewKVStore namespaces keys with prefix. ttl 0 keeps keys until deleted.
func NewKVStore(client RedisClient, prefix string, ttl time.Duration) *KVStore {
	return &KVStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *KVStore) key(k string) string { return s.prefix + k }

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key))
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, s.ttl)
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key))
}
