package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists values in Redis under a common prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps the client. The prefix scopes keys per provider.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

// Get fetches a value, ErrNoKey when absent.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoKey
		}
		return nil, err
	}
	return data, nil
}

// Set stores a value without expiry; provider data lives until replaced.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

// Delete removes a key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// Append pushes an element onto the list at key. RPUSH is atomic on the
// server, so concurrent appenders interleave instead of overwriting.
func (s *RedisStore) Append(ctx context.Context, key string, value []byte) error {
	return s.client.RPush(ctx, s.key(key), value).Err()
}

// Elements returns the list at key oldest first, empty when absent.
func (s *RedisStore) Elements(ctx context.Context, key string) ([][]byte, error) {
	values, err := s.client.LRange(ctx, s.key(key), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	elements := make([][]byte, len(values))
	for i, v := range values {
		elements[i] = []byte(v)
	}
	return elements, nil
}
