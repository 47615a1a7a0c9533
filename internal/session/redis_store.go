package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore keeps session records in Redis with a per-key TTL, so
// expiry needs no sweeper and sessions survive server restarts.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, sid string, v Visitor, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sid, err)
	}
	if err := s.client.Set(ctx, keyPrefix+sid, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session %s: %w", sid, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sid string) (Visitor, bool, error) {
	payload, err := s.client.Get(ctx, keyPrefix+sid).Bytes()
	if err == redis.Nil {
		return Visitor{}, false, nil
	}
	if err != nil {
		return Visitor{}, false, fmt.Errorf("load session %s: %w", sid, err)
	}

	var v Visitor
	if err := json.Unmarshal(payload, &v); err != nil {
		return Visitor{}, false, fmt.Errorf("decode session %s: %w", sid, err)
	}
	return v, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, keyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", sid, err)
	}
	return nil
}
