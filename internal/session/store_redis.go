package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "cites:session:"

// RedisStore keeps one hash per session. Every access slides the expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func hashKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID, key string, dest any) (bool, error) {
	hk := hashKey(sessionID)
	raw, err := s.client.HGet(ctx, hk, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read session %s: %w", key, err)
	}
	if err := s.touch(ctx, hk); err != nil {
		return false, err
	}
	return true, decode(key, raw, dest)
}

func (s *RedisStore) Set(ctx context.Context, sessionID, key string, value any) error {
	raw, err := encode(key, value)
	if err != nil {
		return err
	}
	hk := hashKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, hk, key, raw)
	if s.ttl > 0 {
		pipe.Expire(ctx, hk, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write session %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := s.client.HDel(ctx, hashKey(sessionID), key).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Reset(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, hashKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}

func (s *RedisStore) touch(ctx context.Context, hk string) error {
	if s.ttl <= 0 {
		return nil
	}
	if err := s.client.Expire(ctx, hk, s.ttl).Err(); err != nil {
		return fmt.Errorf("refresh session ttl: %w", err)
	}
	return nil
}
