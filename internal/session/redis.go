package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bumpbox-be/internal/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const defaultKeyPrefix = "bumpbox:session"

// RedisStorageConfig configures the Redis-backed storage.
type RedisStorageConfig struct {
	// KeyPrefix prefixes every key: {prefix}:{session}:{key}.
	// Default: "bumpbox:session"
	KeyPrefix string

	// TTL bounds how long a record outlives its last write.
	// Default: 24 hours
	TTL time.Duration
}

type RedisStorage struct {
	client redis.UniversalClient
	config RedisStorageConfig
}

func NewRedisStorage(client redis.UniversalClient, cfg RedisStorageConfig) *RedisStorage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &RedisStorage{client: client, config: cfg}
}

func (s *RedisStorage) redisKey(sessionID, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.config.KeyPrefix, sessionID, key)
}

func (s *RedisStorage) Set(ctx context.Context, sessionID, key string, value []byte) error {
	if err := validate(sessionID, key); err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.redisKey(sessionID, key), value, s.config.TTL).Err(); err != nil {
		logger.FromCtx(ctx).Error("failed to write session record",
			zap.String("layer", "storage"),
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to write session record: %w", err)
	}
	return nil
}

func (s *RedisStorage) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	if err := validate(sessionID, key); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, s.redisKey(sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session record: %w", err)
	}
	return data, nil
}

func (s *RedisStorage) Delete(ctx context.Context, sessionID, key string) error {
	if err := validate(sessionID, key); err != nil {
		return err
	}

	if err := s.client.Del(ctx, s.redisKey(sessionID, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete session record: %w", err)
	}
	return nil
}

// Ping checks connectivity at startup.
func (s *RedisStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
