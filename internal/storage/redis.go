package storage

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"

	"github.com/yourname/healthtrack/internal"
)

// RedisStore persists keys in redis without expiry.
type RedisStore struct {
	client *redis.Client
	logger internal.Logger
}

func NewRedisStore(addr, password string, db int, logger internal.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Errorf("storage: failed to connect to redis at %s: %v", addr, err)
		client.Close()
		return nil, err
	}
	return &RedisStore{client: client, logger: logger}, nil
}

// NewRedisStoreWithClient wraps an existing client. Used in tests.
func NewRedisStoreWithClient(client *redis.Client, logger internal.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		s.logger.Errorf("storage: failed to read key %s: %v", key, err)
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		s.logger.Errorf("storage: failed to write key %s: %v", key, err)
		return err
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Errorf("storage: failed to delete key %s: %v", key, err)
		return err
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ KVStore = (*RedisStore)(nil)
