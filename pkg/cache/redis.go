package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis cache configuration
type RedisConfig struct {
	RedisURL    string        `json:"redis_url" yaml:"redis_url"`
	KeyPrefix   string        `json:"key_prefix" yaml:"key_prefix"`
	DatabaseNum int           `json:"database_num" yaml:"database_num"`
	TTL         time.Duration `json:"ttl" yaml:"ttl"`
	BatchSize   int           `json:"batch_size" yaml:"batch_size"`
}

// DefaultRedisConfig returns default Redis cache configuration
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		RedisURL:    "redis://localhost:6379",
		KeyPrefix:   "zpam:svm:norm",
		DatabaseNum: 0,
		TTL:         30 * 24 * time.Hour,
		BatchSize:   500,
	}
}

// Redis is a Redis-backed cache
type Redis struct {
	client *redis.Client
	config *RedisConfig
}

// NewRedis connects to Redis and verifies the connection
func NewRedis(config *RedisConfig) (*Redis, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid Redis URL")
	}

	opt.DB = config.DatabaseNum
	client := redis.NewClient(opt)

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "Redis connection failed")
	}

	return &Redis{client: client, config: config}, nil
}

// Get returns a cached value
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "cache get")
	}
	return v, true, nil
}

// Set stores a value with the configured TTL
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.config.TTL).Err(); err != nil {
		return errors.Wrap(err, "cache set")
	}
	return nil
}

// SetMany stores values in pipelined batches
func (r *Redis) SetMany(ctx context.Context, values map[string]string) error {
	pipe := r.client.Pipeline()
	count := 0

	for key, value := range values {
		pipe.Set(ctx, r.key(key), value, r.config.TTL)
		count++

		if r.config.BatchSize > 0 && count >= r.config.BatchSize {
			if _, err := pipe.Exec(ctx); err != nil {
				return errors.Wrap(err, "cache batch set")
			}
			pipe = r.client.Pipeline()
			count = 0
		}
	}

	if count > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return errors.Wrap(err, "cache batch set")
		}
	}

	return nil
}

// Reset deletes every key under the configured prefix
func (r *Redis) Reset(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.key("*"), 1000).Iterator()

	pipe := r.client.Pipeline()
	count := 0

	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		count++

		if count >= max(r.config.BatchSize, 1) {
			if _, err := pipe.Exec(ctx); err != nil {
				return errors.Wrap(err, "cache reset")
			}
			pipe = r.client.Pipeline()
			count = 0
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "cache scan")
	}

	if count > 0 {
		_, err := pipe.Exec(ctx)
		return errors.Wrap(err, "cache reset")
	}

	return nil
}

// Close closes the Redis connection
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(key string) string {
	return fmt.Sprintf("%s:%s", r.config.KeyPrefix, key)
}
