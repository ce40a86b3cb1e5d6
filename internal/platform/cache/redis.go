// Package cache wraps Redis for the two places the site tolerates staleness:
// the trainer directory listing and replayed idempotent POST responses.
// Redis being down degrades to uncached reads, never to request failures.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/juicefit/juice-platform/internal/domain"
	"github.com/juicefit/juice-platform/pkg/config"
	"github.com/juicefit/juice-platform/pkg/logger"
)

const directoryKey = "directory:trainers"

type Redis struct {
	client *redis.Client

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig) *Redis {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		logger.Warn("Invalid Redis URL, bypassing cache", "error", err)
		return &Redis{}
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, bypassing cache", "error", err)
		_ = client.Close()
		return &Redis{}
	}

	return &Redis{client: client}
}

func (r *Redis) available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) warnOnce(err error) {
	if r == nil || err == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		logger.Warn("Redis error, bypassing cache", "error", err)
	}
}

// Get implements middleware.IdempotencyStore. A miss returns "".
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	if !r.available() {
		return "", nil
	}
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		r.warnOnce(err)
		return "", nil
	}
	return val, nil
}

// Set implements middleware.IdempotencyStore.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if !r.available() {
		return nil
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

// GetDirectory returns the cached trainer listing, or (nil, false) on any
// miss or error.
func (r *Redis) GetDirectory(ctx context.Context) ([]domain.Trainer, bool) {
	if !r.available() {
		return nil, false
	}
	raw, err := r.client.Get(ctx, directoryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.warnOnce(err)
		return nil, false
	}

	var trainers []domain.Trainer
	if err := json.Unmarshal(raw, &trainers); err != nil {
		r.warnOnce(err)
		return nil, false
	}
	return trainers, true
}

func (r *Redis) SetDirectory(ctx context.Context, trainers []domain.Trainer, ttl time.Duration) {
	if !r.available() {
		return
	}
	raw, err := json.Marshal(trainers)
	if err != nil {
		r.warnOnce(err)
		return
	}
	if err := r.client.Set(ctx, directoryKey, raw, ttl).Err(); err != nil {
		r.warnOnce(err)
	}
}

// InvalidateDirectory drops the cached listing after a profile change.
func (r *Redis) InvalidateDirectory(ctx context.Context) {
	if !r.available() {
		return
	}
	if err := r.client.Del(ctx, directoryKey).Err(); err != nil {
		r.warnOnce(err)
	}
}

func (r *Redis) Close() error {
	if !r.available() {
		return nil
	}
	return r.client.Close()
}
