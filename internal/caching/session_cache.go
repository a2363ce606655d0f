// Package caching provides the redis-backed session cache the auth adapter
// uses for session tokens, password-reset tokens and sign-in rate limiting.
package caching

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "repuestos:"

type SessionCache interface {
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	// GetString returns "" without error on a cache miss.
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	// IsRateLimited reports whether key has accumulated at least limit
	// recorded failures. It never counts the attempt itself.
	IsRateLimited(ctx context.Context, key string, limit int) (bool, error)
	// RecordFailure counts one failed attempt against key; the counter
	// expires window after the first failure.
	RecordFailure(ctx context.Context, key string, window time.Duration) error
	// ResetFailures discards the failure counter for key.
	ResetFailures(ctx context.Context, key string) error
}

type redisSessionCache struct {
	client *redis.Client
}

func NewRedisSessionCache(addr, password string, db int) SessionCache {
	// Accept redis:// URLs as well as bare host:port.
	parsedAddr := addr
	if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
		parsedAddr = hostPort
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})
	return &redisSessionCache{client: client}
}

func (r *redisSessionCache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, keyPrefix+key, value, ttl).Err()
}

func (r *redisSessionCache) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisSessionCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, keyPrefix+key).Err()
}

func (r *redisSessionCache) IsRateLimited(ctx context.Context, key string, limit int) (bool, error) {
	val, err := r.client.Get(ctx, failureKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return true, err
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		return true, err
	}
	return count >= limit, nil
}

func (r *redisSessionCache) RecordFailure(ctx context.Context, key string, window time.Duration) error {
	count, err := r.client.Incr(ctx, failureKey(key)).Result()
	if err != nil {
		return err
	}

	// The window opens at the first failure.
	if count == 1 {
		return r.client.Expire(ctx, failureKey(key), window).Err()
	}
	return nil
}

func (r *redisSessionCache) ResetFailures(ctx context.Context, key string) error {
	return r.client.Del(ctx, failureKey(key)).Err()
}

func failureKey(key string) string {
	return keyPrefix + "ratelimit:" + key
}
