package flag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisOptions struct {
	Address  string
	Password string
	DB       int
	// TTL of zero keeps flags until cleared.
	TTL time.Duration
}

func NewRedis(opts RedisOptions) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return &Redis{client: rdb, ttl: opts.TTL}
}

// Ping tests the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) IsSubmitted(ctx context.Context, visitorID string) (bool, error) {
	v, err := r.client.Get(ctx, Key(visitorID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get flag: %w", err)
	}
	return v == "true", nil
}

func (r *Redis) MarkSubmitted(ctx context.Context, visitorID string) error {
	if err := r.client.Set(ctx, Key(visitorID), "true", r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set flag: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context, visitorID string) error {
	if err := r.client.Del(ctx, Key(visitorID)).Err(); err != nil {
		return fmt.Errorf("redis del flag: %w", err)
	}
	return nil
}
