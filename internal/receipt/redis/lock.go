package redis

import (
	"context"
	"fmt"
	"time"

	"ms-restaurant/internal/logger"

	"github.com/go-redis/redis/v8"
)

const defaultLockTTL = 24 * time.Hour

// Redis claims receipt numbers with SETNX so two sessions sharing a
// receipt directory do not hand out the same number while the claim lives.
type Redis struct {
	Client *redis.Client
	TTL    time.Duration
	Owner  string
	Logger *logger.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, owner string, log *logger.Logger) *Redis {
	if ttl <= 0 {
		log.Warn("REDIS", fmt.Sprintf("Invalid receipt lock TTL %s, using default %s", ttl, defaultLockTTL))
		ttl = defaultLockTTL
	}
	return &Redis{Client: client, TTL: ttl, Owner: owner, Logger: log}
}

func key(number int) string {
	return fmt.Sprintf("receipt_number:%d", number)
}

// Reserve returns true when the number was free and is now held by Owner.
func (r *Redis) Reserve(ctx context.Context, number int) (bool, error) {
	ok, err := r.Client.SetNX(ctx, key(number), r.Owner, r.TTL).Result()
	if err != nil {
		return false, err
	}
	if !ok {
		r.Logger.Debug("REDIS", fmt.Sprintf("Receipt number %d already claimed", number))
	}
	return ok, nil
}

// Release drops the claim if Owner still holds it.
func (r *Redis) Release(ctx context.Context, number int) error {
	val, err := r.Client.Get(ctx, key(number)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if val != r.Owner {
		return nil
	}
	return r.Client.Del(ctx, key(number)).Err()
}

// Holder reports who claimed the number, or "" when it is free.
func (r *Redis) Holder(ctx context.Context, number int) (string, error) {
	val, err := r.Client.Get(ctx, key(number)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// Connect opens a client and verifies it answers PING.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection error: %w", err)
	}
	return client, nil
}
