package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient implementa Client usando Redis. Expone Raw() para que el
// rate limiter comparta la misma conexión.
type RedisClient struct {
	client *redis.Client
	prefix string
}

// DialRedis conecta y verifica con PING.
func DialRedis(ctx context.Context, cfg Config) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}
	return NewRedis(rdb, cfg.Prefix), nil
}

// NewRedis envuelve un cliente existente.
func NewRedis(rdb *redis.Client, prefix string) *RedisClient {
	return &RedisClient{client: rdb, prefix: prefix}
}

// Raw devuelve el cliente go-redis subyacente.
func (c *RedisClient) Raw() *redis.Client { return c.client }

func (c *RedisClient) key(k string) string { return c.prefix + k }

func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *RedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *RedisClient) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

func (c *RedisClient) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisClient) Close() error {
	return c.client.Close()
}
