package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implementa Client sobre go-cache.
type memoryClient struct {
	prefix string
	c      *gocache.Cache
}

// NewMemory crea un cliente en memoria. Las entradas expiradas se purgan cada minuto.
func NewMemory(prefix string, defaultTTL time.Duration) Client {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &memoryClient{prefix: prefix, c: gocache.New(defaultTTL, time.Minute)}
}

func (m *memoryClient) key(k string) string { return m.prefix + k }

func (m *memoryClient) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(m.key(key))
	if !ok {
		return "", ErrNotFound
	}
	s, _ := v.(string)
	return s, nil
}

func (m *memoryClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(m.key(key), value, ttl)
	return nil
}

func (m *memoryClient) Delete(_ context.Context, key string) error {
	m.c.Delete(m.key(key))
	return nil
}

func (m *memoryClient) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.c.Get(m.key(key))
	return ok, nil
}

func (m *memoryClient) Ping(context.Context) error { return nil }

func (m *memoryClient) Close() error {
	m.c.Flush()
	return nil
}
