// Package tokenstore holds expiring, single-use values: password reset tokens
// and email OTPs. Values are removed on first read or on expiry.
package tokenstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the expiring key-value contract shared by the Redis and in-memory
// implementations.
type Store interface {
	// Put stores value under key for at most ttl.
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	// Take returns the live value for key and consumes it. The second return
	// is false when the key is absent or expired.
	Take(ctx context.Context, key string) (string, bool, error)
}

// Redis backs the store with a shared Redis instance.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an existing client. The prefix namespaces keys, e.g. "otp:".
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

func (r *Redis) Take(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.GetDel(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is the in-process fallback used when no Redis address is configured
// and in tests. A background janitor sweeps expired entries.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	done    chan struct{}
}

// NewMemory creates an in-memory store sweeping expired entries once a minute.
func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}
	go m.sweep(time.Minute)
	return m
}

func (m *Memory) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for k, e := range m.entries {
				if now.After(e.expiresAt) {
					delete(m.entries, k)
				}
			}
			m.mu.Unlock()
		}
	}
}

func (m *Memory) Put(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *Memory) Take(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	delete(m.entries, key)
	if time.Now().After(e.expiresAt) {
		return "", false, nil
	}
	return e.value, true, nil
}

// Close stops the janitor.
func (m *Memory) Close() {
	close(m.done)
}
