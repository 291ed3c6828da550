// Package redis provides the cache manager used by the cached bean
// store. Values are opaque byte payloads; serialization is the caller's
// concern.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Manager manages the Redis connection and cache operations
type Manager struct {
	config  *Config
	client  redis.UniversalClient
	metrics *Metrics
}

// NewManager creates a new Redis cache manager. A disabled config yields
// a manager whose operations return ErrCacheDisabled.
func NewManager(config *Config) (*Manager, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}

	m := &Manager{
		config:  config,
		metrics: NewMetrics(),
	}

	if config.Enabled {
		m.client = redis.NewClient(&redis.Options{
			Addr:         config.GetAddr(),
			Password:     config.Password,
			DB:           config.Database,
			PoolSize:     config.PoolSize,
			MinIdleConns: config.MinIdleConns,
			DialTimeout:  config.DialTimeout,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
		})
	}

	return m, nil
}

// Metrics returns the manager's cache counters
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// Enabled reports whether the cache is active
func (m *Manager) Enabled() bool {
	return m.config.Enabled && m.client != nil
}

func (m *Manager) check(key string) error {
	if !m.config.Enabled {
		return ErrCacheDisabled
	}
	if m.client == nil {
		return ErrClientNotInitialized
	}
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}

// GetBytes fetches a cached payload. Returns ErrKeyNotFound when the key
// does not exist.
func (m *Manager) GetBytes(ctx context.Context, key string) ([]byte, error) {
	if err := m.check(key); err != nil {
		return nil, err
	}

	data, err := m.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			m.metrics.recordMiss()
			return nil, ErrKeyNotFound
		}
		m.metrics.recordError()
		return nil, fmt.Errorf("cache get failed: %w", err)
	}

	m.metrics.recordHit()
	return data, nil
}

// SetBytes stores a payload under the configured TTL
func (m *Manager) SetBytes(ctx context.Context, key string, data []byte) error {
	if err := m.check(key); err != nil {
		return err
	}

	if err := m.client.Set(ctx, key, data, m.config.TTL).Err(); err != nil {
		m.metrics.recordError()
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Delete removes the given keys
func (m *Manager) Delete(ctx context.Context, keys ...string) error {
	if !m.config.Enabled {
		return ErrCacheDisabled
	}
	if m.client == nil {
		return ErrClientNotInitialized
	}
	if len(keys) == 0 {
		return nil
	}

	if err := m.client.Del(ctx, keys...).Err(); err != nil {
		m.metrics.recordError()
		return fmt.Errorf("cache delete failed: %w", err)
	}
	m.metrics.recordInvalidation()
	return nil
}

// DeletePattern removes all keys matching a glob pattern using SCAN to
// avoid blocking the server the way KEYS would.
func (m *Manager) DeletePattern(ctx context.Context, pattern string) error {
	if err := m.check(pattern); err != nil {
		return err
	}

	iter := m.client.Scan(ctx, 0, pattern, 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 100 {
			if err := m.client.Del(ctx, batch...).Err(); err != nil {
				m.metrics.recordError()
				return fmt.Errorf("cache pattern delete failed: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		m.metrics.recordError()
		return fmt.Errorf("cache scan failed: %w", err)
	}
	if len(batch) > 0 {
		if err := m.client.Del(ctx, batch...).Err(); err != nil {
			m.metrics.recordError()
			return fmt.Errorf("cache pattern delete failed: %w", err)
		}
	}

	m.metrics.recordInvalidation()
	return nil
}

// Ping tests the Redis connection
func (m *Manager) Ping(ctx context.Context) error {
	if !m.config.Enabled {
		return ErrCacheDisabled
	}
	if m.client == nil {
		return ErrClientNotInitialized
	}
	return m.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (m *Manager) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}
