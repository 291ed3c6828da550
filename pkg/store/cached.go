package store

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ammar0144/bean4go/pkg/bean"
	"github.com/ammar0144/bean4go/pkg/redis"
)

// Cache key constants for consistent key generation
const (
	cacheKeyPrefix     = "bean4go"
	cacheKeySeparator  = ":"
	cacheKeyHashLength = 12
)

// snapshot is the msgpack wire form of a cached bean
type snapshot struct {
	ID     int64          `msgpack:"id"`
	Fields map[string]any `msgpack:"fields"`
}

// Cached decorates another Storer with a Redis read-through cache for
// Load and FindOne. Writes invalidate per-kind key patterns. The cache
// is strictly best-effort: a cache failure never fails the underlying
// operation, it is only logged.
type Cached struct {
	inner bean.Storer
	cache *redis.Manager
	log   zerolog.Logger
}

// NewCached wraps inner with the given cache manager
func NewCached(inner bean.Storer, cache *redis.Manager) *Cached {
	return &Cached{
		inner: inner,
		cache: cache,
		log:   zerolog.Nop(),
	}
}

// WithLogger returns a copy of the store using the given logger
func (s *Cached) WithLogger(log zerolog.Logger) *Cached {
	out := *s
	out.log = log
	return &out
}

// Dispense creates a new unsaved bean of the given kind
func (s *Cached) Dispense(kind string) (*bean.Bean, error) {
	return s.inner.Dispense(kind)
}

// Load fetches a bean by id, serving cached snapshots when available
func (s *Cached) Load(ctx context.Context, kind string, id int64) (*bean.Bean, error) {
	key := s.idKey(kind, id)

	if b, ok := s.cachedBean(ctx, kind, key); ok {
		return b, nil
	}

	b, err := s.inner.Load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if b.ID() != 0 {
		s.cacheBean(ctx, key, b)
	}
	return b, nil
}

// FindOne returns the first matching bean, caching positive results
// under a hash of the query.
func (s *Cached) FindOne(ctx context.Context, kind, where string, args ...any) (*bean.Bean, error) {
	key := s.queryKey(kind, where, args...)

	if b, ok := s.cachedBean(ctx, kind, key); ok {
		return b, nil
	}

	b, err := s.inner.FindOne(ctx, kind, where, args...)
	if err != nil {
		return nil, err
	}
	if b != nil {
		s.cacheBean(ctx, key, b)
	}
	return b, nil
}

// Store persists through the inner store and invalidates the kind's
// cached entries, including those of serialized owned collections.
func (s *Cached) Store(ctx context.Context, b *bean.Bean) error {
	if b == nil {
		return bean.ErrNilBean
	}

	ownedKinds := b.OwnedKinds()
	if err := s.inner.Store(ctx, b); err != nil {
		return err
	}

	s.invalidateKind(ctx, b.Kind())
	for _, kind := range ownedKinds {
		s.invalidateKind(ctx, kind)
	}
	return nil
}

// RelatedOne passes through; link lookups are not cached
func (s *Cached) RelatedOne(ctx context.Context, b *bean.Bean, kind string) (*bean.Bean, error) {
	return s.inner.RelatedOne(ctx, b, kind)
}

// AreRelated passes through; link lookups are not cached
func (s *Cached) AreRelated(ctx context.Context, a, b *bean.Bean) (bool, error) {
	return s.inner.AreRelated(ctx, a, b)
}

// Associate passes through and invalidates both kinds, since unsaved
// operands may have been stored by the inner implementation.
func (s *Cached) Associate(ctx context.Context, a, b *bean.Bean) error {
	if err := s.inner.Associate(ctx, a, b); err != nil {
		return err
	}
	s.invalidateKind(ctx, a.Kind())
	if b.Kind() != a.Kind() {
		s.invalidateKind(ctx, b.Kind())
	}
	return nil
}

func (s *Cached) idKey(kind string, id int64) string {
	return fmt.Sprintf("%s%s%s%sid%s%d", cacheKeyPrefix, cacheKeySeparator, kind, cacheKeySeparator, cacheKeySeparator, id)
}

// queryKey hashes the where clause and arguments with xxhash for short,
// consistent keys.
func (s *Cached) queryKey(kind, where string, args ...any) string {
	combined := where + cacheKeySeparator + fmt.Sprint(args...)
	hash := fmt.Sprintf("%016x", xxhash.Sum64String(combined))
	return fmt.Sprintf("%s%s%s%sq%s%s", cacheKeyPrefix, cacheKeySeparator, kind, cacheKeySeparator, cacheKeySeparator, hash[:cacheKeyHashLength])
}

func (s *Cached) cachedBean(ctx context.Context, kind, key string) (*bean.Bean, bool) {
	data, err := s.cache.GetBytes(ctx, key)
	if err != nil {
		if !redis.IsKeyNotFound(err) && !redis.IsCacheDisabled(err) {
			s.log.Debug().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil, false
	}

	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("cache decode failed")
		return nil, false
	}

	b, err := bean.New(kind)
	if err != nil {
		return nil, false
	}
	b.Hydrate(snap.ID, snap.Fields)
	return b, true
}

func (s *Cached) cacheBean(ctx context.Context, key string, b *bean.Bean) {
	data, err := msgpack.Marshal(snapshot{ID: b.ID(), Fields: b.Export()})
	if err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := s.cache.SetBytes(ctx, key, data); err != nil && !redis.IsCacheDisabled(err) {
		s.log.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (s *Cached) invalidateKind(ctx context.Context, kind string) {
	pattern := fmt.Sprintf("%s%s%s%s*", cacheKeyPrefix, cacheKeySeparator, kind, cacheKeySeparator)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil && !redis.IsCacheDisabled(err) {
		s.log.Debug().Err(err).Str("pattern", pattern).Msg("cache invalidation failed")
	}
}
