package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammar0144/bean4go/pkg/redis"
)

// With a disabled cache every operation must transparently fall through
// to the inner store; cache unavailability is never a failure.
func TestCachedPassThroughWhenDisabled(t *testing.T) {
	ctx := context.Background()
	cache, err := redis.NewManager(&redis.Config{})
	require.NoError(t, err)

	s := NewCached(NewMemory(), cache)

	b, err := s.Dispense("user")
	require.NoError(t, err)
	b.Set("name", "Alice")
	require.NoError(t, s.Store(ctx, b))
	require.NotZero(t, b.ID())

	loaded, err := s.Load(ctx, "user", b.ID())
	require.NoError(t, err)
	v, _ := loaded.Get("name")
	assert.Equal(t, "Alice", v)

	found, err := s.FindOne(ctx, "user", "name = ?", "Alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, b.ID(), found.ID())

	missing, err := s.Load(ctx, "user", 404)
	require.NoError(t, err)
	assert.Zero(t, missing.ID())

	other, err := s.Dispense("role")
	require.NoError(t, err)
	require.NoError(t, s.Associate(ctx, b, other))
	related, err := s.AreRelated(ctx, b, other)
	require.NoError(t, err)
	assert.True(t, related)

	got, err := s.RelatedOne(ctx, b, "role")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, other.ID(), got.ID())
}

func TestCacheKeys(t *testing.T) {
	cache, err := redis.NewManager(&redis.Config{})
	require.NoError(t, err)
	s := NewCached(NewMemory(), cache)

	assert.Equal(t, "bean4go:user:id:7", s.idKey("user", 7))

	// query keys are stable for identical queries and scoped per kind
	k1 := s.queryKey("user", "name = ?", "Alice")
	k2 := s.queryKey("user", "name = ?", "Alice")
	k3 := s.queryKey("user", "name = ?", "Bob")
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Contains(t, k1, "bean4go:user:q:")
}
