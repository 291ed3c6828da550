package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAndLoad(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	b, err := s.Dispense("user")
	require.NoError(t, err)
	b.Set("name", "Alice")

	require.NoError(t, s.Store(ctx, b))
	assert.Equal(t, int64(1), b.ID())
	assert.False(t, b.IsDirty())

	loaded, err := s.Load(ctx, "user", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.ID())
	v, _ := loaded.Get("name")
	assert.Equal(t, "Alice", v)

	// ids are per kind
	o, err := s.Dispense("order")
	require.NoError(t, err)
	require.NoError(t, s.Store(ctx, o))
	assert.Equal(t, int64(1), o.ID())
}

func TestMemoryLoadMissing(t *testing.T) {
	s := NewMemory()

	b, err := s.Load(context.Background(), "user", 404)
	require.NoError(t, err)
	assert.Zero(t, b.ID(), "missing rows yield an empty sentinel bean")
}

func TestMemoryUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	b, err := s.Dispense("user")
	require.NoError(t, err)
	b.Set("name", "Alice")
	require.NoError(t, s.Store(ctx, b))

	b.Set("name", "Carol")
	require.NoError(t, s.Store(ctx, b))
	assert.Equal(t, int64(1), b.ID())

	loaded, err := s.Load(ctx, "user", 1)
	require.NoError(t, err)
	v, _ := loaded.Get("name")
	assert.Equal(t, "Carol", v)
}

func TestMemoryFindOne(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	for _, name := range []string{"Alice", "Bob"} {
		b, err := s.Dispense("user")
		require.NoError(t, err)
		b.Set("name", name)
		require.NoError(t, s.Store(ctx, b))
	}

	found, err := s.FindOne(ctx, "user", "name = ?", "Bob")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(2), found.ID())

	found, err = s.FindOne(ctx, "user", "name = ?", "Nobody")
	require.NoError(t, err)
	assert.Nil(t, found)

	_, err = s.FindOne(ctx, "user", "name LIKE ?", "%")
	assert.Error(t, err, "only single-column equality is supported")
}

func TestMemoryAssociate(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	a, err := s.Dispense("user")
	require.NoError(t, err)
	b, err := s.Dispense("role")
	require.NoError(t, err)

	related, err := s.AreRelated(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, related, "unsaved beans are never related")

	require.NoError(t, s.Associate(ctx, a, b))
	assert.NotZero(t, a.ID(), "associate stores unsaved operands")
	assert.NotZero(t, b.ID())

	related, err = s.AreRelated(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, related)

	// symmetric regardless of operand order
	related, err = s.AreRelated(ctx, b, a)
	require.NoError(t, err)
	assert.True(t, related)
}

func TestMemoryRelatedOne(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	user, err := s.Dispense("user")
	require.NoError(t, err)
	profile, err := s.Dispense("profile")
	require.NoError(t, err)
	require.NoError(t, s.Associate(ctx, user, profile))

	got, err := s.RelatedOne(ctx, user, "profile")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, profile.ID(), got.ID())

	got, err = s.RelatedOne(ctx, profile, "user")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID(), got.ID())

	other, err := s.Dispense("user")
	require.NoError(t, err)
	require.NoError(t, s.Store(ctx, other))
	got, err = s.RelatedOne(ctx, other, "profile")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreSerializesOwned(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	order, err := s.Dispense("order")
	require.NoError(t, err)
	item, err := s.Dispense("item")
	require.NoError(t, err)
	item.Set("sku", "X-1")
	order.AddOwned(item)

	require.NoError(t, s.Store(ctx, order))
	require.NotZero(t, item.ID(), "owned children are stored with the owner")

	loaded, err := s.Load(ctx, "item", item.ID())
	require.NoError(t, err)
	fk, _ := loaded.Get("order_id")
	assert.Equal(t, order.ID(), fk)
}
