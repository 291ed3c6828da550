package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammar0144/bean4go/pkg/bean"
	"github.com/ammar0144/bean4go/pkg/store"
)

func newTestClient() (*Client, *store.Memory) {
	mem := store.NewMemory()
	return NewClient(mem), mem
}

func TestCreate(t *testing.T) {
	c, _ := newTestClient()

	b, err := c.Create("user", map[string]any{"name": "Alice", "age": 30})
	require.NoError(t, err)
	assert.Equal(t, "user", b.Kind())
	assert.Zero(t, b.ID(), "create never persists implicitly")
	assert.True(t, b.IsDirty())

	v, _ := b.Get("name")
	assert.Equal(t, "Alice", v)
}

func TestCreateWithFilter(t *testing.T) {
	c, _ := newTestClient()

	b, err := c.Create("user", map[string]any{"name": "Alice", "age": 30}, "age")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"name": "Alice"}, b.Export())
	_, ok := b.Get("age")
	assert.False(t, ok)
}

func TestCreateRejectsNonAssociative(t *testing.T) {
	c, _ := newTestClient()

	// [1, 2, 3] coerced into a mapping
	_, err := c.Create("user", map[string]any{"0": 1, "1": 2, "2": 3})
	assert.ErrorIs(t, err, ErrNotAssociative)

	_, err = c.Create("user", nil)
	assert.ErrorIs(t, err, ErrNotAssociative)
}

func TestCreateRejectsBadKind(t *testing.T) {
	c, _ := newTestClient()

	_, err := c.Create("Drop Table", map[string]any{"name": "x"})
	assert.ErrorIs(t, err, bean.ErrInvalidKind)
}

func TestRead(t *testing.T) {
	ctx := context.Background()
	c, mem := newTestClient()

	b, err := c.Create("user", map[string]any{"name": "Alice"})
	require.NoError(t, err)
	require.NoError(t, mem.Store(ctx, b))

	got, err := c.Read(ctx, "user", b.ID())
	require.NoError(t, err)
	assert.Equal(t, b.ID(), got.ID())
}

func TestReadMissing(t *testing.T) {
	c, _ := newTestClient()

	_, err := c.Read(context.Background(), "user", 404)
	require.Error(t, err)
	assert.ErrorIs(t, err, bean.ErrRecordNotFound)

	var crudErr *CrudError
	require.ErrorAs(t, err, &crudErr)
	assert.Equal(t, OpRead, crudErr.Op)
	assert.Equal(t, "user", crudErr.Kind)
	assert.Equal(t, int64(404), crudErr.ID)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	c, mem := newTestClient()

	b, err := c.Create("user", map[string]any{"name": "Alice"})
	require.NoError(t, err)
	require.NoError(t, mem.Store(ctx, b))

	updated, err := c.Update(b, map[string]any{"name": "Carol", "age": 31}, "age")
	require.NoError(t, err)
	assert.Same(t, b, updated)
	assert.True(t, b.IsDirty(), "update does not persist")

	v, _ := b.Get("name")
	assert.Equal(t, "Carol", v)
	_, ok := b.Get("age")
	assert.False(t, ok, "filtered field must not be imported")

	_, err = c.Update(b, map[string]any{"0": "x"})
	assert.ErrorIs(t, err, ErrNotAssociative)

	_, err = c.Update(nil, map[string]any{"name": "x"})
	assert.ErrorIs(t, err, bean.ErrNilBean)
}

func TestRelate(t *testing.T) {
	ctx := context.Background()
	c, mem := newTestClient()

	customer, err := c.Create("customer", map[string]any{"name": "Acme"})
	require.NoError(t, err)
	require.NoError(t, mem.Store(ctx, customer))

	order, err := c.Create("order", map[string]any{"total": 100})
	require.NoError(t, err)

	data := map[string]any{"total": 100, "customer_id": customer.ID()}
	err = c.Relate(ctx, order, data, map[string]Kind{"customer": BelongsTo})
	require.NoError(t, err)

	assert.True(t, order.HasParentRef("customer"))
	assert.NotZero(t, order.ID(), "dirty beans are persisted after dispatch")
}

func TestRelateSkipsAbsentKeys(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient()

	order, err := c.Create("order", map[string]any{"total": 100})
	require.NoError(t, err)

	err = c.Relate(ctx, order, map[string]any{"total": 100}, map[string]Kind{"customer": BelongsTo})
	require.NoError(t, err)
	assert.False(t, order.HasParentRef("customer"))
}

func TestRelateMissingRelated(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient()

	order, err := c.Create("order", map[string]any{"total": 100})
	require.NoError(t, err)

	err = c.Relate(ctx, order, map[string]any{"customer_id": 999}, map[string]Kind{"customer": BelongsTo})
	assert.ErrorIs(t, err, bean.ErrRecordNotFound)
}

func TestRelateRejectsNonAssociative(t *testing.T) {
	c, _ := newTestClient()

	order, err := c.Create("order", map[string]any{"total": 100})
	require.NoError(t, err)

	err = c.Relate(context.Background(), order, map[string]any{"0": 1}, nil)
	assert.ErrorIs(t, err, ErrNotAssociative)
}

func TestToID(t *testing.T) {
	for _, v := range []any{int64(7), 7, int32(7), uint64(7), float64(7), "7"} {
		id, err := toID(v)
		require.NoError(t, err, "%T", v)
		assert.Equal(t, int64(7), id)
	}

	_, err := toID("seven")
	assert.Error(t, err)
	_, err = toID(struct{}{})
	assert.Error(t, err)
}
