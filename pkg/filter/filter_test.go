package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAssociative(t *testing.T) {
	assert.True(t, IsAssociative(map[string]any{"name": "Alice"}))
	assert.True(t, IsAssociative(map[string]any{"name": "Alice", "0": 1}))
	assert.False(t, IsAssociative(map[string]any{"0": "a", "1": "b", "2": "c"}))
	assert.False(t, IsAssociative(map[string]any{"-1": "a"}))
	assert.False(t, IsAssociative(map[string]any{}))
	assert.False(t, IsAssociative(nil))
}

func TestStrip(t *testing.T) {
	m := map[string]any{"name": "Alice", "age": 30, "email": "a@example.com"}

	got := Strip(m, "name", "age", "missing")
	assert.Equal(t, map[string]any{"name": "Alice", "age": 30}, got)

	// input untouched
	assert.Len(t, m, 3)

	assert.Empty(t, Strip(m))
	assert.Empty(t, Strip(nil, "name"))
}

func TestExclude(t *testing.T) {
	m := map[string]any{"name": "Alice", "age": 30}

	got := Exclude(m, "age")
	assert.Equal(t, map[string]any{"name": "Alice"}, got)

	assert.Equal(t, m, Exclude(m))
	assert.Empty(t, Exclude(m, "name", "age"))
}

// Strip and Exclude partition the input: their union reconstructs it.
func TestStripExcludePartition(t *testing.T) {
	m := map[string]any{"a": 1, "b": 2, "c": 3, "d": 4}
	keys := []string{"b", "d", "zz"}

	kept := Strip(m, keys...)
	rest := Exclude(m, keys...)

	union := make(map[string]any, len(m))
	for k, v := range kept {
		union[k] = v
	}
	for k, v := range rest {
		_, dup := union[k]
		assert.False(t, dup, "partition overlap on %q", k)
		union[k] = v
	}
	assert.Equal(t, m, union)
}
