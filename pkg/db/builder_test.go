package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuilder(t *testing.T) {
	b, err := NewBuilder("user")
	require.NoError(t, err)
	assert.Equal(t, "user", b.Table())

	_, err = NewBuilder("users; DROP TABLE users")
	assert.Error(t, err)
	_, err = NewBuilder("")
	assert.Error(t, err)
}

func TestBuildInsert(t *testing.T) {
	b, err := NewBuilder("user")
	require.NoError(t, err)

	query, args, err := b.BuildInsert(map[string]any{"name": "Alice", "age": 30, "id": int64(5)})
	require.NoError(t, err)
	// columns sorted, id skipped
	assert.Equal(t, "INSERT INTO user (age, name) VALUES (?, ?)", query)
	assert.Equal(t, []any{30, "Alice"}, args)
}

func TestBuildInsertEmptyRow(t *testing.T) {
	b, err := NewBuilder("user")
	require.NoError(t, err)

	query, args, err := b.BuildInsert(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO user () VALUES ()", query)
	assert.Nil(t, args)
}

func TestBuildInsertRejectsBadColumn(t *testing.T) {
	b, err := NewBuilder("user")
	require.NoError(t, err)

	_, _, err = b.BuildInsert(map[string]any{"name = '' --": "x"})
	assert.Error(t, err)
}

func TestBuildUpdate(t *testing.T) {
	b, err := NewBuilder("user")
	require.NoError(t, err)

	query, args, err := b.BuildUpdate(map[string]any{"name": "Alice", "age": 31, "id": int64(5)}, 5)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE user SET age = ?, name = ? WHERE id = ?", query)
	assert.Equal(t, []any{31, "Alice", int64(5)}, args)

	_, _, err = b.BuildUpdate(map[string]any{"id": int64(5)}, 5)
	assert.Error(t, err, "update with no settable columns")
}

func TestBuildDelete(t *testing.T) {
	b, err := NewBuilder("user")
	require.NoError(t, err)

	query, args := b.BuildDelete(7)
	assert.Equal(t, "DELETE FROM user WHERE id = ?", query)
	assert.Equal(t, []any{int64(7)}, args)
}

func TestBuildLinkDDL(t *testing.T) {
	ddl, err := BuildLinkDDL("order_user", "order_id", "user_id")
	require.NoError(t, err)
	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS order_user")
	assert.Contains(t, ddl, "UNIQUE KEY uq_link (order_id, user_id)")

	_, err = BuildLinkDDL("bad name", "a_id", "b_id")
	assert.Error(t, err)
}
