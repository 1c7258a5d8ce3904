package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ReadThenOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.PreviousStatus(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok, "fresh session has no record")

	require.NoError(t, store.SetPreviousStatus(ctx, "s1", "pending"))

	slug, ok, err := store.PreviousStatus(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "pending", slug)

	// Empty slug is a valid record meaning "all orders".
	require.NoError(t, store.SetPreviousStatus(ctx, "s1", ""))
	slug, ok, err = store.PreviousStatus(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", slug)
}

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.SetPreviousStatus(ctx, "a", "completed"))

	_, ok, err := store.PreviousStatus(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}
