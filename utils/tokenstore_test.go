package utils

import (
	"context"
	"testing"
	"time"

	"github.com/sharath018/event-management-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "reset_token:abc", "7", 15*time.Minute))
	require.NoError(t, store.Set(ctx, "forever", "x", 0))

	val, err := store.Get(ctx, "reset_token:abc")
	require.NoError(t, err)
	assert.Equal(t, "7", val)

	now = now.Add(15 * time.Minute)
	_, err = store.Get(ctx, "reset_token:abc")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	val, err = store.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "x", val)

	require.NoError(t, store.Delete(ctx, "forever"))
	_, err = store.Get(ctx, "forever")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestNewTokenStoreFallsBackToMemory(t *testing.T) {
	store, err := NewTokenStore(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryTokenStore{}, store)
}
