package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only against a live server: REALTY_TEST_REDIS_ADDR=localhost:6379.
func TestRedisCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("REALTY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("REALTY_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c := NewRedisCache(addr)
	defer c.Close()
	require.NoError(t, c.Ping(ctx))

	key := "calc:test:" + time.Now().Format(time.RFC3339Nano)
	require.NoError(t, c.Set(ctx, key, "cached", time.Minute))

	val, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "cached", val)
}

func TestRedisCache_MissOnUnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	c := NewRedisCache("127.0.0.1:1")
	defer c.Close()

	_, ok := c.Get(ctx, "anything")
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, "anything", "v", time.Minute))
}
