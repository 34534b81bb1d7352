package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-finder/db"
)

// Real Redis/Valkey clients can be added to these tables for integration runs.
func clients() []struct {
	name   string
	client db.RedisClient
} {
	return []struct {
		name   string
		client db.RedisClient
	}{
		{"MemoryRedisClient", db.NewMemoryRedisClient(context.Background())},
	}
}

func TestRedisClient_SetAndGet(t *testing.T) {
	for _, test := range clients() {
		t.Run(test.name, func(t *testing.T) {
			require.NoError(t, test.client.Set("test-key", "test-value", 0))

			retrieved, err := test.client.Get("test-key")
			require.NoError(t, err)
			assert.Equal(t, "test-value", retrieved)
		})
	}
}

func TestRedisClient_GetMissingKey(t *testing.T) {
	for _, test := range clients() {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.client.Get("missing")
			assert.True(t, errors.Is(err, db.ErrKeyNotFound))
		})
	}
}

func TestRedisClient_DelAndKeys(t *testing.T) {
	for _, test := range clients() {
		t.Run(test.name, func(t *testing.T) {
			c := test.client
			require.NoError(t, c.Set("criteria:b", "2", 0))
			require.NoError(t, c.Set("criteria:a", "1", 0))
			require.NoError(t, c.Set("catalog", "x", 0))

			keys, err := c.Keys("criteria:*")
			require.NoError(t, err)
			assert.Equal(t, []string{"criteria:a", "criteria:b"}, keys)

			require.NoError(t, c.Del("criteria:a"))
			require.NoError(t, c.Del("criteria:a"))
			keys, err = c.Keys("criteria:*")
			require.NoError(t, err)
			assert.Equal(t, []string{"criteria:b"}, keys)
		})
	}
}

func TestRedisClient_Ping(t *testing.T) {
	for _, test := range clients() {
		t.Run(test.name, func(t *testing.T) {
			assert.NoError(t, test.client.Ping())
			assert.NotNil(t, test.client.GetContext())
		})
	}
}

func TestMemoryRedisClient_TTL(t *testing.T) {
	c := db.NewMemoryRedisClient(context.Background())
	require.NoError(t, c.Set("short", "v", time.Nanosecond))
	require.NoError(t, c.Set("forever", "v", 0))
	time.Sleep(time.Millisecond)

	_, err := c.Get("short")
	assert.True(t, errors.Is(err, db.ErrKeyNotFound))

	keys, err := c.Keys("*")
	require.NoError(t, err)
	assert.Equal(t, []string{"forever"}, keys)
}
