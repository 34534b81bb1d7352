package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRedisClient_DropsExpiredKeys(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryRedisClient(context.Background())
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set("a", "1", time.Minute))
	require.NoError(t, c.Set("b", "2", time.Minute))
	require.NoError(t, c.Set("keep", "3", 0))

	now = now.Add(2 * time.Minute)

	_, err := c.Get("a")
	assert.True(t, errors.Is(err, ErrKeyNotFound))
	assert.NotContains(t, c.data, "a")

	keys, err := c.Keys("*")
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, keys)
	assert.Len(t, c.data, 1)
}
