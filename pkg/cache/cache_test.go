package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	hit, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, out)

	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Ping(ctx))
}

func TestCacheWithoutClientIsNoop(t *testing.T) {
	c := New(nil, "test:")
	var out string
	hit, err := c.Get(context.Background(), "missing", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "test:abc", c.key("abc"))
}
