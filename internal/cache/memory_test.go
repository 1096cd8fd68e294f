package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("mc:", time.Minute)

	_, err := c.Get(ctx, "sesion")
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "sesion", "u-1", 0))
	v, err := c.Get(ctx, "sesion")
	require.NoError(t, err)
	assert.Equal(t, "u-1", v)

	ok, err := c.Exists(ctx, "sesion")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "sesion"))
	require.NoError(t, c.Delete(ctx, "sesion"))
	ok, _ = c.Exists(ctx, "sesion")
	assert.False(t, ok)
}

func TestMemory_Expiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("", time.Minute)

	require.NoError(t, c.Set(ctx, "k", "v", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNew_DefaultsToMemory(t *testing.T) {
	c, err := New(context.Background(), Config{Kind: "memory"})
	require.NoError(t, err)
	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}
