package cachekv

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRoundTrip(t *testing.T) {
	c := New()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestGetMissingKeyReturnsNilNoError(t *testing.T) {
	c := New()
	got, err := c.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSetWithTTLExpires(t *testing.T) {
	c := New()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeletePrefixRemovesMatchingKeys(t *testing.T) {
	c := New()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "users:get:1", []byte("a"), 0))
	require.NoError(t, c.Set(ctx, "users:get:2", []byte("b"), 0))
	require.NoError(t, c.Set(ctx, "posts:get:1", []byte("c"), 0))

	require.NoError(t, c.DeletePrefix(ctx, "users:"))

	got, _ := c.Get(ctx, "users:get:1")
	assert.Nil(t, got)
	got, _ = c.Get(ctx, "posts:get:1")
	assert.NotNil(t, got)
}

func TestGetOrLoadCachesEncodedValue(t *testing.T) {
	c := New()
	ctx := context.Background()
	var calls int32

	load := func() (string, error) {
		atomic.AddInt32(&calls, 1)
		return "hello", nil
	}

	v1, err := GetOrLoad(ctx, c, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "hello", v1)

	v2, err := GetOrLoad(ctx, c, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "hello", v2)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGetOrLoadPropagatesLoadError(t *testing.T) {
	c := New()
	ctx := context.Background()
	sentinel := assert.AnError

	_, err := GetOrLoad(ctx, c, "k", time.Minute, func() (int, error) {
		return 0, sentinel
	})
	require.Error(t, err)
	assert.Same(t, sentinel, err)
}
