package cachestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemCacheStoreBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	cs := NewMemCacheStore(time.Hour)

	val, err := cs.Get(ctx, "analysis", "someuser")
	assert.NoError(err)
	assert.Equal("", val)

	assert.NoError(cs.Set(ctx, "analysis", "someuser", `{"probability":12.5}`))
	val, err = cs.Get(ctx, "analysis", "someuser")
	assert.NoError(err)
	assert.Equal(`{"probability":12.5}`, val)

	// one live entry per key: a fresh set overwrites
	assert.NoError(cs.Set(ctx, "analysis", "someuser", `{"probability":80.0}`))
	val, err = cs.Get(ctx, "analysis", "someuser")
	assert.NoError(err)
	assert.Equal(`{"probability":80.0}`, val)

	assert.NoError(cs.Purge(ctx, "analysis", "someuser"))
	val, err = cs.Get(ctx, "analysis", "someuser")
	assert.NoError(err)
	assert.Equal("", val)
}

func TestMemCacheStoreExpiry(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	cs := NewMemCacheStore(30 * time.Millisecond)
	assert.NoError(cs.Set(ctx, "analysis", "someuser", "payload"))

	val, err := cs.Get(ctx, "analysis", "someuser")
	assert.NoError(err)
	assert.Equal("payload", val)

	time.Sleep(50 * time.Millisecond)

	// lazily evicted on lookup past expiry
	val, err = cs.Get(ctx, "analysis", "someuser")
	assert.NoError(err)
	assert.Equal("", val)
}

func TestMemCacheStoreSweep(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	cs := NewMemCacheStore(20 * time.Millisecond)
	assert.NoError(cs.Set(ctx, "analysis", "a", "1"))
	assert.NoError(cs.Set(ctx, "analysis", "b", "2"))

	time.Sleep(40 * time.Millisecond)
	assert.NoError(cs.Set(ctx, "analysis", "c", "3"))

	assert.Equal(2, cs.Sweep())

	val, err := cs.Get(ctx, "analysis", "c")
	assert.NoError(err)
	assert.Equal("3", val)
}
