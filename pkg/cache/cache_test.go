package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	c := New(10)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []byte("v"), time.Minute)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestTTLExpiry(t *testing.T) {
	c := New(10)
	c.Set("k", []byte("v"), 20*time.Millisecond)

	_, ok := c.Get("k")
	assert.True(t, ok)

	time.Sleep(30 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry should be swept on read")
}

func TestOverwriteRefreshesEntry(t *testing.T) {
	c := New(10)
	c.Set("k", []byte("old"), time.Minute)
	c.Set("k", []byte("new"), time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
	assert.Equal(t, 1, c.Len())
}

func TestCapacityEvictsOldestInsertion(t *testing.T) {
	c := New(3)
	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), []byte{byte(i)}, time.Minute)
	}

	// Reading k0 must not protect it: eviction is insertion-ordered,
	// not LRU.
	_, ok := c.Get("k0")
	require.True(t, ok)

	c.Set("k3", []byte{3}, time.Minute)

	_, ok = c.Get("k0")
	assert.False(t, ok)
	for i := 1; i <= 3; i++ {
		_, ok := c.Get(fmt.Sprintf("k%d", i))
		assert.True(t, ok, "k%d should survive", i)
	}
}

func TestUnboundedWhenCapacityZero(t *testing.T) {
	c := New(0)
	for i := 0; i < 100; i++ {
		c.Set(fmt.Sprintf("k%d", i), nil, time.Minute)
	}
	assert.Equal(t, 100, c.Len())
}

func TestStats(t *testing.T) {
	c := New(10)
	c.Set("k", []byte("v"), time.Minute)

	c.Get("k")
	c.Get("k")
	c.Get("absent")

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestConcurrentAccess(t *testing.T) {
	c := New(50)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", j%20)
				c.Set(key, []byte{byte(n)}, time.Minute)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 20)
}
