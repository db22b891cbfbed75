package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryStore_GetSetExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStoreWithClock(clock.Now)

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", []byte("v1"), 10*time.Second))

	clock.Advance(9 * time.Second)
	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), got)

	clock.Advance(time.Second)
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "entry must expire exactly at the window boundary")
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	value := []byte("original")
	require.NoError(t, store.Set(ctx, "k", value, time.Minute))
	value[0] = 'X'

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "original", string(got))

	got[0] = 'Y'
	again, _, _ := store.Get(ctx, "k")
	assert.Equal(t, "original", string(again))
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Minute))
	}

	require.NoError(t, store.Clear(ctx))

	assert.Equal(t, 0, store.Len())
	_, ok, _ := store.Get(ctx, "k0")
	assert.False(t, ok)
}

func TestMemoryStore_SweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStoreWithClock(clock.Now)

	for i := 0; i < sweepThreshold; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("old%d", i), []byte("v"), time.Second))
	}
	clock.Advance(2 * time.Second)
	require.NoError(t, store.Set(ctx, "fresh", []byte("v"), time.Minute))

	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	values := [][]byte{[]byte("aaaaaaaa"), []byte("bbbbbbbb")}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				switch i % 3 {
				case 0:
					_ = store.Set(ctx, "k", values[w%2], time.Minute)
				case 1:
					if got, ok, _ := store.Get(ctx, "k"); ok {
						assert.Contains(t, []string{"aaaaaaaa", "bbbbbbbb"}, string(got))
					}
				default:
					if i%50 == 2 {
						_ = store.Clear(ctx)
					}
				}
			}
		}(w)
	}
	wg.Wait()
}
