package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetNX(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ok, err := s.SetNX(ctx, "idem:k1", "order-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetNX(ctx, "idem:k1", "order-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	v, found, err := s.Get(ctx, "idem:k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "order-1", v)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "intent:ORD-1", "{}", time.Minute))

	now = now.Add(59 * time.Second)
	_, found, _ := s.Get(ctx, "intent:ORD-1")
	assert.True(t, found)

	now = now.Add(time.Second)
	_, found, _ = s.Get(ctx, "intent:ORD-1")
	assert.False(t, found)

	ok, _ := s.SetNX(ctx, "intent:ORD-1", "{}", time.Minute)
	assert.True(t, ok, "expired key can be claimed again")
}

func TestMemoryStoreDel(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "k", "v", 0))
	require.NoError(t, s.Del(ctx, "k"))

	_, found, _ := s.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemoryStoreSetNXSingleWinner(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := s.SetNX(ctx, "idem:race", "x", time.Minute)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}
