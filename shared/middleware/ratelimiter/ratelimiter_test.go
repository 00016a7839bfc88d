package ratelimiter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(rate, capacity float64, ttl time.Duration) (*KeyedLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)}
	l := New(rate, capacity, ttl)
	l.now = clock.now
	return l, clock
}

func TestKeyedLimiter_Allow(t *testing.T) {
	t.Run("allows up to capacity then denies", func(t *testing.T) {
		l, _ := newTestLimiter(1, 3, time.Minute)

		assert.True(t, l.Allow("10.0.0.1"))
		assert.True(t, l.Allow("10.0.0.1"))
		assert.True(t, l.Allow("10.0.0.1"))
		assert.False(t, l.Allow("10.0.0.1"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		l, _ := newTestLimiter(1, 1, time.Minute)

		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))
		assert.True(t, l.Allow("b"))
	})

	t.Run("refills over time without exceeding capacity", func(t *testing.T) {
		l, clock := newTestLimiter(1, 2, time.Minute)

		assert.True(t, l.Allow("a"))
		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))

		clock.advance(10 * time.Second)
		assert.True(t, l.Allow("a"))
		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))
	})

	t.Run("concurrent requests never exceed capacity", func(t *testing.T) {
		l, _ := newTestLimiter(0, 10, time.Minute)

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if l.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 10, allowed)
	})
}

func TestKeyedLimiter_Sweep(t *testing.T) {
	l, clock := newTestLimiter(1, 1, time.Minute)
	l.Allow("old")
	clock.advance(2 * time.Minute)
	l.Allow("fresh")

	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 1, l.Len())
}
