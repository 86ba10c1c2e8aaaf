package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock permite avanzar el tiempo en los tests
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTokenBucket_AllowUntilEmpty(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	tb := newTokenBucket(3, 1, clock.Now)

	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow(), "request %d", i)
	}
	assert.False(t, tb.Allow())
	assert.Equal(t, 0, tb.Tokens())
}

func TestTokenBucket_Refill(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	tb := newTokenBucket(2, 2, clock.Now)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	// medio segundo a 2 tokens/s alcanza para uno
	clock.Advance(500 * time.Millisecond)
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	// nunca supera la capacidad
	clock.Advance(time.Hour)
	assert.Equal(t, 2, tb.Tokens())
}

func TestTokenBucket_FractionalRefillAccumulates(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	tb := newTokenBucket(1, 1, clock.Now)
	assert.True(t, tb.Allow())

	for i := 0; i < 4; i++ {
		clock.Advance(250 * time.Millisecond)
	}
	assert.True(t, tb.Allow())
}

func TestChatLimiter_SeparateBuckets(t *testing.T) {
	cl := NewChatLimiter(1, 1, 10)
	clock := &fakeClock{now: time.Unix(0, 0)}
	cl.now = clock.Now

	allowed, _ := cl.Allow("chat:1")
	assert.True(t, allowed)
	allowed, remaining := cl.Allow("chat:1")
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _ = cl.Allow("chat:2")
	assert.True(t, allowed, "other chats keep their own budget")
}

func TestChatLimiter_EvictedChatStartsFull(t *testing.T) {
	cl := NewChatLimiter(1, 1, 2)
	clock := &fakeClock{now: time.Unix(0, 0)}
	cl.now = clock.Now

	allowed, _ := cl.Allow("chat:1")
	assert.True(t, allowed)

	// dos chats nuevos desalojan al primero
	for i := 2; i <= 3; i++ {
		cl.Allow(fmt.Sprintf("chat:%d", i))
	}

	allowed, _ = cl.Allow("chat:1")
	assert.True(t, allowed)
}

func TestChatLimiter_Concurrent(t *testing.T) {
	cl := NewChatLimiter(50, 0, 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := cl.Allow("chat:busy"); ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, granted)
}
