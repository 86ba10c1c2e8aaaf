package ratelimit

import (
	"sync"
	"time"

	"github.com/marstr/collection/v2"
)

// DefaultMaxClients es la cantidad de chats con bucket propio que se recuerdan
const DefaultMaxClients = 10000

// TokenBucket implements a simple token bucket rate limiter
type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64   // Maximum number of tokens
	tokens     float64   // Current number of tokens
	refillRate float64   // Tokens per second
	lastRefill time.Time // Last refill time
	now        func() time.Time
}

// NewTokenBucket creates a new token bucket rate limiter
// capacity: maximum number of tokens in the bucket
// refillRate: number of tokens added per second
func NewTokenBucket(capacity, refillRate int) *TokenBucket {
	return newTokenBucket(capacity, refillRate, time.Now)
}

func newTokenBucket(capacity, refillRate int, now func() time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity), // Start with full bucket
		refillRate: float64(refillRate),
		lastRefill: now(),
		now:        now,
	}
}

// Allow consume un token si hay disponible
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// Tokens returns the current number of whole tokens available
func (tb *TokenBucket) Tokens() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	return int(tb.tokens)
}

// refill suma tokens por el tiempo transcurrido, sin pasar la capacidad.
// Must be called with lock held
func (tb *TokenBucket) refill() {
	now := tb.now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}

	tb.tokens += elapsed * tb.refillRate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
	tb.lastRefill = now
}

// ChatLimiter mantiene un bucket por chat. Los buckets viven en un LRU acotado:
// un chat desalojado vuelve con el bucket lleno.
type ChatLimiter struct {
	mu         sync.Mutex
	buckets    *collection.LRUCache[string, *TokenBucket]
	capacity   int
	refillRate int
	maxClients uint
	now        func() time.Time
}

// NewChatLimiter creates the per-chat limiter
func NewChatLimiter(capacity, refillRate, maxClients int) *ChatLimiter {
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}
	return &ChatLimiter{
		buckets:    collection.NewLRUCache[string, *TokenBucket](uint(maxClients)),
		capacity:   capacity,
		refillRate: refillRate,
		maxClients: uint(maxClients),
		now:        time.Now,
	}
}

// Allow checks if a request from the given chat is allowed and returns the tokens left
func (cl *ChatLimiter) Allow(chatID string) (bool, int) {
	bucket := cl.getBucket(chatID)
	allowed := bucket.Allow()
	return allowed, bucket.Tokens()
}

// getBucket gets or creates the bucket for the chat
func (cl *ChatLimiter) getBucket(chatID string) *TokenBucket {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if bucket, ok := cl.buckets.Get(chatID); ok {
		return bucket
	}

	bucket := newTokenBucket(cl.capacity, cl.refillRate, cl.now)
	cl.buckets.Put(chatID, bucket)
	return bucket
}

// Stats returns statistics about the limiter
func (cl *ChatLimiter) Stats() map[string]interface{} {
	return map[string]interface{}{
		"max_clients": cl.maxClients,
		"capacity":    cl.capacity,
		"refill_rate": cl.refillRate,
	}
}
