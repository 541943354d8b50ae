package api

import (
	"sync"
	"time"
)

const (
	// maxClients bounds the limiter map; crossing it triggers a prune.
	maxClients = 4096

	// staleAfter is how long a bucket may sit idle before pruning.
	staleAfter = time.Minute
)

// tokenBucket refills continuously at rate up to burst; each allowed
// request costs one token.
type tokenBucket struct {
	mu     sync.Mutex
	rate   float64
	burst  float64
	tokens float64
	last   time.Time
}

func newTokenBucket(rps float64, burst int, now time.Time) *tokenBucket {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &tokenBucket{
		rate:   rps,
		burst:  float64(burst),
		tokens: float64(burst),
		last:   now,
	}
}

func (b *tokenBucket) allowAt(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if dt := now.Sub(b.last).Seconds(); dt > 0 {
		b.tokens += dt * b.rate
		if b.tokens > b.burst {
			b.tokens = b.burst
		}
		b.last = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// clientLimiter keys buckets by client address.
type clientLimiter struct {
	mu      sync.Mutex
	rate    float64
	burst   int
	buckets map[string]*tokenBucket
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	return &clientLimiter{
		rate:    rps,
		burst:   burst,
		buckets: make(map[string]*tokenBucket),
	}
}

func (l *clientLimiter) allow(client string, now time.Time) bool {
	l.mu.Lock()
	bucket, ok := l.buckets[client]
	if !ok {
		if len(l.buckets) >= maxClients {
			l.prune(now)
		}
		bucket = newTokenBucket(l.rate, l.burst, now)
		l.buckets[client] = bucket
	}
	l.mu.Unlock()
	return bucket.allowAt(now)
}

// prune drops idle buckets. Callers hold l.mu.
func (l *clientLimiter) prune(now time.Time) {
	for client, bucket := range l.buckets {
		bucket.mu.Lock()
		idle := now.Sub(bucket.last) > staleAfter
		bucket.mu.Unlock()
		if idle {
			delete(l.buckets, client)
		}
	}
}
