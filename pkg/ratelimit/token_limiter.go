package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a per-minute token budget for AI API calls.
// The window resets a minute after the first consumption in that window.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	used        int
	windowStart time.Time
}

// NewTokenLimiter creates a TokenLimiter with the given per-minute budget.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{maxPerMin: maxPerMinute}
}

// GetRemaining returns the tokens left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resetIfExpired()
	return l.maxPerMin - l.used
}

// Wait blocks until n tokens can be consumed, or the context is done.
func (l *TokenLimiter) Wait(ctx context.Context, n int) error {
	for {
		l.mu.Lock()
		l.resetIfExpired()
		if l.used+n <= l.maxPerMin {
			if l.used == 0 {
				l.windowStart = time.Now()
			}
			l.used += n
			l.mu.Unlock()
			return nil
		}
		waitUntil := l.windowStart.Add(time.Minute)
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(waitUntil)):
		}
	}
}

func (l *TokenLimiter) resetIfExpired() {
	if !l.windowStart.IsZero() && time.Since(l.windowStart) >= time.Minute {
		l.used = 0
		l.windowStart = time.Time{}
	}
}
