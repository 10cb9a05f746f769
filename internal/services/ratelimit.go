package services

import (
	"sync"
	"time"
)

// slidingWindowLimiter allows at most N calls per key within a rolling
// window. Keys are domain strings for research fetches and a single fixed
// key for the AI client.
type slidingWindowLimiter struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	calls  map[string][]time.Time
	now    func() time.Time
}

func newSlidingWindowLimiter(limit int, window time.Duration) *slidingWindowLimiter {
	return &slidingWindowLimiter{
		window: window,
		limit:  limit,
		calls:  map[string][]time.Time{},
		now:    time.Now,
	}
}

// AllowN checks a key against a per-key limit, recording the call when it
// is admitted.
func (l *slidingWindowLimiter) AllowN(key string, limit int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.calls[key][:0]
	for _, t := range l.calls[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.calls[key] = kept

	if limit <= 0 {
		limit = l.limit
	}
	if len(kept) >= limit {
		return false
	}
	l.calls[key] = append(kept, now)
	return true
}

func (l *slidingWindowLimiter) Allow(key string) bool {
	return l.AllowN(key, l.limit)
}
