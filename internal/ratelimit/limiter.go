package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window per-user rate limiter: at most maxEvents
// within the trailing period.
type Limiter struct {
	mu        sync.Mutex
	events    map[string][]time.Time
	maxEvents int
	period    time.Duration
	now       func() time.Time
}

// NewLimiter creates a limiter allowing maxEvents per period per user.
func NewLimiter(maxEvents int, period time.Duration) *Limiter {
	return &Limiter{
		events:    make(map[string][]time.Time),
		maxEvents: maxEvents,
		period:    period,
		now:       time.Now,
	}
}

// Allow records an event for userID if under the limit. When denied it
// returns the wait until the oldest event leaves the window.
func (l *Limiter) Allow(userID string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.period)

	kept := l.events[userID][:0]
	for _, t := range l.events[userID] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.events[userID] = kept

	if len(kept) >= l.maxEvents {
		retryAfter := l.period
		if len(kept) > 0 {
			retryAfter = kept[0].Add(l.period).Sub(now)
		}
		return false, retryAfter
	}

	l.events[userID] = append(kept, now)
	return true, 0
}

// Reset forgets all events for userID.
func (l *Limiter) Reset(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.events, userID)
}
