// Package ratelimit spaces outbound calls per provider.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum interval between calls sharing a provider id.
// Calls for different ids never wait on each other.
type Pacer struct {
	mu        sync.Mutex
	intervals map[string]time.Duration
	limiters  map[string]*rate.Limiter
}

// NewPacer builds a Pacer from per-provider minimum intervals. Providers
// without an entry, or with a non-positive interval, are not paced.
func NewPacer(intervals map[string]time.Duration) *Pacer {
	p := &Pacer{
		intervals: make(map[string]time.Duration, len(intervals)),
		limiters:  make(map[string]*rate.Limiter, len(intervals)),
	}
	for id, d := range intervals {
		p.intervals[id] = d
	}
	return p
}

// SetInterval replaces the interval for id. The next call starts a new window.
func (p *Pacer) SetInterval(id string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intervals[id] = d
	delete(p.limiters, id)
}

// Interval reports the configured interval for id.
func (p *Pacer) Interval(id string) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.intervals[id]
}

// Pace blocks until id may issue its next call or ctx is done.
func (p *Pacer) Pace(ctx context.Context, id string) error {
	limiter := p.limiter(id)
	if limiter == nil {
		return ctx.Err()
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("pace %s: %w", id, err)
	}
	return nil
}

func (p *Pacer) limiter(id string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if l, ok := p.limiters[id]; ok {
		return l
	}
	d := p.intervals[id]
	if d <= 0 {
		return nil
	}
	l := rate.NewLimiter(rate.Every(d), 1)
	p.limiters[id] = l
	return l
}
