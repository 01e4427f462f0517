package enrich

import (
	"context"
	"errors"
	"sync"
)

// Mode decides what Refresh does when a pass for the same set is running.
type Mode int

const (
	// ModeSkip returns ErrPassInFlight and leaves the running pass alone.
	ModeSkip Mode = iota
	// ModeSupersede cancels the running pass, waits for it, then starts.
	ModeSupersede
)

func (m Mode) String() string {
	if m == ModeSupersede {
		return "supersede"
	}
	return "skip"
}

var (
	// ErrPassInFlight is returned in ModeSkip when the set is busy, here or
	// in another process holding its advisory lock.
	ErrPassInFlight = errors.New("enrich: pass already in flight")
	// ErrSuperseded is returned by a pass cancelled by a newer one.
	ErrSuperseded = errors.New("enrich: pass superseded")
	// ErrClosed is returned once the manager is closed.
	ErrClosed = errors.New("enrich: manager closed")
)

type pass struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	done   chan struct{}
}

// passGuard admits one pass per record set at a time.
type passGuard struct {
	mu      sync.Mutex
	running *pass
}

func (g *passGuard) acquire(ctx context.Context, mode Mode) (*pass, error) {
	for {
		g.mu.Lock()
		cur := g.running
		if cur == nil {
			passCtx, cancel := context.WithCancelCause(ctx)
			p := &pass{ctx: passCtx, cancel: cancel, done: make(chan struct{})}
			g.running = p
			g.mu.Unlock()
			return p, nil
		}
		g.mu.Unlock()

		if mode == ModeSkip {
			return nil, ErrPassInFlight
		}
		cur.cancel(ErrSuperseded)
		select {
		case <-cur.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (g *passGuard) release(p *pass) {
	g.mu.Lock()
	if g.running == p {
		g.running = nil
	}
	g.mu.Unlock()
	p.cancel(nil)
	close(p.done)
}

// cancelAll stops the running pass, if any, with cause.
func (g *passGuard) cancelAll(cause error) *pass {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running != nil {
		g.running.cancel(cause)
	}
	return g.running
}
