package provider

import (
	"sort"
	"sync"
	"time"

	"bondfeed/internal/clock"
	"bondfeed/internal/fault"
)

// State is a provider's connection state as shown to the dashboard.
type State string

const (
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
	StateError        State = "error"
)

// Status is the last known state of one provider.
type Status struct {
	Provider    string    `json:"provider"`
	State       State     `json:"state"`
	Kind        string    `json:"kind,omitempty"`
	LastError   string    `json:"lastError,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
	LastSuccess time.Time `json:"lastSuccess,omitempty"`
	Successes   int       `json:"successes"`
	Failures    int       `json:"failures"`
}

// StatusBoard tracks every registered provider.
type StatusBoard struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]*Status
}

// NewStatusBoard builds an empty board.
func NewStatusBoard(clk clock.Clock) *StatusBoard {
	return &StatusBoard{clock: clock.OrReal(clk), entries: make(map[string]*Status)}
}

// Register adds name as disconnected unless it is already known.
func (b *StatusBoard) Register(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.entries[name]; !ok {
		b.entries[name] = &Status{Provider: name, State: StateDisconnected, UpdatedAt: b.clock.Now()}
	}
}

func (b *StatusBoard) MarkConnected(name string) {
	b.update(name, func(s *Status, now time.Time) {
		s.State = StateConnected
		s.Kind = ""
		s.LastError = ""
		s.LastSuccess = now
		s.Successes++
	})
}

func (b *StatusBoard) MarkDisconnected(name string) {
	b.update(name, func(s *Status, _ time.Time) {
		s.State = StateDisconnected
		s.Kind = fault.KindConfiguration.String()
	})
}

func (b *StatusBoard) MarkFailed(name string, kind fault.Kind, err error) {
	b.update(name, func(s *Status, _ time.Time) {
		s.State = StateError
		s.Kind = kind.String()
		if err != nil {
			s.LastError = err.Error()
		}
		s.Failures++
	})
}

// Get returns the status of name.
func (b *StatusBoard) Get(name string) (Status, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.entries[name]
	if !ok {
		return Status{}, false
	}
	return *s, true
}

// Snapshot returns every status sorted by provider name.
func (b *StatusBoard) Snapshot() []Status {
	b.mu.Lock()
	out := make([]Status, 0, len(b.entries))
	for _, s := range b.entries {
		out = append(out, *s)
	}
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}

func (b *StatusBoard) update(name string, fn func(*Status, time.Time)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.entries[name]
	if !ok {
		s = &Status{Provider: name}
		b.entries[name] = s
	}
	now := b.clock.Now()
	fn(s, now)
	s.UpdatedAt = now
}
