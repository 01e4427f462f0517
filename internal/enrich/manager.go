package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bondfeed/internal/alerting"
	"bondfeed/internal/clock"
	"bondfeed/internal/market"
	"bondfeed/internal/provider"
)

// Sources is the adapter serving each record set. A nil adapter leaves its
// set static.
type Sources struct {
	OnChain    provider.Adapter[*market.Holding]
	Stocks     provider.Adapter[*market.Quote]
	Indices    provider.Adapter[*market.Quote]
	Rates      provider.Adapter[*market.Rate]
	Indicators provider.Adapter[*market.Rate]
	Calendar   provider.Adapter[*market.Calendar]
}

// Locker serialises passes across processes.
type Locker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Recorder receives pass level measurements.
type Recorder interface {
	PassCompleted(ctx context.Context, set, result string, elapsed time.Duration)
	RecordsTagged(ctx context.Context, set string, counts map[market.Provenance]int)
}

// Options configures a Manager.
type Options struct {
	// Status is the board the adapters report to; Statuses reads it.
	Status *provider.StatusBoard
	Clock  clock.Clock
	// Locker and LockKey enable a postgres advisory lock per set. Set i in
	// market.Sets() uses LockKey+i. A zero LockKey disables locking.
	Locker   Locker
	LockKey  int64
	Notifier alerting.Notifier
	Recorder Recorder
}

// Result describes one finished Refresh call.
type Result struct {
	Set       market.Set    `json:"set"`
	Summary   Summary       `json:"summary"`
	Elapsed   time.Duration `json:"elapsed"`
	Published bool          `json:"published"`
}

// Manager owns the dataset and runs enrichment passes over it.
type Manager struct {
	mu      sync.RWMutex
	dataset market.Dataset

	sources Sources
	status  *provider.StatusBoard
	clock   clock.Clock
	locker  Locker
	lockKey int64
	notify  alerting.Notifier
	record  Recorder
	guards  map[market.Set]*passGuard

	notifyMu sync.Mutex
	notified map[string]provider.State

	base   context.Context
	stop   context.CancelFunc
	logger zerolog.Logger
}

// New builds a manager over a private copy of dataset.
func New(dataset market.Dataset, sources Sources, opts Options, logger zerolog.Logger) *Manager {
	status := opts.Status
	if status == nil {
		status = provider.NewStatusBoard(opts.Clock)
	}
	guards := make(map[market.Set]*passGuard)
	for _, set := range market.Sets() {
		guards[set] = &passGuard{}
	}
	base, stop := context.WithCancel(context.Background())

	return &Manager{
		dataset:  dataset.Clone(),
		sources:  sources,
		status:   status,
		clock:    clock.OrReal(opts.Clock),
		locker:   opts.Locker,
		lockKey:  opts.LockKey,
		notify:   opts.Notifier,
		record:   opts.Recorder,
		guards:   guards,
		notified: make(map[string]provider.State),
		base:     base,
		stop:     stop,
		logger:   logger.With().Str("component", "enrich").Logger(),
	}
}

// Snapshot returns a copy of the current dataset.
func (m *Manager) Snapshot() market.Dataset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dataset.Clone()
}

// Statuses returns the provider status board.
func (m *Manager) Statuses() []provider.Status {
	return m.status.Snapshot()
}

// Refresh runs one enrichment pass over set and publishes the result. A
// pass cancelled before it finishes is discarded and its cause returned.
func (m *Manager) Refresh(ctx context.Context, set market.Set, mode Mode) (Result, error) {
	res := Result{Set: set}
	guard, ok := m.guards[set]
	if !ok {
		return res, fmt.Errorf("enrich: unknown record set %q", set)
	}
	if m.base.Err() != nil {
		return res, ErrClosed
	}

	p, err := guard.acquire(ctx, mode)
	if err != nil {
		if errors.Is(err, ErrPassInFlight) {
			m.logger.Debug().Str("set", string(set)).Msg("pass already running; skipping")
			m.recordPass(ctx, set, "skipped", 0)
		}
		return res, err
	}
	stopAfter := context.AfterFunc(m.base, func() { p.cancel(ErrClosed) })
	defer func() {
		stopAfter()
		guard.release(p)
	}()

	unlock, proceed, err := m.acquireLock(p.ctx, set)
	if err != nil {
		return res, err
	}
	if !proceed {
		m.logger.Info().Str("set", string(set)).Msg("advisory lock held elsewhere; skipping pass")
		m.recordPass(ctx, set, "skipped", 0)
		return res, ErrPassInFlight
	}
	if unlock != nil {
		defer unlock()
	}

	start := m.clock.Now()
	next, sum, err := m.runPass(p.ctx, set, m.Snapshot())
	res.Summary = sum
	res.Elapsed = m.clock.Now().Sub(start)

	if err != nil || p.ctx.Err() != nil {
		cause := context.Cause(p.ctx)
		if cause == nil {
			cause = err
		}
		m.logger.Info().Err(cause).Str("set", string(set)).Msg("pass cancelled; result discarded")
		m.recordPass(ctx, set, "discarded", res.Elapsed)
		return res, cause
	}

	m.publish(set, next)
	res.Published = true

	m.logger.Info().Str("set", string(set)).
		Int("enriched", sum.Enriched).
		Int("fallback", sum.Fallback).
		Int("simulated", sum.Simulated).
		Dur("elapsed", res.Elapsed).
		Msg("pass published")
	m.recordPass(ctx, set, "published", res.Elapsed)
	if m.record != nil {
		m.record.RecordsTagged(ctx, string(set), countProvenance(next.Provenances(set)))
	}
	m.notifyTransitions(ctx, set)
	return res, nil
}

// RefreshAll refreshes every set concurrently. One set failing never stops
// the others; the returned error joins every failure.
func (m *Manager) RefreshAll(ctx context.Context, mode Mode) ([]Result, error) {
	return m.RefreshSets(ctx, market.Sets(), mode)
}

// RefreshSets refreshes the given sets concurrently.
func (m *Manager) RefreshSets(ctx context.Context, sets []market.Set, mode Mode) ([]Result, error) {
	results := make([]Result, len(sets))
	errs := make([]error, len(sets))

	var g errgroup.Group
	for i, set := range sets {
		g.Go(func() error {
			res, err := m.Refresh(ctx, set, mode)
			results[i] = res
			if err != nil {
				errs[i] = fmt.Errorf("refresh %s: %w", set, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, errors.Join(errs...)
}

// Close cancels in-flight passes and waits for them. Later Refresh calls
// return ErrClosed.
func (m *Manager) Close() {
	m.stop()
	for _, set := range market.Sets() {
		if p := m.guards[set].cancelAll(ErrClosed); p != nil {
			<-p.done
		}
	}
	if c, ok := m.sources.OnChain.(interface{ Close() }); ok {
		c.Close()
	}
}

func (m *Manager) acquireLock(ctx context.Context, set market.Set) (func(), bool, error) {
	if m.lockKey == 0 || m.locker == nil {
		return nil, true, nil
	}
	unlock, acquired, err := m.locker.TryAdvisoryLock(ctx, m.lockKey+setIndex(set))
	if err != nil {
		return nil, false, fmt.Errorf("acquire advisory lock: %w", err)
	}
	return unlock, acquired, nil
}

func setIndex(set market.Set) int64 {
	for i, s := range market.Sets() {
		if s == set {
			return int64(i)
		}
	}
	return 0
}

func (m *Manager) publish(set market.Set, next market.Dataset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch set {
	case market.SetEmissions:
		m.dataset.Emissions = next.Emissions
	case market.SetStocks:
		m.dataset.Stocks = next.Stocks
	case market.SetIndices:
		m.dataset.Indices = next.Indices
	case market.SetRates:
		m.dataset.Rates = next.Rates
	case market.SetEvents:
		m.dataset.Events = next.Events
	}
}

func (m *Manager) recordPass(ctx context.Context, set market.Set, result string, elapsed time.Duration) {
	if m.record != nil {
		m.record.PassCompleted(ctx, string(set), result, elapsed)
	}
}

// notifyTransitions sends every provider state change worth alerting on
// since the last notification for that provider.
func (m *Manager) notifyTransitions(ctx context.Context, set market.Set) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	for _, s := range m.status.Snapshot() {
		prev, seen := m.notified[s.Provider]
		if !seen {
			prev = provider.StateDisconnected
		}
		m.notified[s.Provider] = s.State
		if m.notify == nil || !alerting.Worth(prev, s.State) {
			continue
		}
		note := alerting.Notification{
			Provider: s.Provider,
			From:     prev,
			To:       s.State,
			Kind:     s.Kind,
			Error:    s.LastError,
			Set:      string(set),
			At:       s.UpdatedAt,
		}
		if err := m.notify.Notify(ctx, note); err != nil {
			m.logger.Warn().Err(err).Str("provider", s.Provider).Msg("send status alert")
		}
	}
}

func countProvenance(tags []market.Provenance) map[market.Provenance]int {
	counts := make(map[market.Provenance]int)
	for _, p := range tags {
		counts[p]++
	}
	return counts
}
