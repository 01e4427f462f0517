package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"bondfeed/internal/enrich"
	"bondfeed/internal/market"
	"bondfeed/internal/scheduler"
)

type schedule struct {
	name     string
	interval time.Duration
	sets     []market.Set
}

func (a *App) schedules() []schedule {
	cfg := a.Config.Scheduler
	return []schedule{
		{name: "on_chain", interval: cfg.OnChainInterval, sets: []market.Set{market.SetEmissions}},
		{name: "primary", interval: cfg.PrimaryInterval, sets: []market.Set{market.SetRates, market.SetEvents}},
		{name: "secondary", interval: cfg.SecondaryInterval, sets: []market.Set{market.SetStocks, market.SetIndices}},
	}
}

// Run executes the long-running refresh service.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := a.openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	a.Logger.Info().Msg("starting refresh service")
	if _, err := rt.manager.RefreshAll(ctx, enrich.ModeSkip); err != nil && ctx.Err() == nil {
		a.Logger.Warn().Err(err).Msg("initial refresh incomplete")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, job := range a.schedules() {
		sched := scheduler.New(scheduler.Options{
			Name:         job.name,
			Interval:     job.interval,
			AlignToStart: a.Config.Scheduler.AlignToBucket,
			StartupDelay: a.Config.Scheduler.StartupDelay,
		}, a.Logger)

		g.Go(func() error {
			return sched.Run(gctx, func(ctx context.Context, _ time.Time) error {
				return refreshSets(ctx, rt.manager, job.sets)
			})
		})
	}

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("refresh service stopped")
	return nil
}

// refreshSets runs one skip-mode pass per set. A set still busy from the
// previous tick is not an error.
func refreshSets(ctx context.Context, m *enrich.Manager, sets []market.Set) error {
	var errs []error
	for _, set := range sets {
		if _, err := m.Refresh(ctx, set, enrich.ModeSkip); err != nil && !errors.Is(err, enrich.ErrPassInFlight) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
