// Package app builds the runtime graph from configuration and implements
// the CLI commands on top of it.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"bondfeed/internal/alerting"
	"bondfeed/internal/cache"
	"bondfeed/internal/config"
	"bondfeed/internal/enrich"
	"bondfeed/internal/fixtures"
	"bondfeed/internal/metrics"
	"bondfeed/internal/provider"
	"bondfeed/internal/provider/alphavantage"
	"bondfeed/internal/provider/boursorama"
	"bondfeed/internal/provider/chain"
	"bondfeed/internal/provider/ecb"
	"bondfeed/internal/provider/etherscan"
	"bondfeed/internal/provider/fmp"
	"bondfeed/internal/provider/marketstack"
	"bondfeed/internal/provider/twelvedata"
	"bondfeed/internal/provider/yahoo"
	"bondfeed/internal/ratelimit"
	"bondfeed/internal/storage"
	"bondfeed/internal/version"
)

const sqliteFile = "bondfeed-cache.db"

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Out    io.Writer
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger(), Out: os.Stdout}
}

// runtime is everything a command needs once wired.
type runtime struct {
	cache   *cache.Store
	status  *provider.StatusBoard
	manager *enrich.Manager
	metrics *metrics.Recorder
	closers []func()
}

func (r *runtime) Close() {
	if r.manager != nil {
		r.manager.Close()
	}
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func (a *App) openRuntime(ctx context.Context) (*runtime, error) {
	rt := &runtime{status: provider.NewStatusBoard(nil)}
	ready := false
	defer func() {
		if !ready {
			rt.Close()
		}
	}()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		rt.closers = append(rt.closers, closeStore)
	}

	rt.cache, err = a.openCache(ctx, store, rt)
	if err != nil {
		return nil, err
	}
	if err := rt.cache.Load(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("durable cache unavailable; starting empty")
	}

	rt.metrics, err = metrics.New(ctx, a.Config.Metrics, version.Version, a.Logger)
	if err != nil {
		return nil, err
	}
	recorder := rt.metrics
	rt.closers = append(rt.closers, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn().Err(err).Msg("flush metrics")
		}
	})

	deps := provider.Deps{
		Cache:    rt.cache,
		Pacer:    ratelimit.NewPacer(nil),
		Retry:    a.Config.Retry.Policy(),
		Status:   rt.status,
		Observer: rt.metrics,
	}

	opts := enrich.Options{
		Status:   rt.status,
		Notifier: a.newNotifier(),
		Recorder: rt.metrics,
	}
	if store != nil {
		opts.Locker = store
		opts.LockKey = a.Config.Scheduler.AdvisoryLockKey
	}

	rt.manager = enrich.New(fixtures.Dataset(), a.buildSources(deps), opts, a.Logger)
	ready = true
	return rt, nil
}

// buildSources constructs the adapter chosen for each record set. Unknown or
// empty names leave the set static.
func (a *App) buildSources(deps provider.Deps) enrich.Sources {
	cfg := a.Config
	var (
		sources enrich.Sources
		quotes  *yahoo.Adapter
	)
	yahooAdapter := func() *yahoo.Adapter {
		if quotes == nil {
			quotes = yahoo.New(yahoo.Options{Config: cfg.ProviderFor(yahoo.Name), IndexTTL: cfg.Cache.Expiration}, deps, a.Logger)
		}
		return quotes
	}

	switch cfg.Sources.OnChain {
	case etherscan.Name:
		sources.OnChain = etherscan.New(cfg.ProviderFor(etherscan.Name), deps, a.Logger)
	case chain.Name:
		sources.OnChain = chain.New(cfg.ProviderFor(chain.Name), deps, a.Logger)
	}

	switch cfg.Sources.Stocks {
	case yahoo.Name:
		sources.Stocks = yahooAdapter()
	case fmp.Name:
		sources.Stocks = fmp.NewQuotes(cfg.ProviderFor(fmp.Name), deps, a.Logger)
	case twelvedata.Name:
		sources.Stocks = twelvedata.New(cfg.ProviderFor(twelvedata.Name), deps, a.Logger)
	case marketstack.Name:
		sources.Stocks = marketstack.New(cfg.ProviderFor(marketstack.Name), deps, a.Logger)
	}

	if cfg.Sources.Indices == yahoo.Name {
		sources.Indices = yahooAdapter()
	}

	switch cfg.Sources.Rates {
	case ecb.Name:
		sources.Rates = ecb.New(cfg.ProviderFor(ecb.Name), deps, a.Logger)
	case boursorama.Name:
		sources.Rates = boursorama.New(cfg.ProviderFor(boursorama.Name), deps, a.Logger)
	}

	if cfg.Sources.Indicators == alphavantage.Name {
		sources.Indicators = alphavantage.New(cfg.ProviderFor(alphavantage.Name), deps, a.Logger)
	}
	if cfg.Sources.Calendar == fmp.Name {
		sources.Calendar = fmp.NewCalendar(cfg.ProviderFor(fmp.Name), 0, deps, a.Logger)
	}
	return sources
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, cfg.Timeout, a.Logger)
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// openCache builds the cache store over the configured durable backend.
// Closers of the backend are registered on rt.
func (a *App) openCache(ctx context.Context, store *storage.Store, rt *runtime) (*cache.Store, error) {
	cfg := a.Config.Cache
	if !cfg.Durable {
		return cache.New(cache.Options{}, a.Logger), nil
	}

	var backend cache.Backend
	switch cfg.Backend {
	case "file":
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		backend = cache.NewFileBackend(cfg.Path, cfg.StorageKey)
	case "sqlite":
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		sqlite, err := cache.OpenSQLite(ctx, filepath.Join(cfg.Path, sqliteFile), cfg.StorageKey)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() { _ = sqlite.Close() })
		backend = sqlite
	case "redis":
		redis := cache.NewRedisBackend(cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.StorageKey)
		rt.closers = append(rt.closers, func() { _ = redis.Close() })
		backend = redis
	case "postgres":
		if store == nil {
			return nil, storage.ErrNotConfigured
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		backend = storage.NewBlobBackend(store, cfg.StorageKey)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
	return cache.New(cache.Options{Backend: backend}, a.Logger), nil
}
