// Package provider holds the plumbing shared by every data source adapter:
// availability, caching, pacing, retries and status reporting.
package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bondfeed/internal/cache"
	"bondfeed/internal/clock"
	"bondfeed/internal/fault"
	"bondfeed/internal/ratelimit"
	"bondfeed/internal/retry"
)

// Adapter is one data source producing normalised records of type T.
// FetchOne returns an error, never a partial record, when no usable value
// could be obtained; fault.KindOf tells why.
type Adapter[T any] interface {
	Name() string
	Available() bool
	FetchOne(ctx context.Context, id string) (T, error)
	Fallback(id string) (T, bool)
}

// Config is the per-provider configuration surface.
type Config struct {
	Enabled   bool
	APIKey    string
	BaseURL   string
	RateLimit time.Duration
	CacheTTL  time.Duration
	Timeout   time.Duration
	UserAgent string
}

// WithDefaults fills zero fields from d.
func (c Config) WithDefaults(d Config) Config {
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.RateLimit == 0 {
		c.RateLimit = d.RateLimit
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	return c
}

// Observer receives one call per completed fetch.
type Observer interface {
	FetchCompleted(ctx context.Context, provider, outcome string, elapsed time.Duration)
}

// Deps are the collaborators shared across adapters.
type Deps struct {
	Cache    *cache.Store
	Pacer    *ratelimit.Pacer
	Retry    retry.Policy
	Status   *StatusBoard
	Observer Observer
	HTTP     *http.Client
	Clock    clock.Clock
}

// Option tweaks a Client.
type Option func(*Client)

// Keyless marks providers that need no credential.
func Keyless() Option {
	return func(c *Client) { c.available = func(cfg Config) bool { return cfg.Enabled } }
}

// WithAvailability overrides the availability rule.
func WithAvailability(fn func(Config) bool) Option {
	return func(c *Client) { c.available = fn }
}

// Client bundles what an adapter needs to talk to its provider.
type Client struct {
	name      string
	cfg       Config
	deps      Deps
	http      *http.Client
	clock     clock.Clock
	available func(Config) bool
	logger    zerolog.Logger
}

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "bondfeed/1.0"
)

// NewClient wires a provider client and registers it with the pacer and the
// status board.
func NewClient(name string, cfg Config, deps Deps, logger zerolog.Logger, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	httpClient := deps.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if deps.Pacer == nil {
		deps.Pacer = ratelimit.NewPacer(nil)
	}
	if deps.Status == nil {
		deps.Status = NewStatusBoard(deps.Clock)
	}
	deps.Pacer.SetInterval(name, cfg.RateLimit)
	deps.Status.Register(name)

	c := &Client{
		name:  name,
		cfg:   cfg,
		deps:  deps,
		http:  httpClient,
		clock: clock.OrReal(deps.Clock),
		available: func(cfg Config) bool {
			return cfg.Enabled && strings.TrimSpace(cfg.APIKey) != ""
		},
		logger: logger.With().Str("component", "provider").Str("provider", name).Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string           { return c.name }
func (c *Client) Config() Config         { return c.cfg }
func (c *Client) BaseURL() string        { return c.cfg.BaseURL }
func (c *Client) APIKey() string         { return c.cfg.APIKey }
func (c *Client) Logger() zerolog.Logger { return c.logger }
func (c *Client) Now() time.Time         { return c.clock.Now() }

// Available reports whether the provider may be called at all.
func (c *Client) Available() bool { return c.available(c.cfg) }

type cacheMarker interface{ MarkCached() }

// Fetch resolves key through the cache; on a miss it runs attempt under the
// pacer and the retry policy and caches the result for ttl (the provider
// default when ttl is zero). Unavailable providers fail fast with a
// configuration error and no I/O.
func Fetch[T any](ctx context.Context, c *Client, key string, ttl time.Duration, attempt func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if !c.Available() {
		c.deps.Status.MarkDisconnected(c.name)
		c.observe(ctx, "unavailable", 0)
		c.logger.Debug().Str("key", key).Msg("provider unavailable; keeping fallback")
		return zero, fault.Configuration(c.name, "provider disabled or credential missing")
	}

	if ttl <= 0 {
		ttl = c.cfg.CacheTTL
	}
	cacheKey := c.name + ":" + key
	if c.deps.Cache != nil && ttl > 0 {
		var cached T
		if c.deps.Cache.Get(ctx, cacheKey, ttl, &cached) {
			if m, ok := any(cached).(cacheMarker); ok {
				m.MarkCached()
			}
			c.observe(ctx, "cache_hit", 0)
			return cached, nil
		}
	}

	policy := c.deps.Retry
	policy.Clock = c.clock
	policy.BeforeAttempt = func(ctx context.Context) error {
		return c.deps.Pacer.Pace(ctx, c.name)
	}
	policy.OnRetry = func(n int, err error, wait time.Duration) {
		c.logger.Debug().Err(err).Str("key", key).Int("attempt", n).
			Str("kind", fault.KindOf(err).String()).Dur("wait", wait).Msg("retrying provider call")
	}

	start := c.clock.Now()
	value, err := retry.Do(ctx, policy, attempt)
	elapsed := c.clock.Now().Sub(start)

	if err != nil {
		if ctx.Err() != nil {
			return zero, err
		}
		kind := fault.KindOf(err)
		c.deps.Status.MarkFailed(c.name, kind, err)
		c.observe(ctx, kind.String(), elapsed)
		c.logFailure(key, kind, err)
		return zero, err
	}

	c.deps.Status.MarkConnected(c.name)
	c.observe(ctx, "success", elapsed)
	if c.deps.Cache != nil && ttl > 0 {
		c.deps.Cache.Set(ctx, cacheKey, value)
	}
	return value, nil
}

func (c *Client) logFailure(key string, kind fault.Kind, err error) {
	event := c.logger.Warn()
	if kind == fault.KindConfiguration {
		event = c.logger.Debug()
	}
	attempts := 1
	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		attempts = exhausted.Attempts
	}
	event.Err(err).Str("key", key).Str("kind", kind.String()).Int("attempts", attempts).Msg("provider fetch failed; keeping fallback")
}

func (c *Client) observe(ctx context.Context, outcome string, elapsed time.Duration) {
	if c.deps.Observer == nil {
		return
	}
	c.deps.Observer.FetchCompleted(ctx, c.name, outcome, elapsed)
}
