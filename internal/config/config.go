// Package config loads the immutable runtime configuration.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"bondfeed/internal/logging"
	"bondfeed/internal/provider"
	"bondfeed/internal/retry"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig                 `mapstructure:"app"`
	Logging   logging.Config            `mapstructure:"logging"`
	Database  DatabaseConfig            `mapstructure:"database"`
	Cache     CacheConfig               `mapstructure:"cache"`
	Retry     RetryConfig               `mapstructure:"retry"`
	Scheduler SchedulerConfig           `mapstructure:"scheduler"`
	Sources   SourcesConfig             `mapstructure:"sources"`
	Providers map[string]ProviderConfig `mapstructure:"providers"`
	Alerting  AlertingConfig            `mapstructure:"alerting"`
	Metrics   MetricsConfig             `mapstructure:"metrics"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity. An empty DSN means
// no database: no postgres cache backend and no advisory locks.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// CacheConfig selects the durable cache backend. Expiration is the cache
// window of live index quotes; other providers carry their own cache_ttl.
// Path is the directory holding the file and sqlite backends.
type CacheConfig struct {
	Expiration time.Duration `mapstructure:"expiration"`
	Durable    bool          `mapstructure:"durable"`
	Backend    string        `mapstructure:"backend"`
	StorageKey string        `mapstructure:"storage_key"`
	Path       string        `mapstructure:"path"`
	Redis      RedisConfig   `mapstructure:"redis"`
}

// RedisConfig addresses the redis cache backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RetryConfig bounds provider retries.
type RetryConfig struct {
	Attempts       int           `mapstructure:"attempts"`
	Delay          time.Duration `mapstructure:"delay"`
	QuotaDelay     time.Duration `mapstructure:"quota_delay"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
}

// Policy converts the section into a retry policy.
func (r RetryConfig) Policy() retry.Policy {
	return retry.Policy{
		MaxAttempts:    r.Attempts,
		Delay:          r.Delay,
		QuotaDelay:     r.QuotaDelay,
		AttemptTimeout: r.AttemptTimeout,
	}
}

// SchedulerConfig governs refresh cadence. On-chain drives emissions, primary
// drives rates and the calendar, secondary drives stocks and indices.
type SchedulerConfig struct {
	OnChainInterval   time.Duration `mapstructure:"on_chain_interval"`
	PrimaryInterval   time.Duration `mapstructure:"primary_interval"`
	SecondaryInterval time.Duration `mapstructure:"secondary_interval"`
	AlignToBucket     bool          `mapstructure:"align_to_bucket"`
	StartupDelay      time.Duration `mapstructure:"startup_delay"`
	AdvisoryLockKey   int64         `mapstructure:"advisory_lock_key"`
}

// SourcesConfig names the provider serving each record set. Empty leaves
// the set static.
type SourcesConfig struct {
	OnChain    string `mapstructure:"on_chain"`
	Stocks     string `mapstructure:"stocks"`
	Indices    string `mapstructure:"indices"`
	Rates      string `mapstructure:"rates"`
	Indicators string `mapstructure:"indicators"`
	Calendar   string `mapstructure:"calendar"`
}

// ProviderConfig is the per-provider surface. A negative rate_limit turns
// pacing off; zero keeps the provider default.
type ProviderConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	RateLimit time.Duration `mapstructure:"rate_limit"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Provider converts the section into adapter configuration.
func (p ProviderConfig) Provider() provider.Config {
	return provider.Config{
		Enabled:   p.Enabled,
		APIKey:    p.APIKey,
		BaseURL:   p.BaseURL,
		RateLimit: p.RateLimit,
		CacheTTL:  p.CacheTTL,
		Timeout:   p.Timeout,
		UserAgent: p.UserAgent,
	}
}

// AlertingConfig routes provider status alerts.
type AlertingConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes the Telegram bot used for alerts.
type TelegramConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	BotToken string        `mapstructure:"bot_token"`
	ChatID   string        `mapstructure:"chat_id"`
	APIBase  string        `mapstructure:"api_base"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// MetricsConfig enables OTLP metric export.
type MetricsConfig struct {
	OTLPEndpoint string        `mapstructure:"otlp_endpoint"`
	Insecure     bool          `mapstructure:"insecure"`
	Interval     time.Duration `mapstructure:"interval"`
	ServiceName  string        `mapstructure:"service_name"`
}

// Provider names known to the loader.
var providerNames = []string{
	"etherscan", "rpc", "ecb", "boursorama", "yahoo", "fmp", "twelvedata", "marketstack", "alphavantage",
}

var sourceChoices = map[string][]string{
	"sources.on_chain":   {"etherscan", "rpc"},
	"sources.stocks":     {"yahoo", "fmp", "twelvedata", "marketstack"},
	"sources.indices":    {"yahoo"},
	"sources.rates":      {"ecb", "boursorama"},
	"sources.indicators": {"alphavantage"},
	"sources.calendar":   {"fmp"},
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BONDFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bondfeed")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("cache.expiration", "5m")
	v.SetDefault("cache.durable", true)
	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.storage_key", "coveredBondsCache")
	v.SetDefault("cache.path", "data")
	v.SetDefault("cache.redis.addr", "localhost:6379")

	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.delay", "5s")
	v.SetDefault("retry.quota_delay", "30s")
	v.SetDefault("retry.attempt_timeout", "10s")

	v.SetDefault("scheduler.on_chain_interval", "1m")
	v.SetDefault("scheduler.primary_interval", "5m")
	v.SetDefault("scheduler.secondary_interval", "30s")
	v.SetDefault("scheduler.align_to_bucket", true)
	v.SetDefault("scheduler.startup_delay", "0s")
	v.SetDefault("scheduler.advisory_lock_key", int64(0x626f6e64))

	v.SetDefault("sources.on_chain", "etherscan")
	v.SetDefault("sources.stocks", "yahoo")
	v.SetDefault("sources.indices", "yahoo")
	v.SetDefault("sources.rates", "ecb")
	v.SetDefault("sources.indicators", "alphavantage")
	v.SetDefault("sources.calendar", "fmp")

	for _, name := range providerNames {
		v.SetDefault("providers."+name+".enabled", name != "rpc")
		v.SetDefault("providers."+name+".api_key", "")
		v.SetDefault("providers."+name+".base_url", "")
	}

	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")
	v.SetDefault("alerting.telegram.timeout", "10s")

	v.SetDefault("metrics.interval", "15s")
	v.SetDefault("metrics.service_name", "bondfeed")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Cache.Expiration <= 0 {
		return fmt.Errorf("cache.expiration must be greater than zero")
	}
	if c.Cache.Durable {
		switch c.Cache.Backend {
		case "file", "sqlite":
			if c.Cache.Path == "" {
				return fmt.Errorf("cache.path is required for the %s backend", c.Cache.Backend)
			}
		case "redis":
			if c.Cache.Redis.Addr == "" {
				return fmt.Errorf("cache.redis.addr is required for the redis backend")
			}
		case "postgres":
			if c.Database.DSN == "" {
				return fmt.Errorf("database.dsn is required for the postgres backend")
			}
		default:
			return fmt.Errorf("cache.backend %q is not one of file, sqlite, redis, postgres", c.Cache.Backend)
		}
		if c.Cache.StorageKey == "" {
			return fmt.Errorf("cache.storage_key must not be empty")
		}
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("retry.attempts must be at least 1")
	}
	if c.Retry.Delay < 0 || c.Retry.QuotaDelay < 0 || c.Retry.AttemptTimeout < 0 {
		return fmt.Errorf("retry delays cannot be negative")
	}
	if c.Scheduler.OnChainInterval <= 0 || c.Scheduler.PrimaryInterval <= 0 || c.Scheduler.SecondaryInterval <= 0 {
		return fmt.Errorf("scheduler intervals must be greater than zero")
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token is required")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id is required")
		}
	}
	return nil
}

func (c *Config) validateSources() error {
	chosen := map[string]string{
		"sources.on_chain":   c.Sources.OnChain,
		"sources.stocks":     c.Sources.Stocks,
		"sources.indices":    c.Sources.Indices,
		"sources.rates":      c.Sources.Rates,
		"sources.indicators": c.Sources.Indicators,
		"sources.calendar":   c.Sources.Calendar,
	}
	keys := make([]string, 0, len(chosen))
	for k := range chosen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		name := chosen[key]
		if name == "" {
			continue
		}
		if !contains(sourceChoices[key], name) {
			return fmt.Errorf("%s %q is not one of %s", key, name, strings.Join(sourceChoices[key], ", "))
		}
	}
	return nil
}

// ProviderFor returns the section for name; unknown names are disabled.
func (c *Config) ProviderFor(name string) provider.Config {
	return c.Providers[name].Provider()
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
