package app

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"bondfeed/internal/cache"
	"bondfeed/internal/config"
	"bondfeed/internal/market"
)

func offlineConfig(t *testing.T) *config.Config {
	t.Helper()
	providers := make(map[string]config.ProviderConfig)
	for _, name := range []string{"etherscan", "rpc", "ecb", "boursorama", "yahoo", "fmp", "twelvedata", "marketstack", "alphavantage"} {
		providers[name] = config.ProviderConfig{Enabled: false}
	}
	return &config.Config{
		Cache: config.CacheConfig{Expiration: 5 * time.Minute, Backend: "file", StorageKey: "coveredBondsCache", Path: t.TempDir()},
		Retry: config.RetryConfig{Attempts: 1},
		Scheduler: config.SchedulerConfig{
			OnChainInterval:   time.Minute,
			PrimaryInterval:   5 * time.Minute,
			SecondaryInterval: 30 * time.Second,
		},
		Sources: config.SourcesConfig{
			OnChain:    "etherscan",
			Stocks:     "yahoo",
			Indices:    "yahoo",
			Rates:      "ecb",
			Indicators: "alphavantage",
			Calendar:   "fmp",
		},
		Providers: providers,
	}
}

func testApp(cfg *config.Config) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	a := NewApp(cfg, zerolog.Nop())
	a.Out = &out
	return a, &out
}

func TestShowStaticDataset(t *testing.T) {
	a, out := testApp(offlineConfig(t))

	err := a.Show(context.Background(), ShowOptions{Sets: []market.Set{market.SetRates}, JSON: true})
	require.NoError(t, err)

	var r report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	require.NotEmpty(t, r.Dataset.Rates)
	require.Empty(t, r.Dataset.Stocks)
	for _, rate := range r.Dataset.Rates {
		require.Equal(t, market.ProvenanceVerified, rate.Enrichment.Provenance)
		require.Equal(t, market.FreshnessStatic, rate.Enrichment.Freshness)
	}
}

func TestRefreshWithProvidersDisabledIsSimulated(t *testing.T) {
	a, out := testApp(offlineConfig(t))

	err := a.Refresh(context.Background(), RefreshOptions{Sets: []market.Set{market.SetRates, market.SetStocks}, JSON: true})
	require.NoError(t, err)

	var r report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	require.Len(t, r.Results, 2)
	for _, res := range r.Results {
		require.True(t, res.Published)
		require.Zero(t, res.Summary.Enriched)
	}
	for _, rate := range r.Dataset.Rates {
		require.Equal(t, market.ProvenanceSimulated, rate.Enrichment.Provenance)
		require.False(t, rate.Value.IsZero(), "static value kept")
	}
	for _, s := range r.Statuses {
		require.NotEqual(t, "error", string(s.State))
	}
}

func TestRefreshTextOutput(t *testing.T) {
	a, out := testApp(offlineConfig(t))

	require.NoError(t, a.Refresh(context.Background(), RefreshOptions{Sets: []market.Set{market.SetIndices}}))
	text := out.String()
	require.Contains(t, text, "== indices ==")
	require.Contains(t, text, "Simulated")
	require.Contains(t, text, "yahoo")
}

func TestCacheListAndClear(t *testing.T) {
	cfg := offlineConfig(t)
	cfg.Cache.Durable = true

	seed := cache.New(cache.Options{Backend: cache.NewFileBackend(cfg.Cache.Path, cfg.Cache.StorageKey)}, zerolog.Nop())
	seed.Set(context.Background(), "ecb:euribor3m", map[string]string{"value": "3.65"})

	a, out := testApp(cfg)
	require.NoError(t, a.CacheList(context.Background()))
	require.Contains(t, out.String(), "ecb:euribor3m")

	out.Reset()
	require.NoError(t, a.CacheClear(context.Background()))
	require.True(t, strings.HasPrefix(out.String(), "cleared 1"))

	out.Reset()
	require.NoError(t, a.CacheList(context.Background()))
	require.Contains(t, out.String(), "cache is empty")
}

func TestCacheCommandsNeedDurableCache(t *testing.T) {
	a, _ := testApp(offlineConfig(t))
	require.Error(t, a.CacheList(context.Background()))
}
