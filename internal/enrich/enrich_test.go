package enrich

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bondfeed/internal/fault"
	"bondfeed/internal/market"
)

// fakeRates serves canned results per id and counts calls.
type fakeRates struct {
	mu        sync.Mutex
	values    map[string]string
	errs      map[string]error
	fallbacks map[string]string
	calls     map[string]int
}

func (f *fakeRates) Name() string    { return "fake" }
func (f *fakeRates) Available() bool { return true }

func (f *fakeRates) FetchOne(_ context.Context, id string) (*market.Rate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[id]++
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	v, ok := f.values[id]
	if !ok {
		return nil, fault.Shape("fake", "unknown id %s", id)
	}
	return &market.Rate{ID: id, Value: decimal.RequireFromString(v), Origin: market.Origin{Source: "fake"}}, nil
}

func (f *fakeRates) Fallback(id string) (*market.Rate, bool) {
	v, ok := f.fallbacks[id]
	if !ok {
		return nil, false
	}
	return &market.Rate{ID: id, Value: decimal.RequireFromString(v), Origin: market.Origin{Source: "static"}}, true
}

func ticker(id, value string) market.RateTicker {
	r := market.RateTicker{ID: id, Enrichment: market.Static()}
	if value != "" {
		r.Value = decimal.RequireFromString(value)
	}
	return r
}

func testBinding() Binding[market.RateTicker, *market.Rate] {
	return (&Manager{}).rateBinding()
}

func TestEnrichAllIsolatesFailures(t *testing.T) {
	adapter := &fakeRates{
		values: map[string]string{"b": "2.5"},
		errs:   map[string]error{"a": fault.Transient("fake", errors.New("boom"))},
	}
	records := []market.RateTicker{ticker("a", "1.1"), ticker("b", "1.2")}

	out, sum, err := EnrichAll(context.Background(), records, adapter, testBinding())
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.True(t, out[0].Value.Equal(decimal.RequireFromString("1.1")), "failed record keeps its value")
	require.Equal(t, market.ProvenanceFallback, out[0].Enrichment.Provenance)
	require.Equal(t, market.StageFallbackKept, out[0].Enrichment.Stage)
	require.Equal(t, "transient", out[0].Enrichment.Reason)

	require.True(t, out[1].Value.Equal(decimal.RequireFromString("2.5")))
	require.Equal(t, market.ProvenanceVerified, out[1].Enrichment.Provenance)
	require.Equal(t, market.FreshnessLive, out[1].Enrichment.Freshness)
	require.Equal(t, market.StageEnriched, out[1].Enrichment.Stage)

	require.Equal(t, Summary{Enriched: 1, Fallback: 1}, sum)
}

func TestEnrichAllWorksOnACopy(t *testing.T) {
	adapter := &fakeRates{values: map[string]string{"a": "9"}}
	records := []market.RateTicker{ticker("a", "1")}

	out, _, err := EnrichAll(context.Background(), records, adapter, testBinding())
	require.NoError(t, err)
	require.Equal(t, "9", out[0].Value.String())
	require.Equal(t, "1", records[0].Value.String())
	require.Equal(t, market.FreshnessStatic, records[0].Enrichment.Freshness)
}

func TestEnrichAllConfigurationIsSimulated(t *testing.T) {
	adapter := &fakeRates{errs: map[string]error{"a": fault.Configuration("fake", "disabled")}}

	out, sum, err := EnrichAll(context.Background(), []market.RateTicker{ticker("a", "3.65")}, adapter, testBinding())
	require.NoError(t, err)
	require.Equal(t, market.ProvenanceSimulated, out[0].Enrichment.Provenance)
	require.Equal(t, market.FreshnessStatic, out[0].Enrichment.Freshness)
	require.Equal(t, "3.65", out[0].Value.String())
	require.Equal(t, 1, sum.Simulated)
}

func TestEnrichAllMemoisesDuplicateIDs(t *testing.T) {
	adapter := &fakeRates{values: map[string]string{"a": "2"}}
	records := []market.RateTicker{ticker("a", "1"), ticker("a", "1"), ticker("", "5")}

	out, sum, err := EnrichAll(context.Background(), records, adapter, testBinding())
	require.NoError(t, err)
	require.Equal(t, 1, adapter.calls["a"])
	require.Equal(t, "2", out[1].Value.String())
	require.Equal(t, Summary{Enriched: 2, Skipped: 1}, sum)
	require.Equal(t, market.Stage(""), out[2].Enrichment.Stage, "records without an id are untouched")
}

func TestEnrichAllMergesFallbackWhenEmpty(t *testing.T) {
	adapter := &fakeRates{
		errs:      map[string]error{"a": fault.Transient("fake", errors.New("down")), "b": fault.Transient("fake", errors.New("down"))},
		fallbacks: map[string]string{"a": "3.45", "b": "3.25"},
	}
	records := []market.RateTicker{ticker("a", ""), ticker("b", "1.5")}

	out, _, err := EnrichAll(context.Background(), records, adapter, testBinding())
	require.NoError(t, err)
	require.Equal(t, "3.45", out[0].Value.String(), "empty record receives the static fallback")
	require.Equal(t, "1.5", out[1].Value.String(), "prior value wins over the static fallback")
	require.Equal(t, market.ProvenanceFallback, out[0].Enrichment.Provenance)
}

func TestEnrichAllFailureAfterSuccessIsCached(t *testing.T) {
	adapter := &fakeRates{errs: map[string]error{"a": fault.Quota("fake", 0, errors.New("slow down"))}}
	rec := ticker("a", "2")
	rec.Enrichment.Freshness = market.FreshnessLive

	out, _, err := EnrichAll(context.Background(), []market.RateTicker{rec}, adapter, testBinding())
	require.NoError(t, err)
	require.Equal(t, market.FreshnessCached, out[0].Enrichment.Freshness)
	require.Equal(t, "quota", out[0].Enrichment.Reason)
}

func TestEnrichAllStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	adapter := &fakeRates{values: map[string]string{"a": "2"}}

	out, _, err := EnrichAll(ctx, []market.RateTicker{ticker("a", "1")}, adapter, testBinding())
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, out)
	require.Zero(t, adapter.calls["a"])
}

func TestIndicatorFor(t *testing.T) {
	cases := map[string]string{
		"CPI y/y":               "CPI",
		"Core Inflation Rate":   "CPI",
		"Unemployment Rate":     "UNEMPLOYMENT",
		"GDP Growth Rate QoQ":   "REAL_GDP",
		"Fed Interest Rate":     "FEDERAL_FUNDS_RATE",
		"Non Farm Payrolls":     "",
		"ISM Manufacturing PMI": "",
	}
	for name, want := range cases {
		require.Equal(t, want, IndicatorFor(name), name)
	}
}
