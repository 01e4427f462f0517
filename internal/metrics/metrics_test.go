package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"bondfeed/internal/config"
	"bondfeed/internal/market"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumFor(t *testing.T, agg metricdata.Aggregation, key, value string) int64 {
	t.Helper()
	sum, ok := agg.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", agg)
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func TestRecorderInstruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	rec, err := NewWithMeter(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	rec.FetchCompleted(ctx, "ecb", "success", 120*time.Millisecond)
	rec.FetchCompleted(ctx, "ecb", "cache_hit", 0)
	rec.FetchCompleted(ctx, "yahoo", "quota", time.Second)
	rec.PassCompleted(ctx, "rates", "published", time.Second)
	rec.PassCompleted(ctx, "rates", "skipped", 0)
	rec.RecordsTagged(ctx, "rates", map[market.Provenance]int{
		market.ProvenanceVerified: 6,
		market.ProvenanceFallback: 2,
	})

	data := collect(t, reader)
	require.Equal(t, int64(2), sumFor(t, data["bondfeed.fetch.total"], "provider", "ecb"))
	require.Equal(t, int64(1), sumFor(t, data["bondfeed.fetch.total"], "outcome", "quota"))
	require.Equal(t, int64(1), sumFor(t, data["bondfeed.pass.total"], "result", "skipped"))
	require.Equal(t, int64(6), sumFor(t, data["bondfeed.records.total"], "provenance", "verified"))

	hist, ok := data["bondfeed.fetch.duration"].(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	require.Equal(t, uint64(2), count, "cache hits record no duration")
}

func TestNewWithoutEndpointIsNoop(t *testing.T) {
	rec, err := New(context.Background(), config.MetricsConfig{}, "dev", zerolog.Nop())
	require.NoError(t, err)
	rec.FetchCompleted(context.Background(), "ecb", "success", time.Second)
	require.NoError(t, rec.Shutdown(context.Background()))
}
