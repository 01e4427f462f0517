// Package metrics records provider fetches and enrichment passes as
// OpenTelemetry instruments.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"bondfeed/internal/config"
	"bondfeed/internal/enrich"
	"bondfeed/internal/market"
	"bondfeed/internal/provider"
)

const meterName = "bondfeed"

// Recorder owns the instruments. The zero value is not usable; build one
// with New or NewWithMeter.
type Recorder struct {
	meterProvider *sdkmetric.MeterProvider

	fetches  metric.Int64Counter
	duration metric.Float64Histogram
	records  metric.Int64Counter
	passes   metric.Int64Counter
}

// New exports over OTLP gRPC when cfg.OTLPEndpoint is set and discards
// measurements otherwise.
func New(ctx context.Context, cfg config.MetricsConfig, serviceVersion string, logger zerolog.Logger) (*Recorder, error) {
	log := logger.With().Str("component", "metrics").Logger()
	if cfg.OTLPEndpoint == "" {
		log.Debug().Msg("metrics export disabled")
		return NewWithMeter(noop.NewMeterProvider().Meter(meterName))
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", serviceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)

	r, err := NewWithMeter(mp.Meter(meterName))
	if err != nil {
		_ = mp.Shutdown(ctx)
		return nil, err
	}
	r.meterProvider = mp
	log.Info().Str("endpoint", cfg.OTLPEndpoint).Dur("interval", interval).Msg("metrics export enabled")
	return r, nil
}

// NewWithMeter builds the instruments on meter.
func NewWithMeter(meter metric.Meter) (*Recorder, error) {
	var (
		r   Recorder
		err error
	)
	r.fetches, err = meter.Int64Counter("bondfeed.fetch.total",
		metric.WithDescription("Provider fetches by outcome"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, err
	}
	r.duration, err = meter.Float64Histogram("bondfeed.fetch.duration",
		metric.WithDescription("Duration of provider fetches that reached the network"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, err
	}
	r.records, err = meter.Int64Counter("bondfeed.records.total",
		metric.WithDescription("Records tagged by published passes"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}
	r.passes, err = meter.Int64Counter("bondfeed.pass.total",
		metric.WithDescription("Enrichment passes by result"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// FetchCompleted implements provider.Observer.
func (r *Recorder) FetchCompleted(ctx context.Context, providerName, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("provider", providerName),
		attribute.String("outcome", outcome),
	)
	r.fetches.Add(ctx, 1, attrs)
	if elapsed > 0 {
		r.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

// PassCompleted implements enrich.Recorder.
func (r *Recorder) PassCompleted(ctx context.Context, set, result string, _ time.Duration) {
	r.passes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("set", set),
		attribute.String("result", result),
	))
}

// RecordsTagged implements enrich.Recorder.
func (r *Recorder) RecordsTagged(ctx context.Context, set string, counts map[market.Provenance]int) {
	for provenance, n := range counts {
		r.records.Add(ctx, int64(n), metric.WithAttributes(
			attribute.String("set", set),
			attribute.String("provenance", string(provenance)),
		))
	}
}

// Shutdown flushes pending measurements when exporting.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.meterProvider == nil {
		return nil
	}
	return r.meterProvider.Shutdown(ctx)
}

var (
	_ provider.Observer = (*Recorder)(nil)
	_ enrich.Recorder   = (*Recorder)(nil)
)
