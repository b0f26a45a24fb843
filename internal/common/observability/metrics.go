// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability owns the OpenTelemetry meter provider and the instruments
// shared across the backend. Metrics are exported through the Prometheus
// registry served on /metrics.
type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	rebuildCounter  otelmetric.Int64Counter
	rebuildDuration otelmetric.Float64Histogram
	queryCounter    otelmetric.Int64Counter
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	rebuildCounter, _ := meter.Int64Counter(
		"snapshot.rebuilds",
		otelmetric.WithDescription("Number of snapshot rebuilds"),
	)

	rebuildDuration, _ := meter.Float64Histogram(
		"snapshot.rebuild_duration",
		otelmetric.WithDescription("Snapshot rebuild duration"),
		otelmetric.WithUnit("ms"),
	)

	queryCounter, _ := meter.Int64Counter(
		"queries.served",
		otelmetric.WithDescription("Number of queries served from the snapshot"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		rebuildCounter:  rebuildCounter,
		rebuildDuration: rebuildDuration,
		queryCounter:    queryCounter,
	}
}

// RecordRebuild counts one snapshot rebuild with its outcome.
func (o *Observability) RecordRebuild(ctx context.Context, outcome string) {
	if o.rebuildCounter != nil {
		o.rebuildCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

// RecordRebuildDuration records how long a rebuild took.
func (o *Observability) RecordRebuildDuration(ctx context.Context, duration time.Duration, outcome string) {
	if o.rebuildDuration != nil {
		o.rebuildDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

// RecordQuery counts one served query by kind (search, profile, job, statistics).
func (o *Observability) RecordQuery(ctx context.Context, kind string) {
	if o.queryCounter != nil {
		o.queryCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("kind", kind),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
