package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/beankit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for local development.
func DefaultMeterConfig(serviceName string) *MeterConfig {
	return &MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a periodic OTLP meter provider as the global provider.
// The caller shuts it down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Instrument names.
const (
	MetricConstructTotal    = "beankit.construct.total"
	MetricConstructDuration = "beankit.construct.duration"
	MetricEarlyReferences   = "beankit.construct.early_references"
	MetricDestroyTotal      = "beankit.destroy.total"
	MetricSingletonsCached  = "beankit.singletons.cached"
)

// Metrics holds the container's metric instruments.
type Metrics struct {
	constructTotal    metric.Int64Counter
	constructDuration metric.Float64Histogram
	earlyReferences   metric.Int64Counter
	destroyTotal      metric.Int64Counter
	singletonsCached  metric.Int64UpDownCounter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	constructTotal, err := meter.Int64Counter(MetricConstructTotal,
		metric.WithDescription("Component constructions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricConstructTotal, err)
	}

	constructDuration, err := meter.Float64Histogram(MetricConstructDuration,
		metric.WithDescription("Duration of component construction in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricConstructDuration, err)
	}

	earlyReferences, err := meter.Int64Counter(MetricEarlyReferences,
		metric.WithDescription("References served from in-progress singletons to break cycles"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricEarlyReferences, err)
	}

	destroyTotal, err := meter.Int64Counter(MetricDestroyTotal,
		metric.WithDescription("Singleton destructions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricDestroyTotal, err)
	}

	singletonsCached, err := meter.Int64UpDownCounter(MetricSingletonsCached,
		metric.WithDescription("Singletons currently cached"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricSingletonsCached, err)
	}

	return &Metrics{
		constructTotal:    constructTotal,
		constructDuration: constructDuration,
		earlyReferences:   earlyReferences,
		destroyTotal:      destroyTotal,
		singletonsCached:  singletonsCached,
	}, nil
}

// RecordConstruct records one finished construction.
func (m *Metrics) RecordConstruct(ctx context.Context, container, component, scope, status string, duration time.Duration) {
	m.constructTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrContainer, container),
		attribute.String(AttrComponent, component),
		attribute.String(AttrScope, scope),
		attribute.String(AttrStatus, status),
	))
	m.constructDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrContainer, container),
		attribute.String(AttrScope, scope),
	))
}

// RecordEarlyReference counts a cycle broken by handing out an in-progress instance.
func (m *Metrics) RecordEarlyReference(ctx context.Context, container, component string) {
	m.earlyReferences.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrContainer, container),
		attribute.String(AttrComponent, component),
	))
}

// RecordDestroy records one singleton destruction.
func (m *Metrics) RecordDestroy(ctx context.Context, container, component, status string) {
	m.destroyTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrContainer, container),
		attribute.String(AttrComponent, component),
		attribute.String(AttrStatus, status),
	))
}

// AddCached adjusts the cached singleton gauge.
func (m *Metrics) AddCached(ctx context.Context, container string, delta int64) {
	m.singletonsCached.Add(ctx, delta, metric.WithAttributes(
		attribute.String(AttrContainer, container),
	))
}
