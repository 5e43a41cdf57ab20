package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Status values recorded on spans and instruments.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Telemetry traces and measures one container. All methods are safe on a
// nil receiver and then record nothing.
type Telemetry struct {
	tracer      trace.Tracer
	metrics     *Metrics
	container   string
	containerID string
}

// NewTelemetry builds container telemetry from explicit providers.
func NewTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*Telemetry, error) {
	metrics, err := NewMetrics(mp.Meter(InstrumentationName))
	if err != nil {
		return nil, err
	}
	return &Telemetry{
		tracer:  tp.Tracer(InstrumentationName),
		metrics: metrics,
	}, nil
}

// NewGlobalTelemetry builds container telemetry from the global providers.
func NewGlobalTelemetry() (*Telemetry, error) {
	return NewTelemetry(otel.GetTracerProvider(), otel.GetMeterProvider())
}

// ForContainer returns a copy labelled with a container's name and ID.
func (t *Telemetry) ForContainer(name, id string) *Telemetry {
	if t == nil {
		return nil
	}
	cp := *t
	cp.container = name
	cp.containerID = id
	return &cp
}

// Operation is an in-flight construction or destruction.
type Operation struct {
	tel       *Telemetry
	span      trace.Span
	ctx       context.Context
	kind      string
	component string
	scope     string
	start     time.Time
}

// StartConstruct opens a construction span as a child of any span in ctx.
func (t *Telemetry) StartConstruct(ctx context.Context, component, scope, targetType string) (context.Context, *Operation) {
	return t.start(ctx, SpanConstruct, component, scope,
		attribute.String(AttrScope, scope),
		attribute.String(AttrTargetType, targetType),
	)
}

// StartDestroy opens a destruction span.
func (t *Telemetry) StartDestroy(ctx context.Context, component string) (context.Context, *Operation) {
	return t.start(ctx, SpanDestroy, component, "")
}

func (t *Telemetry) start(ctx context.Context, kind, component, scope string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	if t == nil {
		return ctx, nil
	}
	attrs = append(attrs,
		attribute.String(AttrComponent, component),
		attribute.String(AttrContainer, t.container),
		attribute.String(AttrContainerID, t.containerID),
	)
	ctx, span := t.tracer.Start(ctx, kind, trace.WithAttributes(attrs...))
	return ctx, &Operation{
		tel:       t,
		span:      span,
		ctx:       ctx,
		kind:      kind,
		component: component,
		scope:     scope,
		start:     time.Now(),
	}
}

// End closes the operation, recording err when non-nil.
func (o *Operation) End(err error) {
	if o == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusError
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	}
	duration := time.Since(o.start)
	o.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	o.span.End()

	switch o.kind {
	case SpanConstruct:
		o.tel.metrics.RecordConstruct(o.ctx, o.tel.container, o.component, o.scope, status, duration)
	case SpanDestroy:
		o.tel.metrics.RecordDestroy(o.ctx, o.tel.container, o.component, status)
	}
}

// EarlyReference records a cycle broken through an in-progress singleton.
func (t *Telemetry) EarlyReference(ctx context.Context, component string) {
	if t == nil {
		return
	}
	trace.SpanFromContext(ctx).AddEvent("early_reference", trace.WithAttributes(
		attribute.String(AttrComponent, component),
	))
	t.metrics.RecordEarlyReference(ctx, t.container, component)
}

// Cached adjusts the cached singleton gauge.
func (t *Telemetry) Cached(ctx context.Context, delta int64) {
	if t == nil || delta == 0 {
		return
	}
	t.metrics.AddCached(ctx, t.container, delta)
}
