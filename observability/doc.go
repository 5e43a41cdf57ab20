// Package observability provides OpenTelemetry tracing and metrics for
// container construction and shutdown.
//
// Providers:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
// Container telemetry:
//
//	tel, err := observability.NewTelemetry(otel.GetTracerProvider(), otel.GetMeterProvider())
//	c := di.New(registry, binders, di.WithTelemetry(tel))
//
// Every construction opens a "container.construct" span and records the
// beankit.construct.* instruments. A nil *Telemetry records nothing.
//
// Health:
//
//	report := observability.CheckAll(ctx, "my-service", "1.0.0", root, child)
package observability
