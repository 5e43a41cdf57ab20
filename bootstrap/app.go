package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/beankit/binding"
	"github.com/kbukum/beankit/component"
	"github.com/kbukum/beankit/descriptor"
	"github.com/kbukum/beankit/di"
	"github.com/kbukum/beankit/inspect"
	"github.com/kbukum/beankit/logger"
	"github.com/kbukum/beankit/observability"
)

// App represents a container application with uniform lifecycle management.
// The type parameter C is the config type, which must satisfy the Config
// interface. Any struct embedding AppConfig satisfies it.
//
// Example:
//
//	app, err := bootstrap.NewApp(&myConfig)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*MyConfig]) error {
//	    // a.Container is started; resolve the entry points here
//	    return nil
//	})
//	app.Run(context.Background())
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C

	// Descriptors and Binders back the root container. Populate them before
	// Run; the container reads them on every Get.
	Descriptors *descriptor.Registry
	Binders     *binding.Registry
	Container   *di.Container
	Components  *component.Registry
	// Inspect is nil unless the container config enables it.
	Inspect *inspect.Handler
	Logger  *logger.Logger
	Summary *Summary

	telemetry         *observability.Telemetry
	telemetryShutdown []func(context.Context) error
	gracefulTimeout   time.Duration
	onConfigure       []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp creates an application from a typed config. It applies defaults,
// validates the config, initializes the logger and telemetry, and builds the
// root container.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	cc := cfg.GetContainerConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Descriptors:     o.descriptors,
		Binders:         o.binders,
		Components:      component.NewRegistry(),
		gracefulTimeout: 15 * time.Second,
	}
	if app.Descriptors == nil {
		app.Descriptors = descriptor.NewRegistry()
	}
	if app.Binders == nil {
		app.Binders = binding.NewRegistry()
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	// Logger: use custom if provided, otherwise init from config.
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	if cc.Telemetry.Enabled() && !o.skipTelemetry {
		if err := app.initTelemetry(context.Background()); err != nil {
			return nil, err
		}
	}

	containerOpts := append([]di.Option{
		di.WithLogger(app.Logger),
		di.WithTelemetry(app.telemetry),
	}, o.containerOpts...)
	container, err := di.NewFromConfig(cc, app.Descriptors, app.Binders, containerOpts...)
	if err != nil {
		return nil, fmt.Errorf("container: %w", err)
	}
	app.Container = container
	if err := app.Components.Register(container); err != nil {
		return nil, err
	}

	if cc.Inspect.Enabled {
		app.Inspect = inspect.NewHandler(base.Name, []*di.Container{container}, inspect.WithLogger(app.Logger))
		if err := app.Components.Register(inspect.NewServer(cc.Inspect.Addr, app.Inspect, app.Logger)); err != nil {
			return nil, err
		}
	}

	app.Summary = NewSummary(base.Name, base.Version, o.summaryOut)
	return app, nil
}

// initTelemetry installs OTLP providers for the enabled signals and builds
// the container telemetry from the global providers.
func (a *App[C]) initTelemetry(ctx context.Context) error {
	base := a.Cfg.GetServiceConfig()
	tc := a.Cfg.GetContainerConfig().Telemetry

	if tc.Tracing {
		tp, err := observability.InitTracer(ctx, &observability.TracerConfig{
			ServiceName:    base.Name,
			ServiceVersion: base.Version,
			Environment:    base.Environment,
			Endpoint:       tc.Endpoint,
			Insecure:       tc.Insecure,
			SampleRate:     tc.SampleRate,
		})
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
		a.telemetryShutdown = append(a.telemetryShutdown, tp.Shutdown)
	}
	if tc.Metrics {
		mp, err := observability.InitMeter(ctx, &observability.MeterConfig{
			ServiceName:    base.Name,
			ServiceVersion: base.Version,
			Environment:    base.Environment,
			Endpoint:       tc.Endpoint,
			Insecure:       tc.Insecure,
			Interval:       tc.Interval,
		})
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		a.telemetryShutdown = append(a.telemetryShutdown, mp.Shutdown)
	}

	tel, err := observability.NewGlobalTelemetry()
	if err != nil {
		return fmt.Errorf("telemetry instruments: %w", err)
	}
	a.telemetry = tel
	return nil
}

// NewChild creates a container whose unresolved names fall back to the root
// container. It is started after the root and stopped before it. Call it
// before Run.
func (a *App[C]) NewChild(name string, descriptors *descriptor.Registry, opts ...di.Option) (*di.Container, error) {
	base := []di.Option{
		di.WithName(name),
		di.WithParent(a.Container),
		di.WithLogger(a.Logger),
		di.WithTelemetry(a.telemetry),
	}
	child := di.New(descriptors, a.Binders, append(base, opts...)...)
	if err := a.Components.Register(child); err != nil {
		return nil, err
	}
	if a.Inspect != nil {
		a.Inspect.Add(child)
	}
	return child, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback to run during the configure phase, after
// the containers have started.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	results := a.Components.HealthAll(ctx)
	var unhealthy []string
	for _, h := range results {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run executes the full application lifecycle for long-running services:
// Initialize, OnStart hooks, Configure, ReadyCheck, OnReady hooks, block on
// signal, OnStop hooks, graceful shutdown.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	a.Logger.Info("application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask executes a finite task with the full bootstrap lifecycle. It does
// not block on signals; a signal cancels the task's context instead.
//
//	app.RunTask(ctx, func(ctx context.Context) error {
//	    job := di.MustResolve[*Job](app.Container, "job")
//	    return job.Run(ctx)
//	})
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	taskErr := task(taskCtx)
	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// startup performs the common initialization sequence shared by Run and RunTask.
func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))

	if err := a.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := a.configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.DisplaySummary()
	return nil
}

// initialize starts all registered components (Phase 1).
func (a *App[C]) initialize(ctx context.Context) error {
	a.Logger.Info("phase 1: starting components")
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}
	a.Logger.Info("phase 1: all components started")
	return nil
}

// DisplaySummary prints the startup summary from the component registry and
// the containers it holds.
func (a *App[C]) DisplaySummary() {
	a.Summary.DisplaySummary(a.Components)
}

// configure runs registered configuration callbacks (Phase 2).
func (a *App[C]) configure(ctx context.Context) error {
	if len(a.onConfigure) == 0 {
		return nil
	}

	a.Logger.Info("phase 2: running configuration callbacks", logger.Fields(
		logger.FieldCount, len(a.onConfigure),
	))
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}
	a.Logger.Info("phase 2: configuration complete")
	return nil
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App[C]) Shutdown(_ context.Context) error {
	return a.stop()
}

// stop runs OnStop hooks, stops components in reverse order and flushes
// telemetry, all within the graceful timeout. Every failure is returned.
func (a *App[C]) stop() error {
	a.Logger.Info("shutting down application", logger.Fields(
		"timeout", a.gracefulTimeout.String(),
	))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("onStop hook error", logger.Fields(logger.FieldError, err.Error()))
		errs = append(errs, err)
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("components stopped with errors", logger.Fields(logger.FieldError, err.Error()))
		errs = append(errs, err)
	}
	for _, shutdown := range a.telemetryShutdown {
		if err := shutdown(ctx); err != nil {
			a.Logger.Warn("telemetry shutdown error", logger.Fields(logger.FieldError, err.Error()))
			errs = append(errs, err)
		}
	}
	a.telemetryShutdown = nil

	a.Logger.Info("application shutdown complete")
	return stderrors.Join(errs...)
}
