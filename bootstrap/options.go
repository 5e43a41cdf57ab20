package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/beankit/binding"
	"github.com/kbukum/beankit/descriptor"
	"github.com/kbukum/beankit/di"
	"github.com/kbukum/beankit/logger"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

// appOptions collects all option values before applying to App.
type appOptions struct {
	logger          *logger.Logger
	descriptors     *descriptor.Registry
	binders         *binding.Registry
	containerOpts   []di.Option
	gracefulTimeout *time.Duration
	summaryOut      io.Writer
	skipTelemetry   bool
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is auto-initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithRegistries uses pre-populated descriptor and binder registries for the
// root container. Nil arguments keep the defaults.
func WithRegistries(descriptors *descriptor.Registry, binders *binding.Registry) Option {
	return func(o *appOptions) {
		o.descriptors = descriptors
		o.binders = binders
	}
}

// WithContainerOptions passes extra options to the root container. They are
// applied after the config and win over it.
func WithContainerOptions(opts ...di.Option) Option {
	return func(o *appOptions) {
		o.containerOpts = append(o.containerOpts, opts...)
	}
}

// WithSummaryOutput redirects the startup summary. Pass io.Discard to
// silence it.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *appOptions) {
		o.summaryOut = w
	}
}

// WithoutTelemetry skips exporter setup even when the config enables it.
func WithoutTelemetry() Option {
	return func(o *appOptions) {
		o.skipTelemetry = true
	}
}
