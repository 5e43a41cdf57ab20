// Package bootstrap runs a beankit container as an application.
//
// It applies and validates typed configuration, initializes the logger and
// OpenTelemetry providers, builds the root container from the config, and
// registers it (and the optional inspect server) as lifecycle components.
// Run blocks until SIGINT/SIGTERM and then shuts everything down in reverse.
//
// # Quick Start
//
//	var cfg bootstrap.AppConfig
//	if err := config.LoadConfig("orders", &cfg); err != nil {
//	    log.Fatal(err)
//	}
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app.Binders.Register(binding.NewType[Store]("Store", nil))
//	app.Descriptors.Register(&descriptor.Descriptor{Name: "store", TargetType: "Store"})
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Phases: Start components (container pre-instantiation, inspect server),
// OnStart hooks, OnConfigure callbacks, ready check, OnReady hooks.
// Shutdown runs OnStop hooks, stops components in reverse order (children
// before the root container) and flushes telemetry.
package bootstrap
