// Package config loads service and container settings.
//
// Settings come from a config.yml file, overridden by the process
// environment. A .env file is loaded into the environment first and never
// replaces variables that are already set. Environment keys map onto
// nested config keys by trying every split of their underscores, so
// CONTAINER_MAX_PARENT_DEPTH sets container.max_parent_depth.
//
// Without WithEnvPrefix every variable is considered, including ones the
// host sets for its own use (CONTAINER_NAME under some container runtimes).
// Services should pass a prefix; bootstrap.LoadConfig defaults to BEANKIT,
// so BEANKIT_CONTAINER_NAME sets container.name.
//
//	type AppConfig struct {
//	    config.ServiceConfig `mapstructure:",squash"`
//	    Container config.ContainerConfig `mapstructure:"container"`
//	}
//	cfg, err := config.Load[AppConfig]("beankit-demo")
package config
