package bootstrap

import (
	"fmt"

	"github.com/kbukum/beankit/config"
)

// Config is the constraint for application configuration types. Embedding
// AppConfig satisfies it through promoted methods.
//
//	type MyConfig struct {
//	    bootstrap.AppConfig `yaml:",inline" mapstructure:",squash"`
//	    Orders OrdersConfig `yaml:"orders" mapstructure:"orders"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	GetContainerConfig() *config.ContainerConfig
	ApplyDefaults()
	Validate() error
}

// DefaultEnvPrefix restricts environment overrides to BEANKIT_* variables.
// Without a prefix, variables such as CONTAINER_NAME that container runtimes
// set would override the container block.
const DefaultEnvPrefix = "BEANKIT"

// LoadConfig loads cfg for serviceName with environment overrides limited
// to DefaultEnvPrefix. opts are applied after the default and may replace it.
func LoadConfig(serviceName string, cfg Config, opts ...config.LoaderOption) error {
	return config.LoadConfig(serviceName, cfg, append([]config.LoaderOption{config.WithEnvPrefix(DefaultEnvPrefix)}, opts...)...)
}

// AppConfig is the service block plus the root container block.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Container            config.ContainerConfig `yaml:"container" mapstructure:"container"`
}

// GetContainerConfig returns the container block.
func (c *AppConfig) GetContainerConfig() *config.ContainerConfig {
	return &c.Container
}

// ApplyDefaults fills both blocks.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Container.ApplyDefaults()
}

// Validate checks both blocks.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Container.Validate(); err != nil {
		return fmt.Errorf("container: %w", err)
	}
	return nil
}
