package config

import (
	"time"

	"github.com/kbukum/beankit/validation"
)

// Destroy orders accepted by ContainerConfig.DestroyOrder.
const (
	DestroyOrderReverse   = "reverse"
	DestroyOrderUnordered = "unordered"
)

// ContainerConfig configures one container.
type ContainerConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
	// MaxParentDepth bounds descriptor parent chains during merging.
	MaxParentDepth int `yaml:"max_parent_depth" mapstructure:"max_parent_depth"`
	// DestroyOrder is "reverse" (reverse construction order) or "unordered".
	DestroyOrder string `yaml:"destroy_order" mapstructure:"destroy_order"`
	// PreInstantiate builds every non-lazy singleton on start.
	PreInstantiate bool `yaml:"pre_instantiate" mapstructure:"pre_instantiate"`
	// DependencyCheck validates every component, not just those whose
	// descriptor asks for it.
	DependencyCheck bool            `yaml:"dependency_check" mapstructure:"dependency_check"`
	Inspect         InspectConfig   `yaml:"inspect" mapstructure:"inspect"`
	Telemetry       TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// InspectConfig configures the introspection HTTP endpoint.
type InspectConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Tracing    bool          `yaml:"tracing" mapstructure:"tracing"`
	Metrics    bool          `yaml:"metrics" mapstructure:"metrics"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// Enabled reports whether any signal is exported.
func (c *TelemetryConfig) Enabled() bool {
	return c.Tracing || c.Metrics
}

// ApplyDefaults fills unset fields.
func (c *ContainerConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "root"
	}
	if c.MaxParentDepth == 0 {
		c.MaxParentDepth = 32
	}
	if c.DestroyOrder == "" {
		c.DestroyOrder = DestroyOrderReverse
	}
	if c.Inspect.Addr == "" {
		c.Inspect.Addr = ":8089"
	}
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
	if c.Telemetry.Interval == 0 {
		c.Telemetry.Interval = 15 * time.Second
	}
}

// Validate checks ranges and enumerations.
func (c *ContainerConfig) Validate() error {
	return validation.NewRules().
		Required("name", c.Name).
		Range("max_parent_depth", c.MaxParentDepth, 1, 1024).
		OneOf("destroy_order", c.DestroyOrder, []string{DestroyOrderReverse, DestroyOrderUnordered}).
		Custom(!c.Inspect.Enabled || c.Inspect.Addr != "", "inspect.addr", "is required when inspect is enabled").
		Custom(c.Telemetry.SampleRate >= 0 && c.Telemetry.SampleRate <= 1, "telemetry.sample_rate", "must be between 0 and 1").
		Validate()
}
