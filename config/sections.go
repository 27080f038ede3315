package config

import (
	"time"

	"github.com/kbukum/locator/logger"
	"github.com/kbukum/locator/provider"
	"github.com/kbukum/locator/validation"
)

// Config is the full configuration of a locator-based service.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Locator       LocatorConfig       `yaml:"locator" mapstructure:"locator"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Demo          DemoConfig          `yaml:"demo" mapstructure:"demo"`
}

// LocatorConfig tunes providers built by the service.
type LocatorConfig struct {
	// Locking is the default strategy for safe providers.
	Locking string `yaml:"locking" mapstructure:"locking" validate:"oneof=mutex semaphore queue"`
	// AsyncLogBuffer is the queue size of the provider failure logger.
	AsyncLogBuffer int `yaml:"async_log_buffer" mapstructure:"async_log_buffer" validate:"min=1,max=65536"`
}

// LockingStrategy returns Locking as a provider.Locking.
func (c LocatorConfig) LockingStrategy() provider.Locking {
	l, err := provider.ParseLocking(c.Locking)
	if err != nil {
		return provider.LockMutex
	}
	return l
}

// ObservabilityConfig controls OpenTelemetry export of make metrics and spans.
type ObservabilityConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"min=0,max=1"`
	ExportInterval time.Duration `yaml:"export_interval" mapstructure:"export_interval" validate:"gt=0"`
}

// DemoConfig configures the demo HTTP service.
type DemoConfig struct {
	Addr      string `yaml:"addr" mapstructure:"addr" validate:"required"`
	JWTSecret string `yaml:"jwt_secret" mapstructure:"jwt_secret" validate:"required,min=16"`
	Issuer    string `yaml:"issuer" mapstructure:"issuer"`
}

// ApplyDefaults fills unset fields of every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()

	if c.Locator.Locking == "" {
		c.Locator.Locking = provider.LockMutex.String()
	}
	if c.Locator.AsyncLogBuffer == 0 {
		c.Locator.AsyncLogBuffer = logger.DefaultAsyncBuffer
	}
	if c.Observability.Endpoint == "" && c.Observability.Enabled {
		c.Observability.Endpoint = "localhost:4318"
	}
	if c.Observability.SampleRate == 0 {
		c.Observability.SampleRate = 1
	}
	if c.Observability.ExportInterval == 0 {
		c.Observability.ExportInterval = 15 * time.Second
	}
	if c.Demo.Addr == "" {
		c.Demo.Addr = ":8080"
	}
	if c.Demo.Issuer == "" {
		c.Demo.Issuer = c.Name
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return validation.Struct(struct {
		Locator       LocatorConfig       `mapstructure:"locator"`
		Observability ObservabilityConfig `mapstructure:"observability"`
		Demo          DemoConfig          `mapstructure:"demo"`
	}{c.Locator, c.Observability, c.Demo})
}

// Load reads the configuration of service, applies defaults and validates it.
func Load(service string, opts ...LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := LoadConfig(service, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
