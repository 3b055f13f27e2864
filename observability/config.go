package observability

import (
	"fmt"
	"time"

	"github.com/kbukum/discoverykit/config"
	"github.com/kbukum/discoverykit/validation"
)

// ConfigKey is the configuration branch read into Config.
const ConfigKey = "observability"

// Config controls telemetry export. Nothing is exported unless
// OTLP.Endpoint is set.
type Config struct {
	ServiceVersion string        `mapstructure:"service_version"`
	Environment    string        `mapstructure:"environment"`
	SampleRate     float64       `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	MetricInterval time.Duration `mapstructure:"metric_interval" validate:"gte=0"`
	OTLP           OTLPConfig    `mapstructure:"otlp"`
}

// OTLPConfig addresses the OTLP/HTTP collector, e.g. "localhost:4318".
type OTLPConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

// NewConfig returns the defaults used when the observability branch is absent.
func NewConfig() Config {
	return Config{
		Environment:    "development",
		SampleRate:     1.0,
		MetricInterval: 15 * time.Second,
	}
}

// Enabled reports whether telemetry is exported.
func (c *Config) Enabled() bool { return c.OTLP.Endpoint != "" }

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// LoadConfig reads the observability branch of tree over the defaults.
func LoadConfig(tree config.Tree) (Config, error) {
	cfg := NewConfig()
	if tree != nil && tree.IsSet(ConfigKey) {
		if err := tree.UnmarshalKey(ConfigKey, &cfg); err != nil {
			return cfg, fmt.Errorf("observability config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
