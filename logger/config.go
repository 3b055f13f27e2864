package logger

import "github.com/kbukum/discoverykit/validation"

// Config is the "logging" branch of the service configuration.
type Config struct {
	Level     string `mapstructure:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format    string `mapstructure:"format" validate:"oneof=json console text"`
	Output    string `mapstructure:"output" validate:"oneof=stdout stderr"`
	NoColor   bool   `mapstructure:"no_color"`
	Timestamp bool   `mapstructure:"timestamp"`
	Caller    bool   `mapstructure:"caller"`
}

// ApplyDefaults fills unset fields. Timestamps are always on so that
// registration and renewal lines can be ordered across instances.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

// Validate reports invalid fields as an INVALID_INPUT error naming their
// configuration keys.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
