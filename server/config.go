package server

import (
	"time"

	"github.com/kbukum/discoverykit/validation"
)

// ConfigKey is the configuration branch read into Config.
const ConfigKey = "server"

// Config is the "server" branch. Timeouts are durations such as "15s".
type Config struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// ApplyDefaults fills unset timeouts. Port 0 is kept so tests can bind an
// ephemeral port; NewConfig starts from 8080.
func (c *Config) ApplyDefaults() {
	defaults := []struct {
		field *time.Duration
		value time.Duration
	}{
		{&c.ReadTimeout, 15 * time.Second},
		{&c.WriteTimeout, 15 * time.Second},
		{&c.IdleTimeout, 60 * time.Second},
		{&c.ShutdownTimeout, 5 * time.Second},
	}
	for _, d := range defaults {
		if *d.field == 0 {
			*d.field = d.value
		}
	}
}

func (c *Config) Validate() error {
	return validation.Validate(c)
}

// NewConfig returns the defaults used when the server branch is absent.
func NewConfig() Config {
	c := Config{Port: 8080}
	c.ApplyDefaults()
	return c
}
