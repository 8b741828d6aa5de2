package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "PROGNOSIS_SERVER_HOST"
	EnvServerPort              = "PROGNOSIS_SERVER_PORT"
	EnvServerReadTimeout       = "PROGNOSIS_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "PROGNOSIS_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "PROGNOSIS_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "PROGNOSIS_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "PROGNOSIS_SERVER_SHUTDOWN_TIMEOUT"
)

// Duration is a time.Duration read from a Go duration string such as "15s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ServerConfig holds the HTTP listener settings. Port 5001 is what existing
// prediction clients call.
type ServerConfig struct {
	Host              string   `toml:"host"`
	Port              int      `toml:"port"`
	ReadTimeout       Duration `toml:"read_timeout"`
	ReadHeaderTimeout Duration `toml:"read_header_timeout"`
	WriteTimeout      Duration `toml:"write_timeout"`
	IdleTimeout       Duration `toml:"idle_timeout"`
	ShutdownTimeout   Duration `toml:"shutdown_timeout"`
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type durationSetting struct {
	name  string
	env   string
	value *Duration
	def   time.Duration
}

func (c *ServerConfig) durations() []durationSetting {
	return []durationSetting{
		{"read_timeout", EnvServerReadTimeout, &c.ReadTimeout, 15 * time.Second},
		{"read_header_timeout", EnvServerReadHeaderTimeout, &c.ReadHeaderTimeout, 5 * time.Second},
		{"write_timeout", EnvServerWriteTimeout, &c.WriteTimeout, 30 * time.Second},
		{"idle_timeout", EnvServerIdleTimeout, &c.IdleTimeout, 60 * time.Second},
		{"shutdown_timeout", EnvServerShutdownTimeout, &c.ShutdownTimeout, 30 * time.Second},
	}
}

// Finalize fills defaults, applies PROGNOSIS_SERVER_* overrides and validates.
func (c *ServerConfig) Finalize() error {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 5001
	}
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvServerPort, err)
		}
		c.Port = port
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	for _, s := range c.durations() {
		if *s.value == 0 {
			*s.value = Duration(s.def)
		}
		if v := os.Getenv(s.env); v != "" {
			if err := s.value.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("invalid %s: %w", s.name, err)
			}
		}
		if *s.value < 0 {
			return fmt.Errorf("invalid %s: must not be negative", s.name)
		}
	}
	return nil
}

// Merge overwrites fields that are set in overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}

	over := overlay.durations()
	for i, s := range c.durations() {
		if v := *over[i].value; v != 0 {
			*s.value = v
		}
	}
}
