package database

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config describes the PostgreSQL connection. With Enabled false nothing is
// opened and the connection fields are not validated.
type Config struct {
	Enabled         bool   `toml:"enabled"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	Name            string `toml:"name"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	SSLMode         string `toml:"ssl_mode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
	ConnTimeout     string `toml:"conn_timeout"`
}

// Env names the environment variables that override Config fields. Empty
// names are skipped.
type Env struct {
	Enabled         string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    string
	MaxIdleConns    string
	ConnMaxLifetime string
	ConnTimeout     string
}

func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnMaxLifetime)
	return d
}

func (c *Config) ConnTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnTimeout)
	return d
}

// URL renders the config as a postgres:// URL. pgx and golang-migrate both
// accept this form.
func (c *Config) URL() string {
	q := url.Values{"sslmode": {c.SSLMode}}
	if t := c.ConnTimeoutDuration(); t > 0 {
		q.Set("connect_timeout", strconv.Itoa(max(int(t.Seconds()), 1)))
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (c *Config) Finalize(env *Env) error {
	setDefault(&c.Host, "localhost")
	setDefault(&c.Port, 5432)
	setDefault(&c.Name, "prognosis")
	setDefault(&c.SSLMode, "disable")
	setDefault(&c.MaxOpenConns, 10)
	setDefault(&c.MaxIdleConns, 2)
	setDefault(&c.ConnMaxLifetime, "15m")
	setDefault(&c.ConnTimeout, "5s")

	if env != nil {
		if err := c.applyEnv(env); err != nil {
			return err
		}
	}

	if !c.Enabled {
		return nil
	}
	if c.User == "" {
		return fmt.Errorf("user required when database is enabled")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max_idle_conns %d exceeds max_open_conns %d", c.MaxIdleConns, c.MaxOpenConns)
	}
	for name, v := range map[string]string{
		"conn_max_lifetime": c.ConnMaxLifetime,
		"conn_timeout":      c.ConnTimeout,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

// Merge overwrites fields set in overlay. An overlay can switch the database
// on but not off; use the Enabled env variable for that.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = c.Enabled || overlay.Enabled
	mergeValue(&c.Host, overlay.Host)
	mergeValue(&c.Port, overlay.Port)
	mergeValue(&c.Name, overlay.Name)
	mergeValue(&c.User, overlay.User)
	mergeValue(&c.Password, overlay.Password)
	mergeValue(&c.SSLMode, overlay.SSLMode)
	mergeValue(&c.MaxOpenConns, overlay.MaxOpenConns)
	mergeValue(&c.MaxIdleConns, overlay.MaxIdleConns)
	mergeValue(&c.ConnMaxLifetime, overlay.ConnMaxLifetime)
	mergeValue(&c.ConnTimeout, overlay.ConnTimeout)
}

func (c *Config) applyEnv(env *Env) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{env.Host, &c.Host},
		{env.Name, &c.Name},
		{env.User, &c.User},
		{env.Password, &c.Password},
		{env.SSLMode, &c.SSLMode},
		{env.ConnMaxLifetime, &c.ConnMaxLifetime},
		{env.ConnTimeout, &c.ConnTimeout},
	}
	for _, s := range strs {
		if v := getenv(s.name); v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{env.Port, &c.Port},
		{env.MaxOpenConns, &c.MaxOpenConns},
		{env.MaxIdleConns, &c.MaxIdleConns},
	}
	for _, s := range ints {
		v := getenv(s.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		*s.dst = n
	}

	if v := getenv(env.Enabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", env.Enabled, err)
		}
		c.Enabled = enabled
	}
	return nil
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func setDefault[T comparable](dst *T, def T) {
	var zero T
	if *dst == zero {
		*dst = def
	}
}

func mergeValue[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
