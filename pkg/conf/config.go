// Package conf holds the process-wide behavior flags for statistics: bias
// correction, fill policy on vector growth, equality tolerance, and debug
// verbosity.  Defaults resolve in a fixed order: built-in values first, then
// VECSTAT_* environment variables, then explicit options.  A single Config
// may be shared by any number of vectors; nodes read it at recompute time so
// changes apply to everything that goes dirty afterwards.
package conf

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
)

// Environment variables consulted by New unless VECSTAT_IGNORE_ENV is set.
const (
	EnvUnbias    = "VECSTAT_UNBIAS"
	EnvNoFill    = "VECSTAT_NOFILL"
	EnvToler     = "VECSTAT_TOLER"
	EnvDebug     = "VECSTAT_DEBUG"
	EnvIgnoreEnv = "VECSTAT_IGNORE_ENV"
)

// Config is the set of flags read by vectors and statistic nodes.
type Config struct {
	// BiasCorrection divides variance and covariance by N-1 (sample
	// statistics) instead of N (population statistics).
	BiasCorrection bool
	// AutoFill pads with zeros when a vector grows; when false, new
	// positions are filled with missing markers instead.
	AutoFill bool
	// Tolerance greater than zero makes Close treat two scalars within
	// that distance as equal.  Zero means exact comparison.
	Tolerance float64
	// Debug sets log verbosity: 0 disables, 1 logs recomputes, 2 or
	// higher adds trace-level detail.
	Debug int
	// Logger receives recompute events from statistic nodes.
	Logger zerolog.Logger
}

// Option configures a Config beyond its environment-resolved defaults.
type Option func(c *Config) error

// New returns a Config resolved from built-in defaults, the environment,
// and finally the supplied options, in that order.
func New(options ...Option) (*Config, error) {
	c := &Config{AutoFill: true}
	fromEnv(c)
	for _, opt := range options {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.Logger = newLogger(c.Debug)
	return c, nil
}

var std *Config

// Default returns the shared process configuration, resolving it from the
// environment on first use.  Vectors constructed without WithConfig use it.
func Default() *Config {
	if std == nil {
		std, _ = New()
	}
	return std
}

// Close reports whether two scalar statistic results are equal under the
// configured tolerance.
func (c *Config) Close(a, b float64) bool {
	if c.Tolerance > 0 {
		d := a - b
		if d < 0 {
			d = -d
		}
		return d <= c.Tolerance
	}
	return a == b
}

// Unbias selects sample statistics (divide by N-1).
func Unbias() Option {
	return func(c *Config) error {
		c.BiasCorrection = true
		return nil
	}
}

// Population selects population statistics (divide by N).
func Population() Option {
	return func(c *Config) error {
		c.BiasCorrection = false
		return nil
	}
}

// NoFill pads grown vector positions with missing markers instead of zeros.
func NoFill() Option {
	return func(c *Config) error {
		c.AutoFill = false
		return nil
	}
}

// ZeroFill pads grown vector positions with zeros.
func ZeroFill() Option {
	return func(c *Config) error {
		c.AutoFill = true
		return nil
	}
}

// Tolerance sets the equality tolerance for scalar comparisons.
func Tolerance(t float64) Option {
	return func(c *Config) error {
		if t < 0 {
			return fmt.Errorf("tolerance must be >= 0, got %f", t)
		}
		c.Tolerance = t
		return nil
	}
}

// Debug sets the log verbosity level.
func Debug(level int) Option {
	return func(c *Config) error {
		if level < 0 {
			return fmt.Errorf("debug level must be >= 0, got %d", level)
		}
		c.Debug = level
		return nil
	}
}

func fromEnv(c *Config) {
	if _, ok := os.LookupEnv(EnvIgnoreEnv); ok {
		return
	}
	if _, ok := os.LookupEnv(EnvUnbias); ok {
		c.BiasCorrection = true
	}
	if _, ok := os.LookupEnv(EnvNoFill); ok {
		c.AutoFill = false
	}
	if t, ok := os.LookupEnv(EnvToler); ok {
		if f, err := strconv.ParseFloat(t, 64); err == nil && f >= 0 {
			c.Tolerance = f
		}
	}
	if d, ok := os.LookupEnv(EnvDebug); ok {
		if n, err := strconv.Atoi(d); err == nil && n > 0 {
			c.Debug = n
		}
	}
}

func newLogger(level int) zerolog.Logger {
	switch {
	case level <= 0:
		return zerolog.Nop()
	case level == 1:
		return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	default:
		return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.TraceLevel)
	}
}
