package request

import (
	"time"

	"go.uber.org/zap"
)

const (
	defaultWalkingSpeedKmh        = 5.0
	defaultCorridorFraction       = 0.30
	defaultCorridorMinM           = 200.0
	defaultSearchTimeout          = 25 * time.Second
	defaultIterationLogInterval   = 500
	defaultSnapSearchRadiusM      = 1000.0
	defaultNearestNodeSearchCapM  = 2000.0
)

// Config configures an Engine. The zero value is not usable; build one
// with DefaultConfig and Option overrides.
type Config struct {
	walkingSpeedKmh      float64
	corridorFraction     float64
	corridorMinM         float64
	searchTimeout        time.Duration
	iterationLogInterval int
	dataDir              []string
	logger               *zap.Logger
}

// Option configures a Config. Invalid values panic inside the option
// constructor rather than surfacing deep inside a search.
type Option func(*Config)

// WithWalkingSpeedKmh overrides the default 5 km/h walking speed used to
// convert distance into duration. Panics if kmh <= 0.
func WithWalkingSpeedKmh(kmh float64) Option {
	if kmh <= 0 {
		panic("request: walking speed must be positive")
	}

	return func(c *Config) { c.walkingSpeedKmh = kmh }
}

// WithCorridorFraction overrides the corridor-width fraction of direct
// distance; defaults to 0.30. Panics if f < 0.
func WithCorridorFraction(f float64) Option {
	if f < 0 {
		panic("request: corridor fraction must be non-negative")
	}

	return func(c *Config) { c.corridorFraction = f }
}

// WithCorridorMinMeters overrides the corridor's minimum width in meters;
// defaults to 200. Panics if m < 0.
func WithCorridorMinMeters(m float64) Option {
	if m < 0 {
		panic("request: corridor minimum must be non-negative")
	}

	return func(c *Config) { c.corridorMinM = m }
}

// WithSearchTimeout overrides the per-search wall-clock budget; defaults
// to 25s. Panics if d <= 0.
func WithSearchTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("request: search timeout must be positive")
	}

	return func(c *Config) { c.searchTimeout = d }
}

// WithIterationLogInterval sets how many node expansions pass between
// cancellation/timeout checks; defaults to 500. Panics if n <= 0.
func WithIterationLogInterval(n int) Option {
	if n <= 0 {
		panic("request: iteration log interval must be positive")
	}

	return func(c *Config) { c.iterationLogInterval = n }
}

// WithDataDir sets the ordered list of candidate directories to scan for
// graph/mask artifacts; the first directory containing graph.nodes wins.
// Defaults to []string{"."}.
func WithDataDir(dirs ...string) Option {
	if len(dirs) == 0 {
		panic("request: at least one data directory must be given")
	}

	return func(c *Config) { c.dataDir = dirs }
}

// WithLogger overrides the Engine's logger; defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) { c.logger = logger }
}

// DefaultConfig returns a Config with every documented default applied,
// then overridden by opts.
func DefaultConfig(opts ...Option) Config {
	cfg := Config{
		walkingSpeedKmh:       defaultWalkingSpeedKmh,
		corridorFraction:      defaultCorridorFraction,
		corridorMinM:          defaultCorridorMinM,
		searchTimeout:         defaultSearchTimeout,
		iterationLogInterval:  defaultIterationLogInterval,
		dataDir:               []string{"."},
		logger:                zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
