package patternfilter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// Storage drivers.
const (
	driverValkey   = "valkey"
	driverRedis    = "redis"
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
	driverMemory   = "memory"
)

type clientConfig struct {
	driver   string
	addrs    []string
	username string
	password string
	dsn      string

	keyPrefix        string
	maxRecords       int
	readinessTimeout time.Duration
	now              func() time.Time
	lenientFilters   bool

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithValkey stores presets in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis stores presets in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithUsername sets the ACL username for Valkey or Redis.
func WithUsername(username string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
	})
}

// WithSQLite stores presets in a SQLite database file.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverSQLite
		c.dsn = path
	})
}

// WithPostgres stores presets in PostgreSQL.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverPostgres
		c.dsn = dsn
	})
}

// WithMemory keeps presets in process memory. Nothing survives Close.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
	})
}

// WithKeyPrefix namespaces stored presets. Default: "patternfilter:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithMaxRecords caps the number of records per Filter or ApplyPreset call.
// Zero disables the cap. Default: 10000.
func WithMaxRecords(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxRecords = n
	})
}

// WithReadinessTimeout bounds the initial connectivity check. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithClock overrides the time source for preset timestamps.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(c *clientConfig) {
		c.now = now
	})
}

// WithLenientFilters makes Filter accept unknown operator and logic tags
// instead of returning ErrInvalidFilter. Unknown logic evaluates as AND and
// an unknown operator never matches. Both are logged at Warn.
func WithLenientFilters() Option {
	return optionFunc(func(c *clientConfig) {
		c.lenientFilters = true
	})
}

// WithLogger enables structured logging for SDK operations and filter
// diagnostics. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
