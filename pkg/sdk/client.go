package patternfilter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/patternfilter/internal/db"
	dbMemory "github.com/kailas-cloud/patternfilter/internal/db/memory"
	dbPostgres "github.com/kailas-cloud/patternfilter/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/patternfilter/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/patternfilter/internal/db/sqlite"
	domfilter "github.com/kailas-cloud/patternfilter/internal/domain/filter"
	dompreset "github.com/kailas-cloud/patternfilter/internal/domain/preset"
	"github.com/kailas-cloud/patternfilter/internal/domain/record"
	presetrepo "github.com/kailas-cloud/patternfilter/internal/repository/preset"
	filteruc "github.com/kailas-cloud/patternfilter/internal/usecase/filter"
	healthuc "github.com/kailas-cloud/patternfilter/internal/usecase/health"
	presetuc "github.com/kailas-cloud/patternfilter/internal/usecase/preset"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for mocks in tests.
type presetUseCase interface {
	Create(ctx context.Context, name, description string, spec domfilter.Spec) (dompreset.Preset, error)
	Get(ctx context.Context, id string) (dompreset.Preset, error)
	List(ctx context.Context) ([]dompreset.Preset, error)
	Update(ctx context.Context, id, name, description string, spec domfilter.Spec) (dompreset.Preset, error)
	Delete(ctx context.Context, id string) error
	Duplicate(ctx context.Context, id, name string) (dompreset.Preset, error)
}

type filterUseCase interface {
	Evaluate(ctx context.Context, r record.Record, c domfilter.Condition) bool
	Apply(ctx context.Context, records []record.Record, spec domfilter.Spec) ([]record.Record, error)
	ApplyPreset(ctx context.Context, id string, records []record.Record) ([]record.Record, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the patternfilter SDK entry point.
type Client struct {
	store     db.Store
	presetSvc presetUseCase
	filterSvc filterUseCase
	healthSvc healthUseCase
	obs       *observer
	lenient   bool
}

// New creates a Client and connects to the preset store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		maxRecords:       filteruc.DefaultMaxRecords,
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New(
			"patternfilter: storage required (use WithValkey, WithRedis, WithSQLite, WithPostgres or WithMemory)",
		)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("patternfilter: database not ready: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverValkey, driverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("patternfilter: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	case driverSQLite:
		s, err := dbSQLite.NewStore(ctx, cfg.dsn)
		if err != nil {
			return nil, fmt.Errorf("patternfilter: create sqlite store: %w", err)
		}
		return s, nil
	case driverPostgres:
		s, err := dbPostgres.NewStore(ctx, cfg.dsn)
		if err != nil {
			return nil, fmt.Errorf("patternfilter: create postgres store: %w", err)
		}
		return s, nil
	case driverMemory:
		return dbMemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("patternfilter: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	repo := presetrepo.New(store, cfg.keyPrefix)

	presetSvc := presetuc.New(repo)
	if cfg.now != nil {
		presetSvc = presetSvc.WithClock(cfg.now)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		store:     store,
		presetSvc: presetSvc,
		filterSvc: filteruc.New(repo, logger, cfg.maxRecords),
		healthSvc: healthuc.New(store, cfg.driver),
		obs:       obs,
		lenient:   cfg.lenientFilters,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Presets returns the preset management service.
func (c *Client) Presets() *PresetService {
	return &PresetService{svc: c.presetSvc, obs: c.obs}
}
