package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/textcompare/internal/dependencies/clock"
	"github.com/mcoot/textcompare/internal/services/auth"
	"github.com/mcoot/textcompare/internal/services/compare"
	"github.com/mcoot/textcompare/internal/services/ledger"
	"github.com/mcoot/textcompare/internal/services/refill"
	"github.com/mcoot/textcompare/internal/services/scoring"
	"github.com/mcoot/textcompare/internal/storage"
	"github.com/mcoot/textcompare/internal/storage/memory"
	pgstorage "github.com/mcoot/textcompare/internal/storage/postgres"
	redisstorage "github.com/mcoot/textcompare/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Scorer scoring.Scorer

	// Services
	AuthService    *auth.Service
	Ledger         *ledger.Ledger
	CompareGateway *compare.Gateway
	RefillService  *refill.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// Zero fields fall back to auth.DefaultConfig()
	AuthConfig auth.Config
	// ScorerConfig selects the similarity scorer (optional)
	// If zero value, the levenshtein scorer is used
	ScorerConfig scoring.Config
	// AdminPassword provisions the first admin account if set
	AdminPassword string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds PostgreSQL settings (required if StorageType is "postgres")
	PostgresConfig *pgstorage.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	scorer, err := scoring.NewScorer(cfg.ScorerConfig)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	app := newWithDependencies(store, clock.New(), scorer, cfg.AuthConfig, logger)

	if cfg.AdminPassword != "" {
		if err := app.AuthService.EnsureAdmin(ctx, auth.DefaultAdminUsername, cfg.AdminPassword); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	return app, nil
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}

func newStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		return pgstorage.New(ctx, *cfg.PostgresConfig)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, scorer scoring.Scorer, authCfg auth.Config, logger *slog.Logger) *App {
	authService := auth.New(store, clk, authCfg, logger)
	creditLedger := ledger.New(store)
	compareGateway := compare.New(authService, creditLedger, scorer, logger)
	refillService := refill.New(store, authService, creditLedger, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Scorer:         scorer,
		AuthService:    authService,
		Ledger:         creditLedger,
		CompareGateway: compareGateway,
		RefillService:  refillService,
	}
}
