// Package app assembles the back-office components from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/Priyanshux26/Gym-management-system/internal/analytics"
	"github.com/Priyanshux26/Gym-management-system/internal/config"
	"github.com/Priyanshux26/Gym-management-system/internal/domain"
	"github.com/Priyanshux26/Gym-management-system/internal/outbox"
	"github.com/Priyanshux26/Gym-management-system/internal/persistence/memory"
	"github.com/Priyanshux26/Gym-management-system/internal/persistence/postgres"
	"github.com/Priyanshux26/Gym-management-system/internal/persistence/sqlite"
)

// Store is everything the back office needs from a storage driver.
type Store interface {
	analytics.Store
	domain.RecordRepository
	domain.UserRepository
	outbox.Source
	outbox.Requeuer

	Migrate(ctx context.Context) error
	Close()
}

// OpenStore connects the configured driver and applies its schema.
func OpenStore(ctx context.Context, cfg config.Config) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		store, err = postgres.Open(ctx, cfg.PostgresURL, cfg.QueryTimeout)
	case config.DriverSQLite:
		store, err = sqlite.Open(cfg.SQLitePath, cfg.QueryTimeout)
	case config.DriverMemory:
		store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate %s store: %w", cfg.StoreDriver, err)
	}
	return store, nil
}
