package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/caixaescolar/caixa/internal/config"
	"github.com/caixaescolar/caixa/internal/service"
	"github.com/caixaescolar/caixa/internal/storage"
)

// currentTenant resolves the tenant from --tenant or the configured
// default.
func currentTenant() (*config.Tenant, error) {
	return config.LoadTenant(viper.GetString("tenant"))
}

// initStorage opens the tenant's snapshot database and runs migrations.
func initStorage(ctx context.Context, tenant *config.Tenant) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(tenant.DBPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// parseDateFlag parses an optional 2006-01-02 flag value.
func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want 2006-01-02): %w", s, err)
	}
	return &t, nil
}
