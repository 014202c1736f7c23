package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/toranj-io/daftar/internal/config"
	"github.com/toranj-io/daftar/internal/jalali"
	"github.com/toranj-io/daftar/internal/model"
	"github.com/toranj-io/daftar/internal/storage"
)

// initStorage opens the configured database and brings its schema up to
// date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		defaultPath, err := config.DefaultDatabasePath()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = defaultPath
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// parseAmountFlag turns a flag value into a decimal bound. Persian and
// Arabic digits are accepted; an empty flag means the bound is unset.
func parseAmountFlag(value, name string) (*decimal.Decimal, error) {
	value = strings.TrimSpace(jalali.NormalizeDigits(value))
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid value for --%s: %q", name, value)
	}
	return model.Dec(d), nil
}

// formatAmount renders a nullable amount for display.
func formatAmount(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
