package main

import (
	"context"
	"fmt"

	"compliance-portal/internal/config"
	"compliance-portal/internal/infrastructure/db"
	"compliance-portal/internal/infrastructure/logging"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env is what every subcommand needs before doing its own work.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap() (*env, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	gdb, err := db.OpenGorm(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("database (%s): %w", cfg.DBDriver, err)
	}
	log.Info("gorm: connected", zap.String("driver", cfg.DBDriver))
	return &env{cfg: cfg, log: log, db: gdb}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = e.log.Sync()
}

func (e *env) ping(ctx context.Context) error {
	sqlDB, err := e.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// migrate creates or updates every table and seeds the organization roster.
func migrate(ctx context.Context, e *env, seed func(context.Context) error) error {
	if err := db.AutoMigrate(e.db.WithContext(ctx)); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if err := seed(ctx); err != nil {
		return fmt.Errorf("seed roster: %w", err)
	}
	e.log.Info("schema migrated and roster seeded")
	return nil
}
