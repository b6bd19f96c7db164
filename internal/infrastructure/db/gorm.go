package db

import (
	"fmt"
	"time"

	"compliance-portal/internal/config"
	"compliance-portal/internal/domain/activity"
	"compliance-portal/internal/domain/notification"
	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"
	"compliance-portal/internal/infrastructure/logging"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQuery = 200 * time.Millisecond

// Pool sizes the database/sql connection pool.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

var DefaultPool = Pool{MaxOpen: 30, MaxIdle: 10, MaxLifetime: 30 * time.Minute, MaxIdleTime: 10 * time.Minute}

// sqlite serialises writers; a single connection avoids SQLITE_BUSY and keeps
// one shared :memory: database.
var sqlitePool = Pool{MaxOpen: 1, MaxIdle: 1}

// Dialector picks the gorm driver for the configured DB_DRIVER.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return mysql.Open(cfg.MySQLDSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.PostgresDSN), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.SQLitePath), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

// OpenGorm connects to the configured database and verifies it answers.
func OpenGorm(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dial, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	pool := DefaultPool
	if cfg.DBDriver == config.DriverSQLite {
		pool = sqlitePool
	}
	return OpenGormWithDialector(dial, pool, log)
}

func OpenGormWithDialector(dial gorm.Dialector, pool Pool, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dial, &gorm.Config{
		Logger:               gormLogger(log),
		NowFunc:              func() time.Time { return time.Now().UTC() },
		DisableAutomaticPing: true, // pinged below, after the pool is sized
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpen)
	sqlDB.SetMaxIdleConns(pool.MaxIdle)
	sqlDB.SetConnMaxLifetime(pool.MaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.MaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// gormLogger routes slow queries and errors through zap.
func gormLogger(log *zap.Logger) logger.Interface {
	std := zap.NewStdLog(logging.OrNop(log).Named("gorm"))
	return logger.New(std, logger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Models lists every table the portal owns, in dependency order.
func Models() []any {
	return []any{
		&organization.Organization{},
		&activity.Activity{},
		&submission.Submission{},
		&notification.Notification{},
		&notification.NotificationRead{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
