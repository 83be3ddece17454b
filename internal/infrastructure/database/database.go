package database

import (
	"fmt"

	"clinic-scheduling/config"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormConfig returns the gorm settings shared by every driver. TranslateError
// turns driver constraint violations into gorm.ErrDuplicatedKey and
// gorm.ErrForeignKeyViolated.
func GormConfig(env string) *gorm.Config {
	level := logger.Warn
	if env == "development" {
		level = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}
}

// NewConnection opens the configured database and brings its schema up to date.
func NewConnection(cfg config.Config) (*gorm.DB, error) {
	gormCfg := GormConfig(cfg.App.Env)

	switch cfg.DB.Driver {
	case config.DriverPostgres:
		if err := RunMigrations(cfg.DB); err != nil {
			return nil, err
		}
		return NewPostgresConnection(cfg.DB, gormCfg)
	case config.DriverSQLite:
		db, err := NewSQLiteConnection(cfg.DB.SQLitePath, gormCfg)
		if err != nil {
			return nil, err
		}
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DB.Driver)
	}
}
