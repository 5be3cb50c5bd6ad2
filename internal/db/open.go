// Package db opens the relational store and migrates the schema.
package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/config"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/dsn"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/models"
)

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg config.DB) (gorm.Dialector, error) {
	source := dsn.FromDB(cfg)

	switch strings.ToLower(cfg.GormEngine) {
	case "", dsn.EngineMySQL:
		return mysql.Open(source), nil
	case dsn.EnginePostgres:
		return postgres.Open(source), nil
	case dsn.EngineSQLite:
		return sqlite.Open(source), nil
	default:
		return nil, fmt.Errorf("unsupported gorm engine %q", cfg.GormEngine)
	}
}

// Open connects to the configured database and migrates all models.
func Open(cfg config.DB) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the tables of all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
