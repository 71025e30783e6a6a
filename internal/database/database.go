package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BseoY/120EastState3/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB     *gorm.DB
	Driver string
}

func Init(driver, dsn string) (*Database, error) {
	var db *gorm.DB
	var err error

	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	switch driver {
	case "postgres":
		db, err = initPostgres(dsn, config)
	case "sqlite":
		db, err = initSQLite(dsn, config)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.Media{},
		&models.Announcement{},
	); err != nil {
		return nil, fmt.Errorf("migrate %s schema: %w", driver, err)
	}

	return &Database{DB: db, Driver: driver}, nil
}

// InitWithFallback opens the primary connection and, if that fails,
// falls back to the secondary one. Both failing is fatal.
func InitWithFallback(primaryDriver, primaryDSN, fallbackDriver, fallbackDSN string) *Database {
	if primaryDriver != "" {
		db, err := Init(primaryDriver, primaryDSN)
		if err == nil {
			return db
		}
		log.Printf("primary database unavailable (%s): %v", primaryDriver, err)
	}

	if fallbackDriver == "" {
		log.Fatal("no fallback database configured")
	}

	db, err := Init(fallbackDriver, fallbackDSN)
	if err != nil {
		log.Fatalf("fallback database unavailable (%s): %v", fallbackDriver, err)
	}
	log.Printf("running on fallback database (%s)", fallbackDriver)
	return db
}

func initPostgres(dsn string, config *gorm.Config) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN not configured")
	}

	db, err := gorm.Open(postgres.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

func initSQLite(dsn string, config *gorm.Config) (*gorm.DB, error) {
	if dsn != ":memory:" {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	return db, nil
}

func (d *Database) GetInfo() map[string]any {
	info := map[string]any{"driver": d.Driver}
	if sqlDB, err := d.DB.DB(); err == nil {
		stats := sqlDB.Stats()
		info["open_connections"] = stats.OpenConnections
	}
	return info
}

func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
