// Package database opens the gorm connection used by the repositories.
package database

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fadilmartias/grant-portal/internal/config"
	"github.com/fadilmartias/grant-portal/internal/repository"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the document database described by dbConfig and migrates
// the tables used by the remote backend.
func Connect(dbConfig *config.DBConfig, appConfig *config.AppConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error
	switch dbConfig.Driver {
	case config.DriverPostgres, "":
		db, err = gorm.Open(postgres.Open(dbConfig.PostgresDSN()), gormConfig(appConfig))
		if err != nil {
			return nil, fmt.Errorf("could not connect to database: %w", err)
		}
		pgDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("could not get database instance: %w", err)
		}
		if appConfig.IsProduction() {
			pgDB.SetMaxIdleConns(20)
			pgDB.SetMaxOpenConns(200)
			pgDB.SetConnMaxLifetime(time.Hour)
		} else {
			pgDB.SetMaxIdleConns(5)
			pgDB.SetMaxOpenConns(10)
			pgDB.SetConnMaxLifetime(30 * time.Minute)
		}
	case config.DriverSQLite:
		db, err = OpenSQLite(dbConfig.SQLitePath)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (supported: postgres, sqlite)", dbConfig.Driver)
	}

	if err := MigrateRemote(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens a sqlite database at path, creating its directory when
// needed. An empty path opens a private in-memory database.
func OpenSQLite(path string) (*gorm.DB, error) {
	var dsn string
	if path == "" {
		dsn = fmt.Sprintf("file:mem-%s?mode=memory&cache=shared", uuid.NewString())
	} else {
		dir := filepath.Dir(path)
		if _, err := os.Stat(dir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(dir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open sqlite database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get database instance: %w", err)
	}
	// sqlite allows a single writer; serialise access instead of hitting
	// "database is locked" under concurrent requests.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// MigrateRemote creates the document and identity tables.
func MigrateRemote(db *gorm.DB) error {
	if err := db.AutoMigrate(&repository.DocumentRecord{}, &repository.Identity{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// MigrateLocal creates the local item table.
func MigrateLocal(db *gorm.DB) error {
	if err := db.AutoMigrate(&repository.LocalItem{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func gormConfig(appConfig *config.AppConfig) *gorm.Config {
	level := gormlogger.Warn
	if !appConfig.IsProduction() {
		level = gormlogger.Info
	}
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	}
}
