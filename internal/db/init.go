// Package db opens the daemon database and applies schema migrations.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver" // SQLite driver
	_ "github.com/ncruces/go-sqlite3/embed"  // Embed SQLite

	"github.com/tabzoom/zoomd/internal/migrations"
)

// Open initializes the database connection and schema.
func Open(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	database, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.Ping(); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrations.RunEmbeddedMigrations(database); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return database, nil
}
