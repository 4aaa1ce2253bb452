// Package db stores phase-space samples in SQLite so transform inputs and
// results can be kept and reloaded.
package db

import (
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/rotframe/internal/monitoring"
	"github.com/banshee-data/rotframe/internal/timeutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the SQLite handle holding the orbit tables.
type DB struct {
	*sql.DB
	clock timeutil.Clock
}

// NewDB opens (or creates) the database at path and brings its schema up to
// date. Foreign keys are enforced on every connection.
func NewDB(path string) (*DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{DB: sqlDB, clock: timeutil.RealClock{}}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	version, _, err := db.MigrateVersion()
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	monitoring.Logf("orbit store %s at schema version %d", path, version)
	return db, nil
}

// SetClock replaces the clock used to stamp stored orbits.
func (db *DB) SetClock(c timeutil.Clock) {
	db.clock = c
}
