// FilePath: internal/database/database.schema.go
package database

import (
	"context"
	"fmt"

	"github.com/itsatony/healthhub/internal/config"
	"github.com/jmoiron/sqlx"
	nuts "github.com/vaudience/go-nuts"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS sleep_data (
		id BIGSERIAL PRIMARY KEY,
		date DATE NOT NULL UNIQUE,
		bedtime TIMESTAMPTZ,
		wake_time TIMESTAMPTZ,
		sleep_duration_minutes INTEGER,
		deep_sleep_minutes INTEGER,
		light_sleep_minutes INTEGER,
		rem_sleep_minutes INTEGER,
		sleep_efficiency NUMERIC(5,2),
		heart_rate_avg INTEGER,
		heart_rate_min INTEGER,
		heart_rate_max INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS exercise_data (
		id BIGSERIAL PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL UNIQUE,
		activity_type VARCHAR(100),
		duration_minutes INTEGER,
		calories_burned DOUBLE PRECISION,
		distance_km DOUBLE PRECISION,
		steps INTEGER,
		heart_rate_avg INTEGER,
		heart_rate_max INTEGER,
		active_energy_kcal DOUBLE PRECISION,
		resting_energy_kcal DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS blood_glucose (
		id BIGSERIAL PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL UNIQUE,
		value DOUBLE PRECISION NOT NULL CHECK (value > 0),
		unit VARCHAR(20) NOT NULL DEFAULT 'mg/dL',
		source VARCHAR(100),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// SQLite column types must be spelled DATE / DATETIME for the driver to
// return time.Time values.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sleep_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date DATE NOT NULL UNIQUE,
		bedtime DATETIME,
		wake_time DATETIME,
		sleep_duration_minutes INTEGER,
		deep_sleep_minutes INTEGER,
		light_sleep_minutes INTEGER,
		rem_sleep_minutes INTEGER,
		sleep_efficiency REAL,
		heart_rate_avg INTEGER,
		heart_rate_min INTEGER,
		heart_rate_max INTEGER,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS exercise_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL UNIQUE,
		activity_type TEXT,
		duration_minutes INTEGER,
		calories_burned REAL,
		distance_km REAL,
		steps INTEGER,
		heart_rate_avg INTEGER,
		heart_rate_max INTEGER,
		active_energy_kcal REAL,
		resting_energy_kcal REAL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS blood_glucose (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL UNIQUE,
		value REAL NOT NULL CHECK (value > 0),
		unit TEXT NOT NULL DEFAULT 'mg/dL',
		source TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
}

// InitSchema creates the three metric tables if they do not exist.
func InitSchema(ctx context.Context, db *sqlx.DB, dialect string) error {
	var stmts []string
	switch dialect {
	case config.DriverPostgres:
		stmts = postgresSchema
	case config.DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("unsupported database driver %q", dialect)
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error initializing schema: %w", err)
		}
	}
	nuts.L.Infof("[Database] Schema ready (%s)", dialect)
	return nil
}

// ServerVersion reports the version string of the connected server.
func ServerVersion(ctx context.Context, db *sqlx.DB, dialect string) (string, error) {
	query := "SELECT version()"
	if dialect == config.DriverSQLite {
		query = "SELECT sqlite_version()"
	}
	var version string
	if err := db.GetContext(ctx, &version, query); err != nil {
		return "", fmt.Errorf("error reading server version: %w", err)
	}
	return version, nil
}

// ListTables returns the user tables visible on the connection.
func ListTables(ctx context.Context, db *sqlx.DB, dialect string) ([]string, error) {
	query := `SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema() ORDER BY table_name`
	if dialect == config.DriverSQLite {
		query = `SELECT name FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	}
	var tables []string
	if err := db.SelectContext(ctx, &tables, query); err != nil {
		return nil, fmt.Errorf("error listing tables: %w", err)
	}
	return tables, nil
}
