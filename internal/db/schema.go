package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// SchemaSQL is the complete schema for a fresh survey database.
// It reflects the state after all migrations.
//
// This is the single source of truth for the schema. Repository tests load
// it through GetSchemaSQL() instead of declaring their own tables, so a
// column used by an adapter but missing here fails the tests immediately.
//
// When changing it:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `make test`
//
// Timestamps are stored as fixed-width UTC text (see adapters/sqlite) so
// they sort lexically.
const SchemaSQL = `
-- Reports (one survey session)
CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('in_progress', 'complete')) DEFAULT 'in_progress'
);

CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
CREATE INDEX IF NOT EXISTS idx_reports_name ON reports(name);
CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);

-- Pastures (one transect per pasture, seeded from the template)
CREATE TABLE IF NOT EXISTS pastures (
	id TEXT PRIMARY KEY,
	report_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	name TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('in_progress', 'complete')) DEFAULT 'in_progress',
	FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE,
	UNIQUE(report_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_pastures_report ON pastures(report_id);
CREATE INDEX IF NOT EXISTS idx_pastures_idx ON pastures(idx);
CREATE INDEX IF NOT EXISTS idx_pastures_status ON pastures(status);

-- Entries (one ground-cover observation per foot mark)
CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	report_id TEXT NOT NULL,
	pasture_id TEXT NOT NULL,
	line_no INTEGER NOT NULL CHECK(line_no BETWEEN 1 AND 100),
	category TEXT NOT NULL CHECK(category IN ('bare', 'grass', 'litter', 'forb_bush', 'weed', 'uncategorized')),
	grass_height REAL,
	grass_type TEXT,
	updated_at TEXT NOT NULL,
	FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE,
	FOREIGN KEY (pasture_id) REFERENCES pastures(id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_line ON entries(report_id, pasture_id, line_no);
CREATE INDEX IF NOT EXISTS idx_entries_report ON entries(report_id);
CREATE INDEX IF NOT EXISTS idx_entries_pasture ON entries(pasture_id);
CREATE INDEX IF NOT EXISTS idx_entries_line_no ON entries(line_no);
CREATE INDEX IF NOT EXISTS idx_entries_updated_at ON entries(updated_at);
`

const schemaVersionSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// InitSchema creates the schema on a fresh database, or runs pending
// migrations on an existing one.
func InitSchema(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	versioned, err := tableExists(ctx, db, "schema_version")
	if err != nil {
		return err
	}
	if versioned {
		return RunMigrations(ctx, db, logger)
	}

	legacy, err := tableExists(ctx, db, "entries")
	if err != nil {
		return err
	}
	if legacy {
		// stores written before versioning carry the v1 flag columns
		if _, err := db.ExecContext(ctx, schemaVersionSQL); err != nil {
			return fmt.Errorf("failed to create schema_version table: %w", err)
		}
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (1)"); err != nil {
			return fmt.Errorf("failed to record legacy schema version: %w", err)
		}
		return RunMigrations(ctx, db, logger)
	}

	return createFresh(ctx, db)
}

// createFresh creates the modern schema and marks every migration applied,
// all in one transaction.
func createFresh(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	for _, m := range migrations {
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return v, nil
}

// LatestVersion is the version a fully migrated database reports.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?", name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to inspect schema: %w", err)
	}
	return n > 0, nil
}
