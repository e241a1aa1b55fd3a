package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/pasturize/internal/core/cover"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(ctx context.Context, tx *sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_survey_tables_with_cover_flags",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "replace_cover_flags_with_category",
		Up:      migrationV2,
	},
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if _, err := db.ExecContext(ctx, schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	currentVersion, err := CurrentVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		logger.Info("running migration",
			zap.Int("version", migration.Version),
			zap.String("name", migration.Name))

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(ctx, tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		logger.Info("migration completed", zap.Int("version", migration.Version))
	}

	return nil
}

// migrationV1 creates the first store layout, where each entry carried one
// boolean column per cover category.
func migrationV1(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'in_progress'
		);

		CREATE TABLE IF NOT EXISTS pastures (
			id TEXT PRIMARY KEY,
			report_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'in_progress',
			FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			report_id TEXT NOT NULL,
			pasture_id TEXT NOT NULL,
			line_no INTEGER NOT NULL,
			bare_ground INTEGER NOT NULL DEFAULT 0,
			grass_height REAL,
			grass_type TEXT,
			litter INTEGER,
			forb_bush INTEGER,
			weed INTEGER,
			grass INTEGER,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_v1_entries_triple ON entries(report_id, pasture_id, line_no);
	`)
	if err != nil {
		return fmt.Errorf("failed to create v1 tables: %w", err)
	}
	return nil
}

// migrationV2 replaces the per-category flag columns with a single category
// column. Flags are resolved with cover.Classify. Duplicate rows for one foot
// mark collapse to the most recently updated one. Out of range lines and
// rows whose pasture is gone are dropped.
func migrationV2(ctx context.Context, tx *sql.Tx) error {
	type legacyRow struct {
		id, reportID, pastureID string
		lineNo                  int
		flags                   cover.LegacyFlags
		updatedAt               string
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, report_id, pasture_id, line_no, bare_ground, grass_height, grass_type,
			litter, forb_bush, weed, grass, updated_at
		FROM entries
		WHERE pasture_id IN (SELECT id FROM pastures)
		ORDER BY updated_at ASC, rowid ASC`)
	if err != nil {
		return fmt.Errorf("failed to read v1 entries: %w", err)
	}

	var legacy []legacyRow
	for rows.Next() {
		var (
			r                             legacyRow
			bare                          bool
			height                        sql.NullFloat64
			grassType                     sql.NullString
			litter, forbBush, weed, grass sql.NullBool
		)
		if err := rows.Scan(&r.id, &r.reportID, &r.pastureID, &r.lineNo, &bare, &height, &grassType,
			&litter, &forbBush, &weed, &grass, &r.updatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan v1 entry: %w", err)
		}
		r.flags = cover.LegacyFlags{
			BareGround: bare,
			GrassType:  grassType.String,
			Litter:     litter.Bool,
			ForbBush:   forbBush.Bool,
			Weed:       weed.Bool,
			Grass:      grass.Bool,
		}
		if height.Valid {
			h := height.Float64
			r.flags.GrassHeight = &h
		}
		legacy = append(legacy, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to read v1 entries: %w", err)
	}
	rows.Close()

	_, err = tx.ExecContext(ctx, `
		DROP TABLE entries;

		CREATE TABLE entries (
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

		CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
		CREATE INDEX IF NOT EXISTS idx_reports_name ON reports(name);
		CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
		CREATE INDEX IF NOT EXISTS idx_pastures_report ON pastures(report_id);
		CREATE INDEX IF NOT EXISTS idx_pastures_idx ON pastures(idx);
		CREATE INDEX IF NOT EXISTS idx_pastures_status ON pastures(status);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_pastures_report_idx ON pastures(report_id, idx);
	`)
	if err != nil {
		return fmt.Errorf("failed to rebuild entries table: %w", err)
	}

	for _, r := range legacy {
		if r.lineNo < 1 || r.lineNo > 100 {
			continue
		}
		cat := cover.Classify(r.flags)

		var height sql.NullFloat64
		if cat.GrassHeight != nil {
			height = sql.NullFloat64{Float64: *cat.GrassHeight, Valid: true}
		}
		var grassType sql.NullString
		if cat.GrassType != "" {
			grassType = sql.NullString{String: cat.GrassType, Valid: true}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO entries (id, report_id, pasture_id, line_no, category, grass_height, grass_type, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(report_id, pasture_id, line_no) DO UPDATE SET
				category = excluded.category,
				grass_height = excluded.grass_height,
				grass_type = excluded.grass_type,
				updated_at = excluded.updated_at`,
			r.id, r.reportID, r.pastureID, r.lineNo, string(cat.Kind), height, grassType, r.updatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to convert entry %s: %w", r.id, err)
		}
	}

	return nil
}
