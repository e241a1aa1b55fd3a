package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/pasturize/internal/ports/secondary"
)

const entryColumns = "id, report_id, pasture_id, line_no, category, grass_height, grass_type, updated_at"

// EntryRepository implements secondary.EntryRepository with SQLite.
type EntryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates a new SQLite entry repository.
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Upsert writes an entry keyed by (report, pasture, line). The unique index
// on that triple turns a second write into an update that keeps the first ID.
func (r *EntryRepository) Upsert(ctx context.Context, entry *secondary.EntryRecord) (string, error) {
	q := conn(ctx, r.db)
	height, grassType := nullableGrass(entry)

	_, err := q.ExecContext(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(report_id, pasture_id, line_no) DO UPDATE SET
			category = excluded.category,
			grass_height = excluded.grass_height,
			grass_type = excluded.grass_type,
			updated_at = excluded.updated_at`,
		entry.ID, entry.ReportID, entry.PastureID, entry.LineNo, entry.Category,
		height, grassType, formatTime(entry.UpdatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save entry: %w", err)
	}

	var id string
	err = q.QueryRowContext(ctx,
		"SELECT id FROM entries WHERE report_id = ? AND pasture_id = ? AND line_no = ?",
		entry.ReportID, entry.PastureID, entry.LineNo,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to read saved entry id: %w", err)
	}

	return id, nil
}

// GetByLine retrieves the entry at a foot mark.
func (r *EntryRepository) GetByLine(ctx context.Context, reportID, pastureID string, lineNo int) (*secondary.EntryRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE report_id = ? AND pasture_id = ? AND line_no = ?",
		reportID, pastureID, lineNo,
	)

	record, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return record, nil
}

// ListByPasture retrieves a pasture's entries ordered by line.
func (r *EntryRepository) ListByPasture(ctx context.Context, reportID, pastureID string) ([]*secondary.EntryRecord, error) {
	return r.list(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE report_id = ? AND pasture_id = ? ORDER BY line_no ASC",
		reportID, pastureID,
	)
}

// ListByReport retrieves every entry of a report, grouped by pasture.
func (r *EntryRepository) ListByReport(ctx context.Context, reportID string) ([]*secondary.EntryRecord, error) {
	return r.list(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE report_id = ? ORDER BY pasture_id ASC, line_no ASC",
		reportID,
	)
}

// CountLines counts distinct foot marks, so a stray duplicate row can never
// push a pasture past its real progress.
func (r *EntryRepository) CountLines(ctx context.Context, reportID, pastureID string) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT line_no) FROM entries WHERE report_id = ? AND pasture_id = ?",
		reportID, pastureID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	return n, nil
}

// DeleteByPasture removes all entries of a pasture.
func (r *EntryRepository) DeleteByPasture(ctx context.Context, reportID, pastureID string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"DELETE FROM entries WHERE report_id = ? AND pasture_id = ?",
		reportID, pastureID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear pasture entries: %w", err)
	}

	return nil
}

// InsertMany inserts fresh entries. The caller clears the pasture first.
func (r *EntryRepository) InsertMany(ctx context.Context, entries []*secondary.EntryRecord) error {
	if len(entries) == 0 {
		return nil
	}

	q := conn(ctx, r.db)
	for _, e := range entries {
		height, grassType := nullableGrass(e)
		_, err := q.ExecContext(ctx,
			"INSERT INTO entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			e.ID, e.ReportID, e.PastureID, e.LineNo, e.Category, height, grassType, formatTime(e.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert entry for line %d: %w", e.LineNo, err)
		}
	}

	return nil
}

func (r *EntryRepository) list(ctx context.Context, query string, args ...any) ([]*secondary.EntryRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.EntryRecord
	for rows.Next() {
		record, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*secondary.EntryRecord, error) {
	var (
		height    sql.NullFloat64
		grassType sql.NullString
		updatedAt string
	)

	record := &secondary.EntryRecord{}
	err := s.Scan(&record.ID, &record.ReportID, &record.PastureID, &record.LineNo,
		&record.Category, &height, &grassType, &updatedAt)
	if err != nil {
		return nil, err
	}

	if height.Valid {
		h := height.Float64
		record.GrassHeight = &h
	}
	record.GrassType = grassType.String
	if record.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return record, nil
}

func nullableGrass(e *secondary.EntryRecord) (sql.NullFloat64, sql.NullString) {
	var (
		height    sql.NullFloat64
		grassType sql.NullString
	)
	if e.GrassHeight != nil {
		height = sql.NullFloat64{Float64: *e.GrassHeight, Valid: true}
	}
	if e.GrassType != "" {
		grassType = sql.NullString{String: e.GrassType, Valid: true}
	}
	return height, grassType
}

// Ensure EntryRepository implements the interface.
var _ secondary.EntryRepository = (*EntryRepository)(nil)
