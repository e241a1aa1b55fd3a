package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/pasturize/internal/ports/secondary"
)

// ReportRepository implements secondary.ReportRepository with SQLite.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new SQLite report repository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create persists a new report.
func (r *ReportRepository) Create(ctx context.Context, report *secondary.ReportRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO reports (id, name, created_at, status) VALUES (?, ?, ?, ?)",
		report.ID, report.Name, formatTime(report.CreatedAt), report.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// GetByID retrieves a report by its ID.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*secondary.ReportRecord, error) {
	var createdAt string

	record := &secondary.ReportRecord{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT id, name, created_at, status FROM reports WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Name, &createdAt, &record.Status)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	return record, nil
}

// List retrieves all reports, most recent first.
func (r *ReportRepository) List(ctx context.Context) ([]*secondary.ReportRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT id, name, created_at, status FROM reports ORDER BY created_at DESC, rowid DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*secondary.ReportRecord
	for rows.Next() {
		var createdAt string

		record := &secondary.ReportRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &createdAt, &record.Status); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		if record.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}

		reports = append(reports, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return reports, nil
}

// UpdateStatus sets the report status.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE reports SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("report %s not found", id)
	}

	return nil
}

// Delete removes a report. Pastures and entries go with it via ON DELETE CASCADE.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("report %s not found", id)
	}

	return nil
}

// DeleteAll removes every report, pasture and entry.
func (r *ReportRepository) DeleteAll(ctx context.Context) error {
	q := conn(ctx, r.db)
	for _, table := range []string{"entries", "pastures", "reports"} {
		if _, err := q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	return nil
}

// Ensure ReportRepository implements the interface.
var _ secondary.ReportRepository = (*ReportRepository)(nil)
