package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/pasturize/internal/ports/secondary"
)

// PastureRepository implements secondary.PastureRepository with SQLite.
type PastureRepository struct {
	db *sql.DB
}

// NewPastureRepository creates a new SQLite pasture repository.
func NewPastureRepository(db *sql.DB) *PastureRepository {
	return &PastureRepository{db: db}
}

// Create persists a new pasture.
func (r *PastureRepository) Create(ctx context.Context, pasture *secondary.PastureRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO pastures (id, report_id, idx, name, status) VALUES (?, ?, ?, ?, ?)",
		pasture.ID, pasture.ReportID, pasture.Index, pasture.Name, pasture.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create pasture: %w", err)
	}

	return nil
}

// GetByID retrieves a pasture by its ID.
func (r *PastureRepository) GetByID(ctx context.Context, id string) (*secondary.PastureRecord, error) {
	return r.getOne(ctx,
		"SELECT id, report_id, idx, name, status FROM pastures WHERE id = ?",
		id,
	)
}

// GetByIndex retrieves a report's pasture by index.
func (r *PastureRepository) GetByIndex(ctx context.Context, reportID string, index int) (*secondary.PastureRecord, error) {
	return r.getOne(ctx,
		"SELECT id, report_id, idx, name, status FROM pastures WHERE report_id = ? AND idx = ?",
		reportID, index,
	)
}

// ListByReport retrieves a report's pastures ordered by index.
func (r *PastureRepository) ListByReport(ctx context.Context, reportID string) ([]*secondary.PastureRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT id, report_id, idx, name, status FROM pastures WHERE report_id = ? ORDER BY idx ASC",
		reportID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pastures: %w", err)
	}
	defer rows.Close()

	var pastures []*secondary.PastureRecord
	for rows.Next() {
		record := &secondary.PastureRecord{}
		if err := rows.Scan(&record.ID, &record.ReportID, &record.Index, &record.Name, &record.Status); err != nil {
			return nil, fmt.Errorf("failed to scan pasture: %w", err)
		}
		pastures = append(pastures, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list pastures: %w", err)
	}

	return pastures, nil
}

// UpdateStatus sets the pasture status.
func (r *PastureRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE pastures SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("failed to update pasture status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("pasture %s not found", id)
	}

	return nil
}

func (r *PastureRepository) getOne(ctx context.Context, query string, args ...any) (*secondary.PastureRecord, error) {
	record := &secondary.PastureRecord{}
	err := conn(ctx, r.db).QueryRowContext(ctx, query, args...).
		Scan(&record.ID, &record.ReportID, &record.Index, &record.Name, &record.Status)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pasture: %w", err)
	}

	return record, nil
}

// Ensure PastureRepository implements the interface.
var _ secondary.PastureRepository = (*PastureRepository)(nil)
