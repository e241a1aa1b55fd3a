// Package secondary defines the driven ports: the persistence and logging
// interfaces the application services depend on.
package secondary

import (
	"context"
	"time"
)

// Transactor runs fn inside a single storage transaction. Repository calls
// made with the ctx passed to fn join that transaction. Any error returned
// by fn, or a panic, rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReportRepository defines the secondary port for report persistence.
type ReportRepository interface {
	// Create persists a new report.
	Create(ctx context.Context, report *ReportRecord) error

	// GetByID retrieves a report by ID. Returns nil, nil when absent.
	GetByID(ctx context.Context, id string) (*ReportRecord, error)

	// List retrieves all reports, most recent first.
	List(ctx context.Context) ([]*ReportRecord, error)

	// UpdateStatus sets the report status.
	UpdateStatus(ctx context.Context, id, status string) error

	// Delete removes a report together with its pastures and entries.
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every report, pasture and entry.
	DeleteAll(ctx context.Context) error
}

// ReportRecord represents a report as stored in persistence.
type ReportRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Status    string
}

// PastureRepository defines the secondary port for pasture persistence.
type PastureRepository interface {
	// Create persists a new pasture.
	Create(ctx context.Context, pasture *PastureRecord) error

	// GetByID retrieves a pasture by ID. Returns nil, nil when absent.
	GetByID(ctx context.Context, id string) (*PastureRecord, error)

	// GetByIndex retrieves a report's pasture by its index. Returns nil, nil when absent.
	GetByIndex(ctx context.Context, reportID string, index int) (*PastureRecord, error)

	// ListByReport retrieves a report's pastures ordered by index.
	ListByReport(ctx context.Context, reportID string) ([]*PastureRecord, error)

	// UpdateStatus sets the pasture status.
	UpdateStatus(ctx context.Context, id, status string) error
}

// PastureRecord represents a pasture as stored in persistence.
type PastureRecord struct {
	ID       string
	ReportID string
	Index    int
	Name     string
	Status   string
}

// EntryRepository defines the secondary port for foot-mark entries.
type EntryRepository interface {
	// Upsert writes the entry keyed by (report, pasture, line). An existing
	// row keeps its ID. Returns the ID of the stored row.
	Upsert(ctx context.Context, entry *EntryRecord) (string, error)

	// GetByLine retrieves the entry at a foot mark. Returns nil, nil when absent.
	GetByLine(ctx context.Context, reportID, pastureID string, lineNo int) (*EntryRecord, error)

	// ListByPasture retrieves a pasture's entries ordered by line.
	ListByPasture(ctx context.Context, reportID, pastureID string) ([]*EntryRecord, error)

	// ListByReport retrieves every entry of a report.
	ListByReport(ctx context.Context, reportID string) ([]*EntryRecord, error)

	// CountLines counts the distinct foot marks recorded for a pasture.
	CountLines(ctx context.Context, reportID, pastureID string) (int, error)

	// DeleteByPasture removes all entries of a pasture.
	DeleteByPasture(ctx context.Context, reportID, pastureID string) error

	// InsertMany inserts fresh entries. Callers clear the pasture first.
	InsertMany(ctx context.Context, entries []*EntryRecord) error
}

// EntryRecord represents a foot-mark entry as stored in persistence.
type EntryRecord struct {
	ID          string
	ReportID    string
	PastureID   string
	LineNo      int
	Category    string
	GrassHeight *float64
	GrassType   string
	UpdatedAt   time.Time
}
