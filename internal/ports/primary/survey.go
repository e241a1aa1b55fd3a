// Package primary defines the driving ports: the service interfaces the CLI
// and HTTP adapters call, and the types that cross that boundary.
package primary

import (
	"context"
	"errors"
	"time"

	"github.com/example/pasturize/internal/core/cover"
)

// Errors callers can match with errors.Is.
var (
	ErrReportNotFound  = errors.New("report not found")
	ErrPastureNotFound = errors.New("pasture not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotAllowed      = errors.New("not allowed")
)

// SurveyService defines the primary port for survey data.
type SurveyService interface {
	// CreateReport creates a report and its pastures from the template in one
	// transaction. A blank name becomes "Survey <date>".
	CreateReport(ctx context.Context, name string) (*Report, error)

	// ListReports lists all reports, most recent first.
	ListReports(ctx context.Context) ([]*Report, error)

	// GetReport returns nil when the report does not exist.
	GetReport(ctx context.Context, reportID string) (*Report, error)

	// LatestReport returns the most recently created report, or nil.
	LatestReport(ctx context.Context) (*Report, error)

	// SetReportStatus sets the report status.
	SetReportStatus(ctx context.Context, reportID, status string) error

	// DeleteReport deletes a report with its pastures and entries.
	DeleteReport(ctx context.Context, reportID string) error

	// WipeAll deletes every report.
	WipeAll(ctx context.Context) error

	// GetPastures lists a report's pastures by index.
	GetPastures(ctx context.Context, reportID string) ([]*Pasture, error)

	// GetPasture returns nil when the pasture does not exist.
	GetPasture(ctx context.Context, pastureID string) (*Pasture, error)

	// GetPastureByIndex returns nil when no pasture has that index.
	GetPastureByIndex(ctx context.Context, reportID string, index int) (*Pasture, error)

	// SetPastureStatus updates the status field only.
	SetPastureStatus(ctx context.Context, pastureID, status string) error

	// CompletePasture marks a pasture complete. Fewer than 100 recorded
	// lines requires force.
	CompletePasture(ctx context.Context, pastureID string, force bool) error

	// ReopenPasture moves a complete pasture back to in_progress.
	ReopenPasture(ctx context.Context, pastureID string) error

	// CountEntriesForPasture counts distinct recorded foot marks.
	CountEntriesForPasture(ctx context.Context, reportID, pastureID string) (int, error)

	// SaveEntry upserts the entry at a foot mark and returns its ID.
	SaveEntry(ctx context.Context, req SaveEntryRequest) (string, error)

	// GetEntryByLine returns nil when nothing is recorded at that foot mark.
	GetEntryByLine(ctx context.Context, reportID, pastureID string, lineNo int) (*Entry, error)

	// ListEntriesForPasture lists a pasture's entries by foot mark.
	ListEntriesForPasture(ctx context.Context, reportID, pastureID string) ([]*Entry, error)

	// ReportProgress summarizes recorded lines per pasture.
	ReportProgress(ctx context.Context, reportID string) (*ReportProgress, error)

	// PastureStats computes cover statistics for one pasture.
	PastureStats(ctx context.Context, reportID, pastureID string) (cover.Stats, error)

	// ReportStats computes cover statistics over every pasture of a report.
	ReportStats(ctx context.Context, reportID string) (cover.Stats, error)
}

// ImportService defines the primary port for CSV import.
type ImportService interface {
	// ImportPastureCSV replaces a pasture's entries with the parsed sheet.
	ImportPastureCSV(ctx context.Context, req ImportRequest) (*ImportResult, error)
}

// ExportService defines the primary port for exports.
type ExportService interface {
	// ExportArchive builds a zip with one CSV per pasture.
	ExportArchive(ctx context.Context, reportID string) (*ExportFile, error)

	// ExportCombinedCSV builds one CSV covering every pasture.
	ExportCombinedCSV(ctx context.Context, reportID string) (*ExportFile, error)

	// ExportPastureCSV builds the CSV for a single pasture.
	ExportPastureCSV(ctx context.Context, reportID string, pastureIndex int) (*ExportFile, error)

	// ExportWorkbook builds an XLSX workbook, one sheet per pasture plus a summary.
	ExportWorkbook(ctx context.Context, reportID string) (*ExportFile, error)

	// ExportSummaryPDF builds a one-document progress and statistics summary.
	ExportSummaryPDF(ctx context.Context, reportID string) (*ExportFile, error)
}

// PopulateService fills pastures with generated data for demos and testing.
type PopulateService interface {
	// PopulatePasture replaces a pasture's entries with 100 generated lines
	// and marks it complete.
	PopulatePasture(ctx context.Context, reportID, pastureID string) error

	// PopulateReport populates every pasture of a report.
	PopulateReport(ctx context.Context, reportID string) error
}

// Report represents a survey report at the port boundary.
type Report struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Status    string
}

// Pasture represents a pasture at the port boundary.
type Pasture struct {
	ID       string
	ReportID string
	Index    int
	Name     string
	Status   string
}

// Entry represents one recorded foot mark at the port boundary.
type Entry struct {
	ID        string
	ReportID  string
	PastureID string
	LineNo    int
	Category  cover.Category
	UpdatedAt time.Time
}

// SaveEntryRequest contains parameters for recording a foot mark.
type SaveEntryRequest struct {
	ReportID  string
	PastureID string
	LineNo    int
	Category  cover.Category
}

// PastureProgress is one pasture with its recorded line count.
type PastureProgress struct {
	Pasture  *Pasture
	Recorded int
}

// ReportProgress summarizes a report's pastures.
type ReportProgress struct {
	Report   *Report
	Pastures []*PastureProgress
	Complete int // pastures with status complete
	Full     int // pastures with all 100 lines recorded
}

// ImportRequest contains parameters for a pasture CSV import.
type ImportRequest struct {
	ReportID     string
	PastureIndex int
	CSV          string
	// ForbCount is the forb/bush count from the paper sheet. Negative keeps
	// every forb row as forb/bush.
	ForbCount int
}

// ImportResult contains the outcome of a pasture CSV import.
type ImportResult struct {
	PastureID  string
	Imported   int
	Skipped    int
	ForbKept   int
	ForbToWeed int
}

// ExportFile is a generated download.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}
