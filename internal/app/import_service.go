package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/pasturize/internal/core/csvimport"
	corepasture "github.com/example/pasturize/internal/core/pasture"
	"github.com/example/pasturize/internal/ports/primary"
	"github.com/example/pasturize/internal/ports/secondary"
)

// ImportServiceImpl implements the ImportService interface.
type ImportServiceImpl struct {
	reportRepo  secondary.ReportRepository
	pastureRepo secondary.PastureRepository
	entryRepo   secondary.EntryRepository
	transactor  secondary.Transactor
	logWriter   secondary.LogWriter
	grassTypes  []string

	now   func() time.Time
	newID func() string
}

// NewImportService creates a new ImportService with injected dependencies.
func NewImportService(
	reportRepo secondary.ReportRepository,
	pastureRepo secondary.PastureRepository,
	entryRepo secondary.EntryRepository,
	transactor secondary.Transactor,
	logWriter secondary.LogWriter,
	grassTypes []string,
) *ImportServiceImpl {
	return &ImportServiceImpl{
		reportRepo:  reportRepo,
		pastureRepo: pastureRepo,
		entryRepo:   entryRepo,
		transactor:  transactor,
		logWriter:   logWriter,
		grassTypes:  grassTypes,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

// ImportPastureCSV parses the sheet fully, then replaces the pasture's
// entries in one transaction. A parse error leaves stored data untouched.
func (s *ImportServiceImpl) ImportPastureCSV(ctx context.Context, req primary.ImportRequest) (*primary.ImportResult, error) {
	report, err := s.reportRepo.GetByID(ctx, req.ReportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report == nil {
		return nil, fmt.Errorf("%w: %s", primary.ErrReportNotFound, req.ReportID)
	}

	pasture, err := s.pastureRepo.GetByIndex(ctx, req.ReportID, req.PastureIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get pasture: %w", err)
	}
	if pasture == nil {
		return nil, fmt.Errorf("%w: index %d in report %s", primary.ErrPastureNotFound, req.PastureIndex, req.ReportID)
	}
	if pasture.Status == corepasture.StatusComplete {
		return nil, fmt.Errorf("%w: pasture %s is complete. Reopen it first with: pasturize pasture reopen %s",
			primary.ErrNotAllowed, pasture.ID, pasture.ID)
	}

	parsed, err := csvimport.Parse(req.CSV, csvimport.Options{
		ForbCount:  req.ForbCount,
		GrassTypes: s.grassTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", primary.ErrInvalidInput, err)
	}

	now := s.now()
	records := make([]*secondary.EntryRecord, len(parsed.Rows))
	for i, row := range parsed.Rows {
		record := categoryToRecord(row.Category)
		record.ID = s.newID()
		record.ReportID = req.ReportID
		record.PastureID = pasture.ID
		record.LineNo = row.LineNo
		record.UpdatedAt = now
		records[i] = record
	}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.entryRepo.DeleteByPasture(ctx, req.ReportID, pasture.ID); err != nil {
			return err
		}
		return s.entryRepo.InsertMany(ctx, records)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import entries: %w", err)
	}

	_ = s.logWriter.LogUpdate(ctx, secondary.EntityPasture, pasture.ID, "entries", "", fmt.Sprintf("imported %d", len(records)))

	return &primary.ImportResult{
		PastureID:  pasture.ID,
		Imported:   len(records),
		Skipped:    parsed.Skipped,
		ForbKept:   parsed.ForbKept,
		ForbToWeed: parsed.ForbToWeed,
	}, nil
}

// Ensure ImportServiceImpl implements the interface
var _ primary.ImportService = (*ImportServiceImpl)(nil)
