package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/pasturize/internal/core/cover"
	corepasture "github.com/example/pasturize/internal/core/pasture"
	"github.com/example/pasturize/internal/ports/primary"
	"github.com/example/pasturize/internal/ports/secondary"
)

// PastureTemplate is one pasture created with every new report.
type PastureTemplate struct {
	Index int
	Name  string
}

// SurveyServiceImpl implements the SurveyService interface.
type SurveyServiceImpl struct {
	reportRepo  secondary.ReportRepository
	pastureRepo secondary.PastureRepository
	entryRepo   secondary.EntryRepository
	transactor  secondary.Transactor
	logWriter   secondary.LogWriter
	templates   []PastureTemplate
	grassTypes  map[string]bool

	now   func() time.Time
	newID func() string
}

// NewSurveyService creates a new SurveyService with injected dependencies.
func NewSurveyService(
	reportRepo secondary.ReportRepository,
	pastureRepo secondary.PastureRepository,
	entryRepo secondary.EntryRepository,
	transactor secondary.Transactor,
	logWriter secondary.LogWriter,
	templates []PastureTemplate,
	grassTypes []string,
) *SurveyServiceImpl {
	known := make(map[string]bool, len(grassTypes))
	for _, code := range grassTypes {
		known[code] = true
	}
	return &SurveyServiceImpl{
		reportRepo:  reportRepo,
		pastureRepo: pastureRepo,
		entryRepo:   entryRepo,
		transactor:  transactor,
		logWriter:   logWriter,
		templates:   templates,
		grassTypes:  known,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

// CreateReport creates a report and one pasture per template.
func (s *SurveyServiceImpl) CreateReport(ctx context.Context, name string) (*primary.Report, error) {
	now := s.now()
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Survey " + now.Format("2006-01-02")
	}

	record := &secondary.ReportRecord{
		ID:        s.newID(),
		Name:      name,
		CreatedAt: now,
		Status:    corepasture.StatusInProgress,
	}

	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.reportRepo.Create(ctx, record); err != nil {
			return err
		}
		for _, tmpl := range s.templates {
			p := &secondary.PastureRecord{
				ID:       s.newID(),
				ReportID: record.ID,
				Index:    tmpl.Index,
				Name:     tmpl.Name,
				Status:   corepasture.StatusInProgress,
			}
			if err := s.pastureRepo.Create(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	_ = s.logWriter.LogCreate(ctx, secondary.EntityReport, record.ID)
	return recordToReport(record), nil
}

// ListReports lists all reports, most recent first.
func (s *SurveyServiceImpl) ListReports(ctx context.Context) ([]*primary.Report, error) {
	records, err := s.reportRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	reports := make([]*primary.Report, len(records))
	for i, r := range records {
		reports[i] = recordToReport(r)
	}
	return reports, nil
}

// GetReport retrieves a report by ID.
func (s *SurveyServiceImpl) GetReport(ctx context.Context, reportID string) (*primary.Report, error) {
	record, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return recordToReport(record), nil
}

// LatestReport returns the most recently created report.
func (s *SurveyServiceImpl) LatestReport(ctx context.Context) (*primary.Report, error) {
	records, err := s.reportRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return recordToReport(records[0]), nil
}

// SetReportStatus sets the report status.
func (s *SurveyServiceImpl) SetReportStatus(ctx context.Context, reportID, status string) error {
	if !corepasture.IsValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", primary.ErrInvalidInput, status)
	}
	record, err := s.requireReport(ctx, reportID)
	if err != nil {
		return err
	}
	if err := s.reportRepo.UpdateStatus(ctx, reportID, status); err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}
	_ = s.logWriter.LogUpdate(ctx, secondary.EntityReport, reportID, "status", record.Status, status)
	return nil
}

// DeleteReport deletes a report with its pastures and entries.
func (s *SurveyServiceImpl) DeleteReport(ctx context.Context, reportID string) error {
	if _, err := s.requireReport(ctx, reportID); err != nil {
		return err
	}
	if err := s.reportRepo.Delete(ctx, reportID); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	_ = s.logWriter.LogDelete(ctx, secondary.EntityReport, reportID)
	return nil
}

// WipeAll deletes every report.
func (s *SurveyServiceImpl) WipeAll(ctx context.Context) error {
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		return s.reportRepo.DeleteAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to wipe reports: %w", err)
	}
	_ = s.logWriter.LogDelete(ctx, secondary.EntityReport, "*")
	return nil
}

// GetPastures lists a report's pastures by index.
func (s *SurveyServiceImpl) GetPastures(ctx context.Context, reportID string) ([]*primary.Pasture, error) {
	records, err := s.pastureRepo.ListByReport(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pastures: %w", err)
	}
	pastures := make([]*primary.Pasture, len(records))
	for i, r := range records {
		pastures[i] = recordToPasture(r)
	}
	return pastures, nil
}

// GetPasture retrieves a pasture by ID.
func (s *SurveyServiceImpl) GetPasture(ctx context.Context, pastureID string) (*primary.Pasture, error) {
	record, err := s.pastureRepo.GetByID(ctx, pastureID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return recordToPasture(record), nil
}

// GetPastureByIndex retrieves a report's pasture by index.
func (s *SurveyServiceImpl) GetPastureByIndex(ctx context.Context, reportID string, index int) (*primary.Pasture, error) {
	record, err := s.pastureRepo.GetByIndex(ctx, reportID, index)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return recordToPasture(record), nil
}

// SetPastureStatus updates the status field only.
func (s *SurveyServiceImpl) SetPastureStatus(ctx context.Context, pastureID, status string) error {
	if !corepasture.IsValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", primary.ErrInvalidInput, status)
	}
	record, err := s.requirePasture(ctx, pastureID)
	if err != nil {
		return err
	}
	return s.updatePastureStatus(ctx, record, status)
}

// CompletePasture marks a pasture complete.
func (s *SurveyServiceImpl) CompletePasture(ctx context.Context, pastureID string, force bool) error {
	record, err := s.requirePasture(ctx, pastureID)
	if err != nil {
		return err
	}

	recorded, err := s.entryRepo.CountLines(ctx, record.ReportID, record.ID)
	if err != nil {
		return fmt.Errorf("failed to count entries: %w", err)
	}

	result := corepasture.CanCompletePasture(corepasture.CompleteContext{
		PastureID:     record.ID,
		Status:        record.Status,
		RecordedLines: recorded,
		Force:         force,
	})
	if !result.Allowed {
		return fmt.Errorf("%w: %s", primary.ErrNotAllowed, result.Reason)
	}

	return s.updatePastureStatus(ctx, record, corepasture.StatusComplete)
}

// ReopenPasture moves a complete pasture back to in_progress.
func (s *SurveyServiceImpl) ReopenPasture(ctx context.Context, pastureID string) error {
	record, err := s.requirePasture(ctx, pastureID)
	if err != nil {
		return err
	}

	result := corepasture.CanReopenPasture(corepasture.StatusContext{
		PastureID: record.ID,
		Status:    record.Status,
	})
	if !result.Allowed {
		return fmt.Errorf("%w: %s", primary.ErrNotAllowed, result.Reason)
	}

	return s.updatePastureStatus(ctx, record, corepasture.StatusInProgress)
}

// CountEntriesForPasture counts distinct recorded foot marks.
func (s *SurveyServiceImpl) CountEntriesForPasture(ctx context.Context, reportID, pastureID string) (int, error) {
	n, err := s.entryRepo.CountLines(ctx, reportID, pastureID)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// SaveEntry upserts the entry at a foot mark.
func (s *SurveyServiceImpl) SaveEntry(ctx context.Context, req primary.SaveEntryRequest) (string, error) {
	if err := req.Category.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", primary.ErrInvalidInput, err)
	}
	if gt := req.Category.GrassType; gt != "" && len(s.grassTypes) > 0 && !s.grassTypes[gt] {
		return "", fmt.Errorf("%w: unknown grass type %q", primary.ErrInvalidInput, gt)
	}

	p, err := s.pastureRepo.GetByID(ctx, req.PastureID)
	if err != nil {
		return "", fmt.Errorf("failed to get pasture: %w", err)
	}
	if p == nil {
		return "", fmt.Errorf("%w: %s", primary.ErrPastureNotFound, req.PastureID)
	}

	result := corepasture.CanWriteEntry(corepasture.WriteEntryContext{
		PastureID:       p.ID,
		PastureExists:   true,
		PastureReportID: p.ReportID,
		ReportID:        req.ReportID,
		PastureStatus:   p.Status,
		LineNo:          req.LineNo,
	})
	if !result.Allowed {
		sentinel := primary.ErrInvalidInput
		if p.Status == corepasture.StatusComplete {
			sentinel = primary.ErrNotAllowed
		}
		return "", fmt.Errorf("%w: %s", sentinel, result.Reason)
	}

	var (
		id       string
		previous *secondary.EntryRecord
	)
	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.entryRepo.GetByLine(ctx, req.ReportID, req.PastureID, req.LineNo)
		if err != nil {
			return err
		}
		previous = existing

		updatedAt := s.now()
		// updatedAt never moves backwards for an existing row.
		if existing != nil && existing.UpdatedAt.After(updatedAt) {
			updatedAt = existing.UpdatedAt
		}

		record := categoryToRecord(req.Category)
		record.ID = s.newID()
		record.ReportID = req.ReportID
		record.PastureID = req.PastureID
		record.LineNo = req.LineNo
		record.UpdatedAt = updatedAt

		id, err = s.entryRepo.Upsert(ctx, record)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to save entry: %w", err)
	}

	if previous == nil {
		_ = s.logWriter.LogCreate(ctx, secondary.EntityEntry, id)
	} else {
		old := recordToCategory(previous)
		if !old.Equal(req.Category) {
			_ = s.logWriter.LogUpdate(ctx, secondary.EntityEntry, id, "category", old.String(), req.Category.String())
		}
	}
	return id, nil
}

// GetEntryByLine retrieves the entry at a foot mark.
func (s *SurveyServiceImpl) GetEntryByLine(ctx context.Context, reportID, pastureID string, lineNo int) (*primary.Entry, error) {
	record, err := s.entryRepo.GetByLine(ctx, reportID, pastureID, lineNo)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return recordToEntry(record), nil
}

// ListEntriesForPasture lists a pasture's entries by foot mark.
func (s *SurveyServiceImpl) ListEntriesForPasture(ctx context.Context, reportID, pastureID string) ([]*primary.Entry, error) {
	records, err := s.entryRepo.ListByPasture(ctx, reportID, pastureID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	entries := make([]*primary.Entry, len(records))
	for i, r := range records {
		entries[i] = recordToEntry(r)
	}
	return entries, nil
}

// ReportProgress summarizes recorded lines per pasture.
func (s *SurveyServiceImpl) ReportProgress(ctx context.Context, reportID string) (*primary.ReportProgress, error) {
	record, err := s.requireReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	pastures, err := s.pastureRepo.ListByReport(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pastures: %w", err)
	}

	progress := &primary.ReportProgress{Report: recordToReport(record)}
	for _, p := range pastures {
		n, err := s.entryRepo.CountLines(ctx, reportID, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count entries: %w", err)
		}
		progress.Pastures = append(progress.Pastures, &primary.PastureProgress{
			Pasture:  recordToPasture(p),
			Recorded: n,
		})
		if p.Status == corepasture.StatusComplete {
			progress.Complete++
		}
		if n >= corepasture.LinesPerPasture {
			progress.Full++
		}
	}
	return progress, nil
}

// PastureStats computes cover statistics for one pasture.
func (s *SurveyServiceImpl) PastureStats(ctx context.Context, reportID, pastureID string) (cover.Stats, error) {
	records, err := s.entryRepo.ListByPasture(ctx, reportID, pastureID)
	if err != nil {
		return cover.Stats{}, fmt.Errorf("failed to list entries: %w", err)
	}
	return cover.CalcStats(recordsToCategories(records)), nil
}

// ReportStats computes cover statistics over every pasture of a report.
func (s *SurveyServiceImpl) ReportStats(ctx context.Context, reportID string) (cover.Stats, error) {
	records, err := s.entryRepo.ListByReport(ctx, reportID)
	if err != nil {
		return cover.Stats{}, fmt.Errorf("failed to list entries: %w", err)
	}
	return cover.CalcStats(recordsToCategories(records)), nil
}

// Helper methods

func (s *SurveyServiceImpl) requireReport(ctx context.Context, reportID string) (*secondary.ReportRecord, error) {
	record, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", primary.ErrReportNotFound, reportID)
	}
	return record, nil
}

func (s *SurveyServiceImpl) requirePasture(ctx context.Context, pastureID string) (*secondary.PastureRecord, error) {
	record, err := s.pastureRepo.GetByID(ctx, pastureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pasture: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", primary.ErrPastureNotFound, pastureID)
	}
	return record, nil
}

func (s *SurveyServiceImpl) updatePastureStatus(ctx context.Context, record *secondary.PastureRecord, status string) error {
	if err := s.pastureRepo.UpdateStatus(ctx, record.ID, status); err != nil {
		return fmt.Errorf("failed to update pasture status: %w", err)
	}
	_ = s.logWriter.LogUpdate(ctx, secondary.EntityPasture, record.ID, "status", record.Status, status)
	return nil
}

func recordToReport(r *secondary.ReportRecord) *primary.Report {
	return &primary.Report{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		Status:    r.Status,
	}
}

func recordToPasture(r *secondary.PastureRecord) *primary.Pasture {
	return &primary.Pasture{
		ID:       r.ID,
		ReportID: r.ReportID,
		Index:    r.Index,
		Name:     r.Name,
		Status:   r.Status,
	}
}

func recordToEntry(r *secondary.EntryRecord) *primary.Entry {
	return &primary.Entry{
		ID:        r.ID,
		ReportID:  r.ReportID,
		PastureID: r.PastureID,
		LineNo:    r.LineNo,
		Category:  recordToCategory(r),
		UpdatedAt: r.UpdatedAt,
	}
}

// recordToCategory treats an unreadable stored kind as uncategorized.
func recordToCategory(r *secondary.EntryRecord) cover.Category {
	kind, err := cover.ParseKind(r.Category)
	if err != nil {
		return cover.Uncategorized()
	}
	if kind != cover.KindGrass {
		return cover.Category{Kind: kind}
	}
	return cover.Grass(r.GrassHeight, r.GrassType)
}

func recordsToCategories(records []*secondary.EntryRecord) []cover.Category {
	cats := make([]cover.Category, len(records))
	for i, r := range records {
		cats[i] = recordToCategory(r)
	}
	return cats
}

func categoryToRecord(c cover.Category) *secondary.EntryRecord {
	record := &secondary.EntryRecord{Category: string(c.Kind)}
	if c.Kind == cover.KindGrass {
		record.GrassHeight = c.GrassHeight
		record.GrassType = c.GrassType
	}
	return record
}

// Ensure SurveyServiceImpl implements the interface
var _ primary.SurveyService = (*SurveyServiceImpl)(nil)
