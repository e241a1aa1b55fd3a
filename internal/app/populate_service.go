package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/example/pasturize/internal/core/cover"
	corepasture "github.com/example/pasturize/internal/core/pasture"
	"github.com/example/pasturize/internal/ports/primary"
	"github.com/example/pasturize/internal/ports/secondary"
)

// Draw weights per 100 foot marks.
const (
	weightBare     = 75
	weightGrass    = 10
	weightLitter   = 7
	weightForbBush = 6
	weightWeed     = 2

	maxPopulatedHeight = 13
)

// PopulateServiceImpl implements the PopulateService interface.
type PopulateServiceImpl struct {
	reportRepo  secondary.ReportRepository
	pastureRepo secondary.PastureRepository
	entryRepo   secondary.EntryRepository
	transactor  secondary.Transactor
	logWriter   secondary.LogWriter
	grassTypes  []string
	rng         *rand.Rand

	now   func() time.Time
	newID func() string
}

// NewPopulateService creates a new PopulateService. A nil rng draws from a
// time-seeded source.
func NewPopulateService(
	reportRepo secondary.ReportRepository,
	pastureRepo secondary.PastureRepository,
	entryRepo secondary.EntryRepository,
	transactor secondary.Transactor,
	logWriter secondary.LogWriter,
	grassTypes []string,
	rng *rand.Rand,
) *PopulateServiceImpl {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &PopulateServiceImpl{
		reportRepo:  reportRepo,
		pastureRepo: pastureRepo,
		entryRepo:   entryRepo,
		transactor:  transactor,
		logWriter:   logWriter,
		grassTypes:  grassTypes,
		rng:         rng,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

// PopulatePasture replaces a pasture's entries with a full generated
// transect and marks it complete.
func (s *PopulateServiceImpl) PopulatePasture(ctx context.Context, reportID, pastureID string) error {
	p, err := s.pastureRepo.GetByID(ctx, pastureID)
	if err != nil {
		return fmt.Errorf("failed to get pasture: %w", err)
	}
	if p == nil || p.ReportID != reportID {
		return fmt.Errorf("%w: %s", primary.ErrPastureNotFound, pastureID)
	}
	return s.populate(ctx, p)
}

// PopulateReport populates every pasture of a report in index order.
func (s *PopulateServiceImpl) PopulateReport(ctx context.Context, reportID string) error {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}
	if report == nil {
		return fmt.Errorf("%w: %s", primary.ErrReportNotFound, reportID)
	}

	pastures, err := s.pastureRepo.ListByReport(ctx, reportID)
	if err != nil {
		return fmt.Errorf("failed to list pastures: %w", err)
	}
	for _, p := range pastures {
		if err := s.populate(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *PopulateServiceImpl) populate(ctx context.Context, p *secondary.PastureRecord) error {
	now := s.now()
	records := make([]*secondary.EntryRecord, 0, corepasture.LinesPerPasture)
	for line := 1; line <= corepasture.LinesPerPasture; line++ {
		record := categoryToRecord(s.draw())
		record.ID = s.newID()
		record.ReportID = p.ReportID
		record.PastureID = p.ID
		record.LineNo = line
		record.UpdatedAt = now
		records = append(records, record)
	}

	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.entryRepo.DeleteByPasture(ctx, p.ReportID, p.ID); err != nil {
			return err
		}
		if err := s.entryRepo.InsertMany(ctx, records); err != nil {
			return err
		}
		return s.pastureRepo.UpdateStatus(ctx, p.ID, corepasture.StatusComplete)
	})
	if err != nil {
		return fmt.Errorf("failed to populate pasture %s: %w", p.ID, err)
	}

	_ = s.logWriter.LogUpdate(ctx, secondary.EntityPasture, p.ID, "status", p.Status, corepasture.StatusComplete)
	return nil
}

// draw picks one category by weight.
func (s *PopulateServiceImpl) draw() cover.Category {
	n := s.rng.IntN(100)
	switch {
	case n < weightBare:
		return cover.Bare()
	case n < weightBare+weightGrass:
		height := float64(1 + s.rng.IntN(maxPopulatedHeight))
		grassType := ""
		if len(s.grassTypes) > 0 {
			grassType = s.grassTypes[s.rng.IntN(len(s.grassTypes))]
		}
		return cover.Grass(&height, grassType)
	case n < weightBare+weightGrass+weightLitter:
		return cover.Litter()
	case n < weightBare+weightGrass+weightLitter+weightForbBush:
		return cover.ForbBush()
	default:
		return cover.Weed()
	}
}

// Ensure PopulateServiceImpl implements the interface
var _ primary.PopulateService = (*PopulateServiceImpl)(nil)
