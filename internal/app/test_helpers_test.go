package app

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/example/pasturize/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockReportRepository implements secondary.ReportRepository for testing.
type mockReportRepository struct {
	reports   map[string]*secondary.ReportRecord
	order     []string // insertion order
	createErr error
	getErr    error
}

func newMockReportRepository() *mockReportRepository {
	return &mockReportRepository{reports: make(map[string]*secondary.ReportRecord)}
}

func (m *mockReportRepository) Create(ctx context.Context, report *secondary.ReportRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	r := *report
	m.reports[r.ID] = &r
	m.order = append(m.order, r.ID)
	return nil
}

func (m *mockReportRepository) GetByID(ctx context.Context, id string) (*secondary.ReportRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if r, ok := m.reports[id]; ok {
		c := *r
		return &c, nil
	}
	return nil, nil
}

func (m *mockReportRepository) List(ctx context.Context) ([]*secondary.ReportRecord, error) {
	var result []*secondary.ReportRecord
	for i := len(m.order) - 1; i >= 0; i-- {
		if r, ok := m.reports[m.order[i]]; ok {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockReportRepository) UpdateStatus(ctx context.Context, id, status string) error {
	r, ok := m.reports[id]
	if !ok {
		return errors.New("report not found")
	}
	r.Status = status
	return nil
}

func (m *mockReportRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.reports[id]; !ok {
		return errors.New("report not found")
	}
	delete(m.reports, id)
	return nil
}

func (m *mockReportRepository) DeleteAll(ctx context.Context) error {
	m.reports = make(map[string]*secondary.ReportRecord)
	m.order = nil
	return nil
}

// mockPastureRepository implements secondary.PastureRepository for testing.
type mockPastureRepository struct {
	pastures  map[string]*secondary.PastureRecord
	createErr error
}

func newMockPastureRepository() *mockPastureRepository {
	return &mockPastureRepository{pastures: make(map[string]*secondary.PastureRecord)}
}

func (m *mockPastureRepository) Create(ctx context.Context, pasture *secondary.PastureRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	p := *pasture
	m.pastures[p.ID] = &p
	return nil
}

func (m *mockPastureRepository) GetByID(ctx context.Context, id string) (*secondary.PastureRecord, error) {
	if p, ok := m.pastures[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (m *mockPastureRepository) GetByIndex(ctx context.Context, reportID string, index int) (*secondary.PastureRecord, error) {
	for _, p := range m.pastures {
		if p.ReportID == reportID && p.Index == index {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (m *mockPastureRepository) ListByReport(ctx context.Context, reportID string) ([]*secondary.PastureRecord, error) {
	var result []*secondary.PastureRecord
	for _, p := range m.pastures {
		if p.ReportID == reportID {
			c := *p
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Index < result[j].Index })
	return result, nil
}

func (m *mockPastureRepository) UpdateStatus(ctx context.Context, id, status string) error {
	p, ok := m.pastures[id]
	if !ok {
		return errors.New("pasture not found")
	}
	p.Status = status
	return nil
}

type entryKey struct {
	reportID, pastureID string
	lineNo              int
}

// mockEntryRepository implements secondary.EntryRepository for testing.
type mockEntryRepository struct {
	entries   map[entryKey]*secondary.EntryRecord
	insertErr error
}

func newMockEntryRepository() *mockEntryRepository {
	return &mockEntryRepository{entries: make(map[entryKey]*secondary.EntryRecord)}
}

func (m *mockEntryRepository) Upsert(ctx context.Context, entry *secondary.EntryRecord) (string, error) {
	key := entryKey{entry.ReportID, entry.PastureID, entry.LineNo}
	e := *entry
	if existing, ok := m.entries[key]; ok {
		e.ID = existing.ID
	}
	m.entries[key] = &e
	return e.ID, nil
}

func (m *mockEntryRepository) GetByLine(ctx context.Context, reportID, pastureID string, lineNo int) (*secondary.EntryRecord, error) {
	if e, ok := m.entries[entryKey{reportID, pastureID, lineNo}]; ok {
		c := *e
		return &c, nil
	}
	return nil, nil
}

func (m *mockEntryRepository) ListByPasture(ctx context.Context, reportID, pastureID string) ([]*secondary.EntryRecord, error) {
	var result []*secondary.EntryRecord
	for k, e := range m.entries {
		if k.reportID == reportID && k.pastureID == pastureID {
			c := *e
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LineNo < result[j].LineNo })
	return result, nil
}

func (m *mockEntryRepository) ListByReport(ctx context.Context, reportID string) ([]*secondary.EntryRecord, error) {
	var result []*secondary.EntryRecord
	for k, e := range m.entries {
		if k.reportID == reportID {
			c := *e
			result = append(result, &c)
		}
	}
	return result, nil
}

func (m *mockEntryRepository) CountLines(ctx context.Context, reportID, pastureID string) (int, error) {
	n := 0
	for k := range m.entries {
		if k.reportID == reportID && k.pastureID == pastureID {
			n++
		}
	}
	return n, nil
}

func (m *mockEntryRepository) DeleteByPasture(ctx context.Context, reportID, pastureID string) error {
	for k := range m.entries {
		if k.reportID == reportID && k.pastureID == pastureID {
			delete(m.entries, k)
		}
	}
	return nil
}

func (m *mockEntryRepository) InsertMany(ctx context.Context, entries []*secondary.EntryRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, entry := range entries {
		e := *entry
		m.entries[entryKey{e.ReportID, e.PastureID, e.LineNo}] = &e
	}
	return nil
}

// mockTransactor implements secondary.Transactor. On error it restores the
// entry map captured before fn ran.
type mockTransactor struct {
	entries *mockEntryRepository
	calls   int
}

func (m *mockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	var snapshot map[entryKey]*secondary.EntryRecord
	if m.entries != nil {
		snapshot = make(map[entryKey]*secondary.EntryRecord, len(m.entries.entries))
		for k, v := range m.entries.entries {
			snapshot[k] = v
		}
	}
	if err := fn(ctx); err != nil {
		if m.entries != nil {
			m.entries.entries = snapshot
		}
		return err
	}
	return nil
}

// mockLogWriter implements secondary.LogWriter and records every call.
type mockLogWriter struct {
	creates []string
	updates []string
	deletes []string
}

func (m *mockLogWriter) LogCreate(ctx context.Context, entityType, entityID string) error {
	m.creates = append(m.creates, entityType+":"+entityID)
	return nil
}

func (m *mockLogWriter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	m.updates = append(m.updates, entityType+":"+entityID+":"+fieldName+":"+oldValue+"->"+newValue)
	return nil
}

func (m *mockLogWriter) LogDelete(ctx context.Context, entityType, entityID string) error {
	m.deletes = append(m.deletes, entityType+":"+entityID)
	return nil
}

var (
	_ secondary.ReportRepository  = (*mockReportRepository)(nil)
	_ secondary.PastureRepository = (*mockPastureRepository)(nil)
	_ secondary.EntryRepository   = (*mockEntryRepository)(nil)
	_ secondary.Transactor        = (*mockTransactor)(nil)
	_ secondary.LogWriter         = (*mockLogWriter)(nil)
)

// ============================================================================
// Test Fixture
// ============================================================================

var testGrassTypes = []string{"GG", "WW", "SD", "LL", "OT"}

var testTemplates = []PastureTemplate{
	{Index: 1, Name: "Home"},
	{Index: 2, Name: "North"},
	{Index: 3, Name: "Hay Meadow"},
}

// fixture bundles the mocks behind every service.
type fixture struct {
	reports    *mockReportRepository
	pastures   *mockPastureRepository
	entries    *mockEntryRepository
	transactor *mockTransactor
	logs       *mockLogWriter
	clock      *fakeClock
	newID      func() string
}

func newFixture() *fixture {
	entries := newMockEntryRepository()
	return &fixture{
		reports:    newMockReportRepository(),
		pastures:   newMockPastureRepository(),
		entries:    entries,
		transactor: &mockTransactor{entries: entries},
		logs:       &mockLogWriter{},
		clock:      &fakeClock{t: time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC)},
		newID:      seqIDs("id"),
	}
}

// fakeClock advances one second per reading.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

// seqIDs returns a generator of "<prefix>-1", "<prefix>-2", ...
func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

func (f *fixture) surveyService() *SurveyServiceImpl {
	s := NewSurveyService(f.reports, f.pastures, f.entries, f.transactor, f.logs, testTemplates, testGrassTypes)
	s.now = f.clock.Now
	s.newID = f.newID
	return s
}

func (f *fixture) importService() *ImportServiceImpl {
	s := NewImportService(f.reports, f.pastures, f.entries, f.transactor, f.logs, testGrassTypes)
	s.now = f.clock.Now
	s.newID = f.newID
	return s
}

func (f *fixture) exportService() *ExportServiceImpl {
	return NewExportService(f.reports, f.pastures, f.entries)
}

// seedReport creates a report with the test templates through the service.
func (f *fixture) seedReport(t *testing.T, name string) (*SurveyServiceImpl, string) {
	t.Helper()
	s := f.surveyService()
	report, err := s.CreateReport(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}
	return s, report.ID
}

// pastureAt returns the seeded pasture with the given index.
func (f *fixture) pastureAt(t *testing.T, reportID string, index int) *secondary.PastureRecord {
	t.Helper()
	p, _ := f.pastures.GetByIndex(context.Background(), reportID, index)
	if p == nil {
		t.Fatalf("no pasture %d in report %s", index, reportID)
	}
	return p
}
