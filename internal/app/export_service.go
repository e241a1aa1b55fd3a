package app

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/example/pasturize/internal/core/cover"
	"github.com/example/pasturize/internal/core/export"
	"github.com/example/pasturize/internal/ports/primary"
	"github.com/example/pasturize/internal/ports/secondary"
)

// Content types of generated files.
const (
	ContentTypeZip  = "application/zip"
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// summarySheet is the workbook sheet holding per-pasture statistics.
const summarySheet = "Summary"

// ExportServiceImpl implements the ExportService interface.
type ExportServiceImpl struct {
	reportRepo  secondary.ReportRepository
	pastureRepo secondary.PastureRepository
	entryRepo   secondary.EntryRepository
}

// NewExportService creates a new ExportService with injected dependencies.
func NewExportService(
	reportRepo secondary.ReportRepository,
	pastureRepo secondary.PastureRepository,
	entryRepo secondary.EntryRepository,
) *ExportServiceImpl {
	return &ExportServiceImpl{
		reportRepo:  reportRepo,
		pastureRepo: pastureRepo,
		entryRepo:   entryRepo,
	}
}

type pastureData struct {
	record *secondary.PastureRecord
	lines  []export.Line
}

type reportData struct {
	report   *secondary.ReportRecord
	pastures []pastureData // index order
}

func (d *reportData) pastureLines() []export.PastureLines {
	out := make([]export.PastureLines, len(d.pastures))
	for i, p := range d.pastures {
		out[i] = export.PastureLines{Index: p.record.Index, Name: p.record.Name, Lines: p.lines}
	}
	return out
}

func (d *reportData) allCategories() []cover.Category {
	var cats []cover.Category
	for _, p := range d.pastures {
		cats = append(cats, p.categories()...)
	}
	return cats
}

func (p pastureData) categories() []cover.Category {
	cats := make([]cover.Category, len(p.lines))
	for i, l := range p.lines {
		cats[i] = l.Category
	}
	return cats
}

// ExportArchive builds a zip with one CSV per pasture. Members follow
// pasture index order and carry the report creation time, so the same data
// always yields the same bytes.
func (s *ExportServiceImpl) ExportArchive(ctx context.Context, reportID string) (*primary.ExportFile, error) {
	data, err := s.load(ctx, reportID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range data.pastures {
		header := &zip.FileHeader{
			Name:     export.PastureFileName(data.report.Name, data.report.ID, p.record.Name, p.record.Index),
			Method:   zip.Deflate,
			Modified: data.report.CreatedAt,
		}
		w, err := zw.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", header.Name, err)
		}
		if _, err := w.Write([]byte(export.PastureCSV(p.lines))); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", header.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}

	return &primary.ExportFile{
		Name:        export.ReportFileName(data.report.Name, data.report.ID, ".zip"),
		ContentType: ContentTypeZip,
		Data:        buf.Bytes(),
	}, nil
}

// ExportCombinedCSV builds one CSV covering every pasture.
func (s *ExportServiceImpl) ExportCombinedCSV(ctx context.Context, reportID string) (*primary.ExportFile, error) {
	data, err := s.load(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return &primary.ExportFile{
		Name:        export.ReportFileName(data.report.Name, data.report.ID, ".csv"),
		ContentType: ContentTypeCSV,
		Data:        []byte(export.CombinedCSV(data.pastureLines())),
	}, nil
}

// ExportPastureCSV builds the CSV for a single pasture.
func (s *ExportServiceImpl) ExportPastureCSV(ctx context.Context, reportID string, pastureIndex int) (*primary.ExportFile, error) {
	data, err := s.load(ctx, reportID)
	if err != nil {
		return nil, err
	}
	for _, p := range data.pastures {
		if p.record.Index != pastureIndex {
			continue
		}
		return &primary.ExportFile{
			Name:        export.PastureFileName(data.report.Name, data.report.ID, p.record.Name, p.record.Index),
			ContentType: ContentTypeCSV,
			Data:        []byte(export.PastureCSV(p.lines)),
		}, nil
	}
	return nil, fmt.Errorf("%w: index %d in report %s", primary.ErrPastureNotFound, pastureIndex, reportID)
}

// ExportWorkbook builds an XLSX workbook with a Summary sheet first and one
// sheet per pasture.
func (s *ExportServiceImpl) ExportWorkbook(ctx context.Context, reportID string) (*primary.ExportFile, error) {
	data, err := s.load(ctx, reportID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, data); err != nil {
		return nil, err
	}

	for _, p := range data.pastures {
		name := sheetName(p.record.Index, p.record.Name)
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
		if err := setRow(f, name, 1, toCells(export.PastureHeader)); err != nil {
			return nil, err
		}
		for i, l := range p.lines {
			if err := setRow(f, name, i+2, lineCells(l)); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return &primary.ExportFile{
		Name:        export.ReportFileName(data.report.Name, data.report.ID, ".xlsx"),
		ContentType: ContentTypeXLSX,
		Data:        buf.Bytes(),
	}, nil
}

// ExportSummaryPDF builds a one-document progress and statistics summary.
func (s *ExportServiceImpl) ExportSummaryPDF(ctx context.Context, reportID string) (*primary.ExportFile, error) {
	data, err := s.load(ctx, reportID)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCreationDate(data.report.CreatedAt)
	pdf.SetModificationDate(data.report.CreatedAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(data.report.Name, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(data.report.Name))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Created %s  Status: %s", data.report.CreatedAt.Format("2006-01-02"), data.report.Status))
	pdf.Ln(10)

	widths := []float64{12, 48, 26, 20, 18, 18, 18, 22, 18, 26, 30}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range summaryHeader {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range summaryRows(data) {
		for i, v := range row {
			align := "R"
			if i == 1 || i == 2 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, pdfCell(tr, v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return &primary.ExportFile{
		Name:        export.ReportFileName(data.report.Name, data.report.ID, ".pdf"),
		ContentType: ContentTypePDF,
		Data:        buf.Bytes(),
	}, nil
}

// load fetches the report, its pastures and their entries. A missing
// report fails before anything is generated.
func (s *ExportServiceImpl) load(ctx context.Context, reportID string) (*reportData, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report == nil {
		return nil, fmt.Errorf("%w: %s", primary.ErrReportNotFound, reportID)
	}

	pastures, err := s.pastureRepo.ListByReport(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pastures: %w", err)
	}

	data := &reportData{report: report}
	for _, p := range pastures {
		records, err := s.entryRepo.ListByPasture(ctx, reportID, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list entries for pasture %s: %w", p.ID, err)
		}
		lines := make([]export.Line, len(records))
		for i, r := range records {
			lines[i] = export.Line{LineNo: r.LineNo, Category: recordToCategory(r)}
		}
		data.pastures = append(data.pastures, pastureData{record: p, lines: lines})
	}
	return data, nil
}

var summaryHeader = []string{
	"Index", "Pasture", "Status", "Recorded",
	"Bare %", "Grass %", "Litter %", "Forb/Bush %", "Weed %",
	"Uncategorized", "Avg Grass Height",
}

// summaryRows returns one row per pasture followed by the whole-report row.
func summaryRows(data *reportData) [][]any {
	var rows [][]any
	for _, p := range data.pastures {
		stats := cover.CalcStats(p.categories())
		rows = append(rows, statsRow(strconv.Itoa(p.record.Index), p.record.Name, p.record.Status, stats))
	}
	all := cover.CalcStats(data.allCategories())
	return append(rows, statsRow("", "All pastures", data.report.Status, all))
}

func statsRow(index, name, status string, st cover.Stats) []any {
	avg := ""
	if st.AvgGrassHeight != nil {
		avg = strconv.FormatFloat(*st.AvgGrassHeight, 'f', 1, 64)
	}
	return []any{
		index, name, status, st.Total,
		st.BarePct, st.GrassPct, st.LitterPct, st.ForbBushPct, st.WeedPct,
		st.Uncategorized, avg,
	}
}

// pdfCell formats v for a core-font cell; tr maps UTF-8 to the font's code page.
func pdfCell(tr func(string) string, v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return tr(fmt.Sprint(v))
}

func writeSummarySheet(f *excelize.File, data *reportData) error {
	if err := setRow(f, summarySheet, 1, toCells(summaryHeader)); err != nil {
		return err
	}
	for i, row := range summaryRows(data) {
		if err := setRow(f, summarySheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func lineCells(l export.Line) []any {
	return toCells(export.Cells(l))
}

func toCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// sheetName builds a worksheet name Excel accepts: no []:*?/\ and at most
// 31 characters.
func sheetName(index int, name string) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	s := []rune(fmt.Sprintf("%d %s", index, clean))
	if len(s) > 31 {
		s = s[:31]
	}
	return strings.TrimSpace(string(s))
}

// Ensure ExportServiceImpl implements the interface
var _ primary.ExportService = (*ExportServiceImpl)(nil)
