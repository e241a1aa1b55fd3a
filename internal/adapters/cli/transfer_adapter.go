package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/pasturize/internal/ports/primary"
)

// Export formats accepted by TransferAdapter.Export.
const (
	FormatZip  = "zip"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// TransferAdapter translates CLI import and export operations.
type TransferAdapter struct {
	survey   primary.SurveyService
	importer primary.ImportService
	exporter primary.ExportService
	out      io.Writer
}

// NewTransferAdapter creates a new TransferAdapter.
func NewTransferAdapter(survey primary.SurveyService, importer primary.ImportService, exporter primary.ExportService, out io.Writer) *TransferAdapter {
	return &TransferAdapter{
		survey:   survey,
		importer: importer,
		exporter: exporter,
		out:      out,
	}
}

// Import replaces a pasture's foot marks with the CSV sheet read from in.
func (a *TransferAdapter) Import(ctx context.Context, reportRef string, pastureIndex int, in io.Reader, forbCount int) error {
	report, err := ResolveReport(ctx, a.survey, reportRef)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read CSV: %w", err)
	}

	result, err := a.importer.ImportPastureCSV(ctx, primary.ImportRequest{
		ReportID:     report.ID,
		PastureIndex: pastureIndex,
		CSV:          string(data),
		ForbCount:    forbCount,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Imported %d foot marks into pasture %d\n", okIcon(), result.Imported, pastureIndex)
	if result.Skipped > 0 {
		fmt.Fprintf(a.out, "  %d rows skipped (missing or out-of-range foot mark)\n", result.Skipped)
	}
	if result.ForbToWeed > 0 {
		fmt.Fprintf(a.out, "  %d forb/bush kept, %d reclassified as weed\n", result.ForbKept, result.ForbToWeed)
	}
	return nil
}

// Export writes an export of the report into dir and returns the file path.
// pastureIndex selects a single pasture sheet for the csv format; 0 means
// the whole report.
func (a *TransferAdapter) Export(ctx context.Context, reportRef, format string, pastureIndex int, dir string) (string, error) {
	report, err := ResolveReport(ctx, a.survey, reportRef)
	if err != nil {
		return "", err
	}

	var file *primary.ExportFile
	switch format {
	case FormatZip:
		file, err = a.exporter.ExportArchive(ctx, report.ID)
	case FormatCSV:
		if pastureIndex > 0 {
			file, err = a.exporter.ExportPastureCSV(ctx, report.ID, pastureIndex)
		} else {
			file, err = a.exporter.ExportCombinedCSV(ctx, report.ID)
		}
	case FormatXLSX:
		file, err = a.exporter.ExportWorkbook(ctx, report.ID)
	case FormatPDF:
		file, err = a.exporter.ExportSummaryPDF(ctx, report.ID)
	default:
		return "", fmt.Errorf("%w: unknown export format %q (expected zip, csv, xlsx or pdf)", primary.ErrInvalidInput, format)
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, file.Name)
	if err := os.WriteFile(path, file.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(a.out, "%s Wrote %s (%d bytes)\n", okIcon(), path, len(file.Data))
	return path, nil
}
