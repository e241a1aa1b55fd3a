// Package templates holds the embedded text templates used for CLI output.
package templates

import (
	"embed"
	"fmt"
	"io"
	"text/template"
)

//go:embed report/*.tmpl
var reportTemplates embed.FS

var summaryTmpl = template.Must(template.ParseFS(reportTemplates, "report/summary.tmpl"))

// ReportSummary is the view rendered by RenderReportSummary.
type ReportSummary struct {
	ID       string
	Name     string
	Status   string
	Created  string
	Pastures []PastureRow
	Complete int
	Full     int
	Stats    StatsRow
}

// PastureRow is one line of the pasture table.
type PastureRow struct {
	Index    int
	Name     string
	Status   string
	Recorded int
}

// StatsRow holds preformatted cover percentages.
type StatsRow struct {
	Total         int
	Bare          string
	Grass         string
	Litter        string
	ForbBush      string
	Weed          string
	Uncategorized int
	AvgHeight     string // empty when no grass was measured
}

// RenderReportSummary writes the report summary to w.
func RenderReportSummary(w io.Writer, s ReportSummary) error {
	if err := summaryTmpl.Execute(w, s); err != nil {
		return fmt.Errorf("failed to render report summary: %w", err)
	}
	return nil
}
