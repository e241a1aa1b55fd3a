// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument resolution and output
// formatting, but delegate business logic to services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/pasturize/internal/core/cover"
	"github.com/example/pasturize/internal/ports/primary"
	"github.com/example/pasturize/internal/templates"
)

// ErrNoReports is returned when a command defaults to the latest report and
// none exists yet.
var ErrNoReports = errors.New("no reports yet. Create one with: pasturize report create")

// ReportAdapter is a thin adapter that translates CLI operations to SurveyService calls.
type ReportAdapter struct {
	service primary.SurveyService
	out     io.Writer
}

// NewReportAdapter creates a new ReportAdapter with the given service.
func NewReportAdapter(service primary.SurveyService, out io.Writer) *ReportAdapter {
	return &ReportAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new report.
func (a *ReportAdapter) Create(ctx context.Context, name string) (*primary.Report, error) {
	report, err := a.service.CreateReport(ctx, name)
	if err != nil {
		return nil, err
	}

	pastures, err := a.service.GetPastures(ctx, report.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pastures: %w", err)
	}

	fmt.Fprintf(a.out, "%s Created report %s: %s\n", okIcon(), report.ID, report.Name)
	fmt.Fprintf(a.out, "  %d pastures ready for entry\n", len(pastures))
	return report, nil
}

// List lists all reports, most recent first.
func (a *ReportAdapter) List(ctx context.Context) error {
	reports, err := a.service.ListReports(ctx)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if len(reports) == 0 {
		fmt.Fprintln(a.out, "No reports found")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tCREATED")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Name, statusText(r.Status), r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

// Show renders the report overview: pasture progress and overall cover.
func (a *ReportAdapter) Show(ctx context.Context, reportRef string) error {
	report, err := ResolveReport(ctx, a.service, reportRef)
	if err != nil {
		return err
	}

	progress, err := a.service.ReportProgress(ctx, report.ID)
	if err != nil {
		return fmt.Errorf("failed to get progress: %w", err)
	}
	stats, err := a.service.ReportStats(ctx, report.ID)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	summary := templates.ReportSummary{
		ID:       report.ID,
		Name:     report.Name,
		Status:   report.Status,
		Created:  report.CreatedAt.Format("2006-01-02 15:04"),
		Complete: progress.Complete,
		Full:     progress.Full,
		Stats:    statsRow(stats),
	}
	for _, pp := range progress.Pastures {
		summary.Pastures = append(summary.Pastures, templates.PastureRow{
			Index:    pp.Pasture.Index,
			Name:     pp.Pasture.Name,
			Status:   pp.Pasture.Status,
			Recorded: pp.Recorded,
		})
	}
	return templates.RenderReportSummary(a.out, summary)
}

// SetStatus sets the report status. An empty reportRef means the latest report.
func (a *ReportAdapter) SetStatus(ctx context.Context, reportRef, status string) error {
	report, err := ResolveReport(ctx, a.service, reportRef)
	if err != nil {
		return err
	}
	if err := a.service.SetReportStatus(ctx, report.ID, status); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Report %s marked %s\n", okIcon(), report.Name, status)
	return nil
}

// Delete deletes a report with its pastures and entries.
func (a *ReportAdapter) Delete(ctx context.Context, reportID string) error {
	report, err := ResolveReport(ctx, a.service, reportID)
	if err != nil {
		return err
	}
	if err := a.service.DeleteReport(ctx, report.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Deleted report %s: %s\n", okIcon(), report.ID, report.Name)
	return nil
}

// Wipe deletes every report.
func (a *ReportAdapter) Wipe(ctx context.Context) error {
	if err := a.service.WipeAll(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s All survey data deleted\n", okIcon())
	return nil
}

// Stats prints cover statistics for a report, or for one pasture when
// pastureRef is set.
func (a *ReportAdapter) Stats(ctx context.Context, reportRef, pastureRef string) error {
	var (
		stats cover.Stats
		title string
	)
	if pastureRef != "" {
		p, err := ResolvePasture(ctx, a.service, reportRef, pastureRef)
		if err != nil {
			return err
		}
		stats, err = a.service.PastureStats(ctx, p.ReportID, p.ID)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}
		title = fmt.Sprintf("Pasture %d: %s", p.Index, p.Name)
	} else {
		report, err := ResolveReport(ctx, a.service, reportRef)
		if err != nil {
			return err
		}
		stats, err = a.service.ReportStats(ctx, report.ID)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}
		title = "Report: " + report.Name
	}

	writeStats(a.out, title, stats)
	return nil
}

// ResolveReport finds a report by ID. An empty ref means the most recently
// created report.
func ResolveReport(ctx context.Context, service primary.SurveyService, ref string) (*primary.Report, error) {
	if ref == "" {
		report, err := service.LatestReport(ctx)
		if err != nil {
			return nil, err
		}
		if report == nil {
			return nil, ErrNoReports
		}
		return report, nil
	}

	report, err := service.GetReport(ctx, ref)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("%w: %s", primary.ErrReportNotFound, ref)
	}
	return report, nil
}

// ResolvePasture finds a pasture. A numeric ref is an index within the
// report named by reportRef (latest when empty); anything else is a pasture ID.
func ResolvePasture(ctx context.Context, service primary.SurveyService, reportRef, pastureRef string) (*primary.Pasture, error) {
	index, err := strconv.Atoi(pastureRef)
	if err != nil {
		p, err := service.GetPasture(ctx, pastureRef)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: %s", primary.ErrPastureNotFound, pastureRef)
		}
		return p, nil
	}

	report, err := ResolveReport(ctx, service, reportRef)
	if err != nil {
		return nil, err
	}
	p, err := service.GetPastureByIndex(ctx, report.ID, index)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: index %d in report %s", primary.ErrPastureNotFound, index, report.ID)
	}
	return p, nil
}

func writeStats(out io.Writer, title string, st cover.Stats) {
	fmt.Fprintf(out, "\n%s\n", color.New(color.Bold).Sprint(title))
	if st.Total == 0 {
		fmt.Fprintln(out, "  No foot marks recorded")
		return
	}

	row := statsRow(st)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Foot marks\t%d\n", st.Total)
	fmt.Fprintf(tw, "  Bare Ground\t%s\n", row.Bare)
	fmt.Fprintf(tw, "  Grass\t%s\n", row.Grass)
	fmt.Fprintf(tw, "  Litter\t%s\n", row.Litter)
	fmt.Fprintf(tw, "  Forb/Bush\t%s\n", row.ForbBush)
	fmt.Fprintf(tw, "  Weed\t%s\n", row.Weed)
	if st.Uncategorized > 0 {
		fmt.Fprintf(tw, "  Uncategorized\t%d\n", st.Uncategorized)
	}
	if row.AvgHeight != "" {
		fmt.Fprintf(tw, "  Avg grass height\t%s\n", row.AvgHeight)
	}
	tw.Flush()
}

func statsRow(st cover.Stats) templates.StatsRow {
	row := templates.StatsRow{
		Total:         st.Total,
		Bare:          pct(st.BarePct),
		Grass:         pct(st.GrassPct),
		Litter:        pct(st.LitterPct),
		ForbBush:      pct(st.ForbBushPct),
		Weed:          pct(st.WeedPct),
		Uncategorized: st.Uncategorized,
	}
	if st.AvgGrassHeight != nil {
		row.AvgHeight = fmt.Sprintf("%.1fin", *st.AvgGrassHeight)
	}
	return row
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func okIcon() string {
	return color.New(color.FgGreen).Sprint("✓")
}

func statusText(status string) string {
	if status == "complete" {
		return color.New(color.FgGreen).Sprint(status)
	}
	return color.New(color.FgYellow).Sprint(status)
}
