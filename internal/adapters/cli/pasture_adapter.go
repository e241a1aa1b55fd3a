package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/pasturize/internal/ports/primary"
)

// PastureAdapter translates CLI pasture operations to SurveyService and
// PopulateService calls. populate may be nil when populating is disabled.
type PastureAdapter struct {
	service  primary.SurveyService
	populate primary.PopulateService
	out      io.Writer
}

// NewPastureAdapter creates a new PastureAdapter.
func NewPastureAdapter(service primary.SurveyService, populate primary.PopulateService, out io.Writer) *PastureAdapter {
	return &PastureAdapter{
		service:  service,
		populate: populate,
		out:      out,
	}
}

// List lists a report's pastures with their progress.
func (a *PastureAdapter) List(ctx context.Context, reportRef string) error {
	report, err := ResolveReport(ctx, a.service, reportRef)
	if err != nil {
		return err
	}
	progress, err := a.service.ReportProgress(ctx, report.ID)
	if err != nil {
		return fmt.Errorf("failed to get progress: %w", err)
	}

	fmt.Fprintf(a.out, "Report: %s (%s)\n\n", report.Name, report.ID)
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tSTATUS\tLINES\tID")
	for _, pp := range progress.Pastures {
		p := pp.Pasture
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d/100\t%s\n", p.Index, p.Name, statusText(p.Status), pp.Recorded, p.ID)
	}
	return tw.Flush()
}

// Show prints a pasture's recorded foot marks and its cover statistics.
func (a *PastureAdapter) Show(ctx context.Context, reportRef, pastureRef string) error {
	p, err := ResolvePasture(ctx, a.service, reportRef, pastureRef)
	if err != nil {
		return err
	}
	entries, err := a.service.ListEntriesForPasture(ctx, p.ReportID, p.ID)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	stats, err := a.service.PastureStats(ctx, p.ReportID, p.ID)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	fmt.Fprintf(a.out, "Pasture %d: %s\n", p.Index, p.Name)
	fmt.Fprintf(a.out, "ID:     %s\n", p.ID)
	fmt.Fprintf(a.out, "Status: %s\n", statusText(p.Status))
	fmt.Fprintf(a.out, "Lines:  %d/100\n", len(entries))

	if len(entries) > 0 {
		fmt.Fprintln(a.out)
		writeEntries(a.out, entries)
	}
	writeStats(a.out, "Cover", stats)
	return nil
}

// Complete marks a pasture complete.
func (a *PastureAdapter) Complete(ctx context.Context, reportRef, pastureRef string, force bool) error {
	p, err := ResolvePasture(ctx, a.service, reportRef, pastureRef)
	if err != nil {
		return err
	}
	if err := a.service.CompletePasture(ctx, p.ID, force); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Pasture %d (%s) marked complete\n", okIcon(), p.Index, p.Name)
	return nil
}

// Reopen moves a complete pasture back to in_progress.
func (a *PastureAdapter) Reopen(ctx context.Context, reportRef, pastureRef string) error {
	p, err := ResolvePasture(ctx, a.service, reportRef, pastureRef)
	if err != nil {
		return err
	}
	if err := a.service.ReopenPasture(ctx, p.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Pasture %d (%s) reopened\n", okIcon(), p.Index, p.Name)
	return nil
}

// Populate fills one pasture, or every pasture of the report when
// pastureRef is empty, with generated foot marks.
func (a *PastureAdapter) Populate(ctx context.Context, reportRef, pastureRef string) error {
	if a.populate == nil {
		return fmt.Errorf("%w: populate is only available in testing mode (set testing: true or PASTURIZE_TESTING=1)", primary.ErrNotAllowed)
	}

	if pastureRef == "" {
		report, err := ResolveReport(ctx, a.service, reportRef)
		if err != nil {
			return err
		}
		if err := a.populate.PopulateReport(ctx, report.ID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s Populated every pasture of %s\n", okIcon(), report.Name)
		return nil
	}

	p, err := ResolvePasture(ctx, a.service, reportRef, pastureRef)
	if err != nil {
		return err
	}
	if err := a.populate.PopulatePasture(ctx, p.ReportID, p.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Populated pasture %d (%s)\n", okIcon(), p.Index, p.Name)
	return nil
}

func writeEntries(out io.Writer, entries []*primary.Entry) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tCOVER\tUPDATED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.LineNo, e.Category, e.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}
