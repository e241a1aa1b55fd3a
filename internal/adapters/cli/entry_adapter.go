package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/pasturize/internal/core/cover"
	"github.com/example/pasturize/internal/ports/primary"
)

// EntryAdapter translates CLI foot-mark operations to SurveyService calls.
type EntryAdapter struct {
	service primary.SurveyService
	out     io.Writer
}

// NewEntryAdapter creates a new EntryAdapter.
func NewEntryAdapter(service primary.SurveyService, out io.Writer) *EntryAdapter {
	return &EntryAdapter{
		service: service,
		out:     out,
	}
}

// Set records the cover at a foot mark. height and grassType only apply to
// grass; a nil height means not measured.
func (a *EntryAdapter) Set(ctx context.Context, reportRef, pastureRef string, lineNo int, kind string, height *float64, grassType string) error {
	category, err := BuildCategory(kind, height, grassType)
	if err != nil {
		return err
	}

	p, err := ResolvePasture(ctx, a.service, reportRef, pastureRef)
	if err != nil {
		return err
	}

	if _, err := a.service.SaveEntry(ctx, primary.SaveEntryRequest{
		ReportID:  p.ReportID,
		PastureID: p.ID,
		LineNo:    lineNo,
		Category:  category,
	}); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s foot mark %d: %s\n", okIcon(), p.Name, lineNo, category)
	return nil
}

// Get prints the cover recorded at a foot mark.
func (a *EntryAdapter) Get(ctx context.Context, reportRef, pastureRef string, lineNo int) error {
	p, err := ResolvePasture(ctx, a.service, reportRef, pastureRef)
	if err != nil {
		return err
	}

	entry, err := a.service.GetEntryByLine(ctx, p.ReportID, p.ID, lineNo)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}
	if entry == nil {
		fmt.Fprintf(a.out, "%s foot mark %d: not recorded\n", p.Name, lineNo)
		return nil
	}
	fmt.Fprintf(a.out, "%s foot mark %d: %s\n", p.Name, lineNo, entry.Category)
	return nil
}

// List prints every recorded foot mark of a pasture.
func (a *EntryAdapter) List(ctx context.Context, reportRef, pastureRef string) error {
	p, err := ResolvePasture(ctx, a.service, reportRef, pastureRef)
	if err != nil {
		return err
	}

	entries, err := a.service.ListEntriesForPasture(ctx, p.ReportID, p.ID)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No foot marks recorded")
		return nil
	}
	writeEntries(a.out, entries)
	return nil
}

// BuildCategory turns CLI arguments into a category.
func BuildCategory(kind string, height *float64, grassType string) (cover.Category, error) {
	k, err := cover.ParseKind(kind)
	if err != nil {
		return cover.Category{}, fmt.Errorf("%w: %v (expected one of %s)", primary.ErrInvalidInput, err, kindNames())
	}
	grassType = strings.ToUpper(strings.TrimSpace(grassType))
	if k == cover.KindGrass {
		return cover.Grass(height, grassType), nil
	}
	if height != nil || grassType != "" {
		return cover.Category{}, fmt.Errorf("%w: --height and --type only apply to grass", primary.ErrInvalidInput)
	}
	return cover.Category{Kind: k}, nil
}

func kindNames() string {
	names := make([]string, len(cover.Kinds))
	for i, k := range cover.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
