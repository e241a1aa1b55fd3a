// Package pasture contains the pure business logic for pasture operations.
// Guards are pure functions that evaluate preconditions without side effects.
package pasture

import "fmt"

// Status values for reports and pastures.
const (
	StatusInProgress = "in_progress"
	StatusComplete   = "complete"
)

// LinesPerPasture is the number of foot marks on a transect.
const LinesPerPasture = 100

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// WriteEntryContext provides context for entry write guards.
type WriteEntryContext struct {
	PastureID       string
	PastureExists   bool
	PastureReportID string
	ReportID        string
	PastureStatus   string
	LineNo          int
}

// CompleteContext provides context for the completion guard.
type CompleteContext struct {
	PastureID     string
	Status        string
	RecordedLines int
	Force         bool
}

// StatusContext provides context for reopen guards.
type StatusContext struct {
	PastureID string
	Status    string
}

// IsValidStatus reports whether s is a known status value.
func IsValidStatus(s string) bool {
	return s == StatusInProgress || s == StatusComplete
}

// CanWriteEntry evaluates whether a foot mark may be recorded.
// Rules:
// - Pasture must exist and belong to the report
// - Line must be within 1..100
// - Pasture must not be complete (reopen first)
func CanWriteEntry(ctx WriteEntryContext) GuardResult {
	if !ctx.PastureExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("pasture %s not found", ctx.PastureID),
		}
	}

	if ctx.PastureReportID != ctx.ReportID {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("pasture %s does not belong to report %s", ctx.PastureID, ctx.ReportID),
		}
	}

	if ctx.LineNo < 1 || ctx.LineNo > LinesPerPasture {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("foot mark %d out of range (1-%d)", ctx.LineNo, LinesPerPasture),
		}
	}

	if ctx.PastureStatus == StatusComplete {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("pasture %s is complete. Reopen it first with: pasturize pasture reopen %s", ctx.PastureID, ctx.PastureID),
		}
	}

	return GuardResult{Allowed: true}
}

// CanCompletePasture evaluates whether a pasture can be marked complete.
// Rules:
// - Pasture must not already be complete
// - Fewer than 100 recorded lines requires force
func CanCompletePasture(ctx CompleteContext) GuardResult {
	if ctx.Status == StatusComplete {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("pasture %s is already complete", ctx.PastureID),
		}
	}

	if ctx.RecordedLines < LinesPerPasture && !ctx.Force {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("pasture %s has only %d of %d foot marks recorded. Use --force to complete anyway",
				ctx.PastureID, ctx.RecordedLines, LinesPerPasture),
		}
	}

	return GuardResult{Allowed: true}
}

// CanReopenPasture evaluates whether a pasture can be reopened.
// Rules:
// - Status must be "complete"
func CanReopenPasture(ctx StatusContext) GuardResult {
	if ctx.Status != StatusComplete {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only reopen complete pastures (current status: %s)", ctx.Status),
		}
	}

	return GuardResult{Allowed: true}
}
