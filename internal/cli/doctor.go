package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/pasturize/internal/config"
	"github.com/example/pasturize/internal/db"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the pasturize environment",
		Long: `Health check for pasturize.

Validates:
- Configuration (config.yaml, environment overrides, pasture template)
- Home directory
- Database connection and schema version
- Testing mode

Examples:
  pasturize doctor              # Run full health check
  pasturize doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			results := runChecks(cmd.Context(), homeDir)

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				printResults(cmd.OutOrStdout(), results, hasErrors)
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// runChecks runs every check. Later checks are skipped when the config
// cannot be loaded.
func runChecks(ctx context.Context, home string) []CheckResult {
	cfg, err := config.Load(home)
	if err != nil {
		return []CheckResult{{Name: "Config", Status: "✗", Details: "  " + err.Error()}}
	}

	return []CheckResult{
		{Name: "Config", Status: "✓"},
		checkHome(cfg),
		checkDatabase(ctx, cfg),
		checkTesting(cfg),
	}
}

func printResults(out io.Writer, results []CheckResult, hasErrors bool) {
	// Print compact table
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Check              Status")
	fmt.Fprintln(out, "─────────────────────────")
	for _, r := range results {
		fmt.Fprintf(out, "%-18s %s\n", r.Name, r.Status)
	}
	fmt.Fprintln(out)

	// Print details for non-passing checks
	hasDetails := false
	for _, r := range results {
		if r.Status != "✓" && r.Details != "" {
			if !hasDetails {
				fmt.Fprintln(out, "Details:")
				hasDetails = true
			}
			fmt.Fprintf(out, "\n%s:\n%s\n", r.Name, r.Details)
		}
	}

	if hasErrors {
		fmt.Fprintln(out, "\n⚠ Issues found. Run 'pasturize init' to create the home directory and database.")
	} else {
		fmt.Fprintln(out, "All checks passed.")
	}
}

// checkHome validates the home directory exists and holds a config file
func checkHome(cfg *config.Config) CheckResult {
	info, err := os.Stat(cfg.Home)
	if err != nil {
		return CheckResult{Name: "Home", Status: "✗", Details: "  Missing: " + cfg.Home}
	}
	if !info.IsDir() {
		return CheckResult{Name: "Home", Status: "✗", Details: "  Not a directory: " + cfg.Home}
	}
	if _, err := os.Stat(filepath.Join(cfg.Home, config.FileName)); err != nil {
		return CheckResult{
			Name:    "Home",
			Status:  "⚠",
			Details: fmt.Sprintf("  No %s in %s, using built-in defaults", config.FileName, cfg.Home),
		}
	}
	return CheckResult{Name: "Home", Status: "✓"}
}

// checkDatabase opens an existing database and compares its schema version
func checkDatabase(ctx context.Context, cfg *config.Config) CheckResult {
	if _, err := os.Stat(cfg.DBPath); err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  Missing: " + cfg.DBPath}
	}

	database, err := db.Open(ctx, cfg.DBPath, nil)
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}
	defer database.Close()

	current, err := db.CurrentVersion(ctx, database)
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}
	if latest := db.LatestVersion(); current != latest {
		return CheckResult{
			Name:    "Database",
			Status:  "✗",
			Details: fmt.Sprintf("  Schema version %d, expected %d", current, latest),
		}
	}
	return CheckResult{Name: "Database", Status: "✓"}
}

// checkTesting warns when populate commands are enabled
func checkTesting(cfg *config.Config) CheckResult {
	if cfg.Testing {
		return CheckResult{
			Name:    "Testing mode",
			Status:  "⚠",
			Details: "  Populate commands are enabled and overwrite recorded data",
		}
	}
	return CheckResult{Name: "Testing mode", Status: "✓"}
}
