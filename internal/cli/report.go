package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage survey reports",
	Long:  "Create, list, show and delete survey reports. A report holds one transect per pasture.",
}

var reportCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a report with every configured pasture",
	Long: `Create a new report. Pastures are seeded from the configured template.
A blank name becomes "Survey <date>".

Examples:
  pasturize report create "Fall 2025"
  pasturize report create`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		_, err := session.ReportAdapter(cmd.OutOrStdout()).Create(NewContext(cmd.Context()), name)
		return err
	},
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return session.ReportAdapter(cmd.OutOrStdout()).List(NewContext(cmd.Context()))
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show [report-id]",
	Short: "Show a report with per-pasture progress",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return session.ReportAdapter(cmd.OutOrStdout()).Show(NewContext(cmd.Context()), argOrReport(cmd, args))
	},
}

var reportStatusCmd = &cobra.Command{
	Use:   "status [in_progress|complete]",
	Short: "Set the status of a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return session.ReportAdapter(cmd.OutOrStdout()).SetStatus(NewContext(cmd.Context()), reportRef(cmd), args[0])
	},
}

var reportDeleteCmd = &cobra.Command{
	Use:   "delete [report-id]",
	Short: "Delete a report with its pastures and foot marks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return session.ReportAdapter(cmd.OutOrStdout()).Delete(NewContext(cmd.Context()), args[0])
	},
}

var reportWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete every report",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to delete every report without --yes")
		}
		return session.ReportAdapter(cmd.OutOrStdout()).Wipe(NewContext(cmd.Context()))
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [pasture]",
	Short: "Show cover statistics for a report or one pasture",
	Long: `Show ground-cover percentages and average grass height.
Without a pasture the statistics cover every pasture of the report.

Examples:
  pasturize stats
  pasturize stats 3
  pasturize stats --report 6f1c... 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pasture := ""
		if len(args) == 1 {
			pasture = args[0]
		}
		return session.ReportAdapter(cmd.OutOrStdout()).Stats(NewContext(cmd.Context()), reportRef(cmd), pasture)
	},
}

func init() {
	// report wipe flags
	reportWipeCmd.Flags().Bool("yes", false, "Confirm deleting every report")

	// Register subcommands
	reportCmd.AddCommand(reportCreateCmd)
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportStatusCmd)
	reportCmd.AddCommand(reportDeleteCmd)
	reportCmd.AddCommand(reportWipeCmd)
}

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	return reportCmd
}

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return statsCmd
}

// argOrReport prefers a positional report ID over --report.
func argOrReport(cmd *cobra.Command, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return reportRef(cmd)
}

