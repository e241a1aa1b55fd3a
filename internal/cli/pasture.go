package cli

import (
	"github.com/spf13/cobra"
)

var pastureCmd = &cobra.Command{
	Use:   "pasture",
	Short: "Inspect and complete pastures",
	Long: `Pastures are addressed by index within the report (1, 2, ...) or by ID.
The report defaults to the most recent one; pick another with --report.`,
}

var pastureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the pastures of a report with recorded lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		return session.PastureAdapter(cmd.OutOrStdout()).List(NewContext(cmd.Context()), reportRef(cmd))
	},
}

var pastureShowCmd = &cobra.Command{
	Use:   "show [pasture]",
	Short: "Show a pasture's foot marks and cover statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return session.PastureAdapter(cmd.OutOrStdout()).Show(NewContext(cmd.Context()), reportRef(cmd), args[0])
	},
}

var pastureCompleteCmd = &cobra.Command{
	Use:   "complete [pasture]",
	Short: "Mark a pasture complete",
	Long: `Mark a pasture complete. Complete pastures reject further edits until reopened.
A pasture with fewer than 100 recorded lines needs --force.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return session.PastureAdapter(cmd.OutOrStdout()).Complete(NewContext(cmd.Context()), reportRef(cmd), args[0], force)
	},
}

var pastureReopenCmd = &cobra.Command{
	Use:   "reopen [pasture]",
	Short: "Reopen a complete pasture for editing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return session.PastureAdapter(cmd.OutOrStdout()).Reopen(NewContext(cmd.Context()), reportRef(cmd), args[0])
	},
}

var pasturePopulateCmd = &cobra.Command{
	Use:   "populate [pasture]",
	Short: "Fill pastures with generated foot marks (testing mode only)",
	Long: `Replace a pasture's foot marks with 100 generated lines and mark it complete.
Without a pasture every pasture of the report is populated.
Only available with testing: true in config.yaml or PASTURIZE_TESTING=1.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pasture := ""
		if len(args) == 1 {
			pasture = args[0]
		}
		return session.PastureAdapter(cmd.OutOrStdout()).Populate(NewContext(cmd.Context()), reportRef(cmd), pasture)
	},
}

func init() {
	// pasture complete flags
	pastureCompleteCmd.Flags().BoolP("force", "f", false, "Complete even with fewer than 100 recorded lines")

	// Register subcommands
	pastureCmd.AddCommand(pastureListCmd)
	pastureCmd.AddCommand(pastureShowCmd)
	pastureCmd.AddCommand(pastureCompleteCmd)
	pastureCmd.AddCommand(pastureReopenCmd)
	pastureCmd.AddCommand(pasturePopulateCmd)
}

// PastureCmd returns the pasture command
func PastureCmd() *cobra.Command {
	return pastureCmd
}
