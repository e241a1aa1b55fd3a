package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/pasturize/internal/cli"
	"github.com/example/pasturize/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "pasturize",
		Short:   "Pasturize - ground-cover transect surveys",
		Version: version.String(),
		Long: `Pasturize records ground-cover transect surveys: one report per survey,
one pasture per transect, 100 foot marks per pasture. Data lives in a local
SQLite database and exports to zip, csv, xlsx and pdf.`,
	}
	cli.Bootstrap(rootCmd)

	// Setup
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())

	// Survey data
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.PastureCmd())
	rootCmd.AddCommand(cli.EntryCmd())
	rootCmd.AddCommand(cli.StatsCmd())

	// Transfer
	rootCmd.AddCommand(cli.ImportCmd())
	rootCmd.AddCommand(cli.ExportCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	err := rootCmd.Execute()
	cli.Shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
