package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/pasturize/internal/adapters/cli"
)

var importCmd = &cobra.Command{
	Use:   "import [pasture-index] [file.csv]",
	Short: "Replace a pasture's foot marks from a CSV sheet",
	Long: `Import a pasture's transect from a CSV sheet, replacing what is recorded.
Use - to read the sheet from stdin.

Recognized columns: Foot Mark (or Line), Bare Ground, Grass Height, Grass Type,
Litter, Forb/Bush, Weed. Rows with a missing or out-of-range foot mark are skipped.

--forb-count splits marked forb rows: the first N (by foot mark) stay forb/bush,
the rest become weed.

Examples:
  pasturize import 1 home.csv
  pasturize import 4 east.csv --forb-count 6
  cat north.csv | pasturize import 2 -`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := indexArg(args[0])
		if err != nil {
			return err
		}
		forbCount, _ := cmd.Flags().GetInt("forb-count")

		var in io.Reader = cmd.InOrStdin()
		if args[1] != "-" {
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[1], err)
			}
			defer f.Close()
			in = f
		}

		return session.TransferAdapter(cmd.OutOrStdout()).Import(NewContext(cmd.Context()), reportRef(cmd), index, in, forbCount)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a report as zip, csv, xlsx or pdf",
	Long: `Export a report into the output directory.

Formats:
  zip   one CSV per pasture (default)
  csv   every pasture in one sheet, or one pasture with --pasture
  xlsx  workbook with a summary sheet and one sheet per pasture
  pdf   progress and cover summary

Examples:
  pasturize export
  pasturize export --format xlsx --out ~/Desktop
  pasturize export --format csv --pasture 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		pasture, _ := cmd.Flags().GetInt("pasture")
		out, _ := cmd.Flags().GetString("out")

		_, err := session.TransferAdapter(cmd.OutOrStdout()).Export(NewContext(cmd.Context()), reportRef(cmd), format, pasture, out)
		return err
	},
}

func init() {
	importCmd.Flags().Int("forb-count", -1, "Forb/bush count from the paper sheet (-1 keeps every forb row)")

	exportCmd.Flags().StringP("format", "f", cliadapter.FormatZip, "Export format: zip, csv, xlsx or pdf")
	exportCmd.Flags().IntP("pasture", "p", 0, "Pasture index for a single-pasture csv")
	exportCmd.Flags().StringP("out", "o", ".", "Output directory")
}

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	return importCmd
}

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	return exportCmd
}

func indexArg(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil || index < 1 {
		return 0, fmt.Errorf("pasture index must be a positive number, got %q", s)
	}
	return index, nil
}
