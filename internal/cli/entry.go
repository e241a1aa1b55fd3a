package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Record and read foot marks",
	Long:  "Record the ground cover at a foot mark (1-100) of a pasture transect.",
}

var entrySetCmd = &cobra.Command{
	Use:   "set [pasture] [line] [category]",
	Short: "Record the cover at a foot mark",
	Long: `Record the cover at a foot mark. Recording a line again replaces it.

Categories: bare, grass, litter, forb_bush, weed, uncategorized.
--height and --type only apply to grass.

Examples:
  pasturize entry set 1 12 bare
  pasturize entry set 1 13 grass --height 4.5 --type GG
  pasturize entry set North 14 forb`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := lineArg(args[1])
		if err != nil {
			return err
		}

		var height *float64
		if cmd.Flags().Changed("height") {
			h, _ := cmd.Flags().GetFloat64("height")
			height = &h
		}
		grassType, _ := cmd.Flags().GetString("type")

		return session.EntryAdapter(cmd.OutOrStdout()).Set(NewContext(cmd.Context()), reportRef(cmd), args[0], line, args[2], height, grassType)
	},
}

var entryGetCmd = &cobra.Command{
	Use:   "get [pasture] [line]",
	Short: "Show the cover recorded at a foot mark",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := lineArg(args[1])
		if err != nil {
			return err
		}
		return session.EntryAdapter(cmd.OutOrStdout()).Get(NewContext(cmd.Context()), reportRef(cmd), args[0], line)
	},
}

var entryListCmd = &cobra.Command{
	Use:   "list [pasture]",
	Short: "List every recorded foot mark of a pasture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return session.EntryAdapter(cmd.OutOrStdout()).List(NewContext(cmd.Context()), reportRef(cmd), args[0])
	},
}

func init() {
	// entry set flags
	entrySetCmd.Flags().Float64("height", 0, "Grass height in inches")
	entrySetCmd.Flags().StringP("type", "t", "", "Grass type code")

	// Register subcommands
	entryCmd.AddCommand(entrySetCmd)
	entryCmd.AddCommand(entryGetCmd)
	entryCmd.AddCommand(entryListCmd)
}

// EntryCmd returns the entry command
func EntryCmd() *cobra.Command {
	return entryCmd
}

func lineArg(s string) (int, error) {
	line, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("foot mark must be a number, got %q", s)
	}
	return line, nil
}
