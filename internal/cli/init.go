package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/pasturize/internal/config"
	"github.com/example/pasturize/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Initialize the pasturize home directory",
		Long:        `Write a default config.yaml into the home directory and create the database with the current schema.`,
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.Load(homeDir)
			if err != nil {
				return err
			}

			path := filepath.Join(cfg.Home, config.FileName)
			_, statErr := os.Stat(path)
			switch {
			case statErr == nil && !force:
				fmt.Fprintf(out, "✓ Config already exists at %s (use --force to overwrite)\n", path)
			case statErr == nil || errors.Is(statErr, fs.ErrNotExist):
				defaults, err := config.Defaults()
				if err != nil {
					return err
				}
				defaults.Home = cfg.Home
				if err := config.Save(defaults); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Wrote %s\n", path)
			default:
				return fmt.Errorf("failed to check %s: %w", path, statErr)
			}

			database, err := db.Open(cmd.Context(), cfg.DBPath, nil)
			if err != nil {
				return err
			}
			defer database.Close()
			fmt.Fprintf(out, "✓ Database ready at %s\n", cfg.DBPath)

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, `  pasturize report create "Fall Survey"`)
			fmt.Fprintln(out, "  pasturize pasture list")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config.yaml with the defaults")

	return cmd
}
