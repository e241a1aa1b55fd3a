// Package cli provides CLI commands for the pasturize application.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/pasturize/internal/config"
	"github.com/example/pasturize/internal/ctxutil"
	"github.com/example/pasturize/internal/logging"
	"github.com/example/pasturize/internal/wire"
)

// skipApp marks commands that run without opening the database.
const skipApp = "pasturize/skip-app"

// session is the wired application for the current CLI invocation.
// Set once by setup in PersistentPreRunE and released by Shutdown.
var session *wire.App

var (
	homeDir string
	verbose bool
)

// Bootstrap installs the global flags and the hooks that load config, build
// the logger and open the database before any command runs.
func Bootstrap(root *cobra.Command) {
	root.PersistentFlags().StringVar(&homeDir, "home", "", "Data directory (default $PASTURIZE_HOME or ~/.pasturize)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	root.PersistentFlags().StringP("report", "r", "", "Report ID (defaults to the latest report)")
	root.PersistentPreRunE = setup
	root.SilenceUsage = true
	root.SilenceErrors = true
}

func setup(cmd *cobra.Command, args []string) error {
	if !needsApp(cmd) {
		return nil
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(homeDir)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, verbose)
	if err != nil {
		return err
	}

	a, err := wire.New(cmd.Context(), cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return err
	}
	session = a

	logger.Debug("session ready", zap.String("home", cfg.Home), zap.String("db", cfg.DBPath))
	return nil
}

// Shutdown closes the database and flushes the logger. Safe to call when no
// command opened a session.
func Shutdown() {
	if session == nil {
		return
	}
	if err := session.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to close database: %v\n", err)
	}
	_ = session.Logger.Sync()
	session = nil
}

// NewContext returns ctx with the CLI actor embedded.
// Commands should use this instead of cmd.Context() directly.
func NewContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctxutil.WithActorID(ctx, actorID())
}

func actorID() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return ctxutil.ActorCLIPrefix + u.Username
	}
	return "cli"
}

func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipApp] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// reportRef returns the --report flag value.
func reportRef(cmd *cobra.Command) string {
	ref, _ := cmd.Flags().GetString("report")
	return ref
}
