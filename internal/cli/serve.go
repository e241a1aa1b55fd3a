package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: `Serve the survey JSON API under /api/v1 until interrupted.
The listen address comes from --addr, PASTURIZE_HTTP_ADDR or http_addr in config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = session.Config.HTTPAddr
		}

		ctx, stop := signal.NotifyContext(NewContext(cmd.Context()), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := session.HTTPServer()
		logger := session.Logger

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Start(addr)
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			logger.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (host:port)")
}

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return serveCmd
}
