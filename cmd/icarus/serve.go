// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ashr-exe/icarus-insight/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the research API over HTTP",
	Long: `Serve starts the HTTP API:

  POST /api/v1/research   run a query ({"query": "...", "filters": {...}})
  GET  /api/v1/runs       list archived runs
  GET  /api/v1/runs/:id   fetch an archived run (?format=md|html|csv|csl|yaml)
  GET  /healthz           liveness

Runs are archived when the store is enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ctrl, err := newController(ctx)
		if err != nil {
			return err
		}
		opts := server.Options{Runner: ctrl, RunTimeout: cfg.Server.RunTimeout, Logger: logger}

		st, err := openStore(false)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
			opts.Archive = st
		}

		srv := server.New(opts)
		errc := make(chan error, 1)
		go func() { errc <- srv.Start(cfg.Server.Addr) }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down server", "err", err)
			return err
		}
		return <-errc
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
