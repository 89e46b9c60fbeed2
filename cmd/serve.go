/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AzerQ/sed-notifications/internal/server"
	"github.com/AzerQ/sed-notifications/internal/store"
)

var (
	serveAddr       string
	serveDB         string
	serveAllOrigins bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference notification backend",
	Long: `Run the reference notification backend.

Serves the paginated notification API over HTTP and broadcasts new
notifications and read-state changes to connected clients over
WebSocket. State is persisted in a sqlite database.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "sqlite database path (overrides config)")
	serveCmd.Flags().BoolVar(&serveAllOrigins, "allow-all-origins", false, "relax CORS to any origin")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg := loadedCfg.Server
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if serveDB != "" {
		cfg.DatabasePath = serveDB
	}
	if serveAllOrigins {
		cfg.AllowAllOrigins = true
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Info("store opened", "path", cfg.DatabasePath)

	srv := server.New(server.Config{
		Addr:            cfg.Addr,
		AllowAllOrigins: cfg.AllowAllOrigins,
	}, st, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
