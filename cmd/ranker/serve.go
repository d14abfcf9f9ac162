package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for running and reading rankings.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: server.port from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	srvCfg := server.Config{
		Port:            cfg.Server.Port,
		RateLimit:       cfg.Server.RateLimit,
		RateWindow:      cfg.Server.RateWindow,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Clients:         cfg.Auth.Clients,
	}
	if servePort != 0 {
		srvCfg.Port = servePort
	}

	if cfg.AuthEnabled() {
		if srvCfg.JWT, err = cfg.JWT(); err != nil {
			return fmt.Errorf("failed to create JWT config: %w", err)
		}
		if srvCfg.Password, err = cfg.Password(); err != nil {
			return fmt.Errorf("failed to create password config: %w", err)
		}
	}

	srv, err := server.New(srvCfg, a.service, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
