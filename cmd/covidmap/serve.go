package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"covidmap/internal/config"
	"covidmap/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scene over HTTP and stream playback over a websocket",
	RunE:  runServe,
}

func init() {
	config.AddFlags(serveCmd.Flags(), "addr", "pacing")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadConfig(cmd, os.Stderr)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, tl, err := loadAll(ctx, cfg, l)
	if err != nil {
		return err
	}
	srv := server.New(s, tl, server.Options{Pacing: cfg.Pacing, Seed: cfg.Seed, Logger: l})
	return srv.ListenAndServe(ctx, cfg.Addr)
}
