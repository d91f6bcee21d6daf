package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"covidmap/internal/cases"
	"covidmap/internal/config"
	"covidmap/internal/logger"
	"covidmap/internal/scene"
	"covidmap/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the terminal map viewer",
	RunE:  runView,
}

func init() {
	config.AddFlags(viewCmd.Flags(), "pacing", "spacing", "log_file")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags(), ".env")
	if err != nil {
		return err
	}
	// the viewer owns the terminal, so logs go to a file
	f, err := tea.LogToFile(cfg.LogFile, "covidmap")
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	defer f.Close()
	l := logger.Setup(f, logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	m := tui.New(tui.Options{
		Load: func(ctx context.Context) (*scene.Scene, cases.Timeline, error) {
			return loadAll(ctx, cfg, l)
		},
		Pacing:  cfg.Pacing,
		Spacing: cfg.Spacing,
		Seed:    cfg.Seed,
		Logger:  l,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
