package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"covidmap/internal/config"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Build the scene once and write it as JSON",
	Long: `prepare projects, triangulates and samples the counties and writes
the result to --out. Later runs pass it back with --scene.`,
	RunE: runPrepare,
}

func init() {
	config.AddFlags(prepareCmd.Flags(), "out")
	rootCmd.AddCommand(prepareCmd)
}

func runPrepare(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadConfig(cmd, os.Stderr)
	if err != nil {
		return err
	}
	s, err := loadScene(cmd.Context(), cfg, l)
	if err != nil {
		return err
	}
	data, err := s.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Out, err)
	}
	st := s.Stats
	l.Info("scene_written", "out", cfg.Out, "bytes", len(data),
		"regions", st.Regions, "meshes", st.Meshes, "failed_parts", st.FailedParts, "skipped", st.SkippedRegions)
	return nil
}
