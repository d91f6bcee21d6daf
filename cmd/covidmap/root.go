package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"covidmap/internal/cases"
	"covidmap/internal/config"
	"covidmap/internal/geom"
	"covidmap/internal/logger"
	"covidmap/internal/scene"
	"covidmap/internal/source"
)

var rootCmd = &cobra.Command{
	Use:   "covidmap",
	Short: "Projected county map with case report playback",
	Long: `covidmap loads county boundaries, projects and triangulates them,
scatters sample points inside every county and replays daily case
reports as bursts on top of the map.

Settings come from flags, COVIDMAP_* environment variables and .env.`,
	SilenceUsage: true,
}

func init() {
	config.AddFlags(rootCmd.PersistentFlags(),
		"counties", "cases", "scene", "sample_count", "max_iterations", "workers", "seed",
		"fov", "aspect", "log_level", "log_format")
}

// loadConfig resolves settings for cmd and installs the logger on w.
func loadConfig(cmd *cobra.Command, w io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.Flags(), ".env")
	if err != nil {
		return config.Config{}, nil, err
	}
	l := logger.Setup(w, logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return cfg, l, nil
}

var httpClient = &http.Client{Timeout: 60 * time.Second}

// loadScene builds the scene from the county source, or decodes a prepared
// one when cfg.Scene is set.
func loadScene(ctx context.Context, cfg config.Config, l *slog.Logger) (*scene.Scene, error) {
	if cfg.Scene != "" {
		data, err := source.Read(ctx, httpClient, cfg.Scene)
		if err != nil {
			return nil, err
		}
		s, err := scene.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("scene %s: %w", cfg.Scene, err)
		}
		l.Info("scene_loaded", "src", cfg.Scene, "regions", len(s.Order))
		return s, nil
	}
	data, err := source.Read(ctx, httpClient, cfg.Counties)
	if err != nil {
		return nil, err
	}
	c, err := geom.LoadCounties(data)
	if err != nil {
		return nil, fmt.Errorf("counties %s: %w", cfg.Counties, err)
	}
	l.Info("counties_loaded", "src", cfg.Counties, "counties", len(c.Counties))
	return scene.Build(ctx, c, scene.Options{
		SampleCount:   cfg.SampleCount,
		MaxIterations: cfg.MaxIterations,
		Workers:       cfg.Workers,
		Seed:          cfg.Seed,
		FOV:           cfg.FOV,
		Aspect:        cfg.Aspect,
		Logger:        l,
	})
}

// loadTimeline reads case reports; no source means an empty timeline.
func loadTimeline(ctx context.Context, cfg config.Config, l *slog.Logger) (cases.Timeline, error) {
	if cfg.Cases == "" {
		return cases.Timeline{}, nil
	}
	data, err := source.Read(ctx, httpClient, cfg.Cases)
	if err != nil {
		return cases.Timeline{}, err
	}
	reports, err := cases.Load(data)
	if err != nil {
		return cases.Timeline{}, fmt.Errorf("cases %s: %w", cfg.Cases, err)
	}
	tl := cases.Group(reports)
	l.Info("cases_loaded", "src", cfg.Cases, "reports", len(reports), "days", len(tl.Days), "total", tl.Total())
	return tl, nil
}

func loadAll(ctx context.Context, cfg config.Config, l *slog.Logger) (*scene.Scene, cases.Timeline, error) {
	s, err := loadScene(ctx, cfg, l)
	if err != nil {
		return nil, cases.Timeline{}, err
	}
	tl, err := loadTimeline(ctx, cfg, l)
	if err != nil {
		return nil, cases.Timeline{}, err
	}
	return s, tl, nil
}
