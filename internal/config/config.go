// Package config resolves settings from flags, COVIDMAP_* environment
// variables, .env files and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "COVIDMAP"

type Config struct {
	Counties      string        `mapstructure:"counties"`
	Cases         string        `mapstructure:"cases"`
	Scene         string        `mapstructure:"scene"`
	SampleCount   int           `mapstructure:"sample_count"`
	MaxIterations int           `mapstructure:"max_iterations"`
	Workers       int           `mapstructure:"workers"`
	Seed          int64         `mapstructure:"seed"`
	Pacing        time.Duration `mapstructure:"pacing"`
	Spacing       float64       `mapstructure:"spacing"`
	FOV           float64       `mapstructure:"fov"`
	Aspect        float64       `mapstructure:"aspect"`
	Addr          string        `mapstructure:"addr"`
	Out           string        `mapstructure:"out"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFormat     string        `mapstructure:"log_format"`
	LogFile       string        `mapstructure:"log_file"`
}

// Default is the configuration with nothing set.
func Default() Config {
	return Config{
		Counties:      "data/landkreise.json",
		Cases:         "",
		SampleCount:   15,
		MaxIterations: 500,
		Workers:       1,
		Pacing:        200 * time.Millisecond,
		Spacing:       6,
		FOV:           0.8,
		Aspect:        1,
		Addr:          ":8030",
		Out:           "scene.json",
		LogLevel:      "info",
		LogFormat:     "text",
		LogFile:       "covidmap.log",
	}
}

var usage = map[string]string{
	"counties":       "county GeoJSON path or URL",
	"cases":          "case GeoJSON/CSV path or URL",
	"scene":          "prepared scene file; skips county processing",
	"sample_count":   "sample points per county",
	"max_iterations": "rejection sampling attempts per point",
	"workers":        "concurrent county builds",
	"seed":           "random seed (0 = clock)",
	"pacing":         "minimum duration of one report day",
	"spacing":        "poisson-disc spacing for county texture in the viewer",
	"fov":            "camera field of view in radians",
	"aspect":         "camera aspect ratio",
	"addr":           "HTTP listen address",
	"out":            "output file for prepare",
	"log_level":      "debug|info|warn|error",
	"log_format":     "text|json",
	"log_file":       "log file while the viewer owns the terminal",
}

func flagName(key string) string { return strings.ReplaceAll(key, "_", "-") }

// AddFlags registers one flag per key on fs. keys defaults to every key.
func AddFlags(fs *pflag.FlagSet, keys ...string) {
	d := Default()
	if len(keys) == 0 {
		keys = Keys()
	}
	for _, k := range keys {
		name, help := flagName(k), usage[k]
		switch k {
		case "counties":
			fs.String(name, d.Counties, help)
		case "cases":
			fs.String(name, d.Cases, help)
		case "scene":
			fs.String(name, d.Scene, help)
		case "sample_count":
			fs.Int(name, d.SampleCount, help)
		case "max_iterations":
			fs.Int(name, d.MaxIterations, help)
		case "workers":
			fs.Int(name, d.Workers, help)
		case "seed":
			fs.Int64(name, d.Seed, help)
		case "pacing":
			fs.Duration(name, d.Pacing, help)
		case "spacing":
			fs.Float64(name, d.Spacing, help)
		case "fov":
			fs.Float64(name, d.FOV, help)
		case "aspect":
			fs.Float64(name, d.Aspect, help)
		case "addr":
			fs.String(name, d.Addr, help)
		case "out":
			fs.StringP(name, "o", d.Out, help)
		case "log_level":
			fs.String(name, d.LogLevel, help)
		case "log_format":
			fs.String(name, d.LogFormat, help)
		case "log_file":
			fs.String(name, d.LogFile, help)
		}
	}
}

// Keys lists every setting name.
func Keys() []string {
	return []string{
		"counties", "cases", "scene", "sample_count", "max_iterations", "workers", "seed",
		"pacing", "spacing", "fov", "aspect", "addr", "out",
		"log_level", "log_format", "log_file",
	}
}

// Load merges the sources. envFiles are read with godotenv and never override
// variables already set; missing files are ignored. fs may be nil.
func Load(fs *pflag.FlagSet, envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("counties", d.Counties)
	v.SetDefault("cases", d.Cases)
	v.SetDefault("scene", d.Scene)
	v.SetDefault("sample_count", d.SampleCount)
	v.SetDefault("max_iterations", d.MaxIterations)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("pacing", d.Pacing)
	v.SetDefault("spacing", d.Spacing)
	v.SetDefault("fov", d.FOV)
	v.SetDefault("aspect", d.Aspect)
	v.SetDefault("addr", d.Addr)
	v.SetDefault("out", d.Out)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("log_file", d.LogFile)
	// the plain LOG_* names are honoured as well
	_ = v.BindEnv("log_level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("log_format", EnvPrefix+"_LOG_FORMAT", "LOG_FORMAT")

	if fs != nil {
		for _, k := range Keys() {
			if f := fs.Lookup(flagName(k)); f != nil {
				if err := v.BindPFlag(k, f); err != nil {
					return Config{}, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.SampleCount < 0:
		return fmt.Errorf("sample count %d must be >= 0", c.SampleCount)
	case c.MaxIterations < 1:
		return fmt.Errorf("max iterations %d must be >= 1", c.MaxIterations)
	case c.Workers < 0:
		return fmt.Errorf("workers %d must be >= 0", c.Workers)
	case c.Pacing < 0:
		return fmt.Errorf("pacing %s must be >= 0", c.Pacing)
	case c.Spacing < 0:
		return fmt.Errorf("spacing %v must be >= 0", c.Spacing)
	}
	return nil
}
