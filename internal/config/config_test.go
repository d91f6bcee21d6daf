package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want %+v", cfg, Default())
	}
	if cfg.SampleCount != 15 || cfg.MaxIterations != 500 || cfg.Pacing != 200*time.Millisecond || cfg.Addr != ":8030" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("COVIDMAP_SAMPLE_COUNT", "7")
	t.Setenv("COVIDMAP_PACING", "50ms")
	t.Setenv("COVIDMAP_ADDR", ":9000")
	t.Setenv("LOG_LEVEL", "debug")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	if err := fs.Parse([]string{"--addr", ":7000", "--seed", "9"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(fs)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SampleCount != 7 || cfg.Pacing != 50*time.Millisecond {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Addr != ":7000" || cfg.Seed != 9 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadDotEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(p, []byte("COVIDMAP_WORKERS=3\nCOVIDMAP_CASES=cases.csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COVIDMAP_CASES", "from-env.json")
	t.Cleanup(func() { os.Unsetenv("COVIDMAP_WORKERS") })

	cfg, err := Load(nil, p, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 3 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if cfg.Cases != "from-env.json" {
		t.Errorf(".env overrode the environment: %q", cfg.Cases)
	}
}

func TestValidate(t *testing.T) {
	bad := []func(*Config){
		func(c *Config) { c.SampleCount = -1 },
		func(c *Config) { c.MaxIterations = 0 },
		func(c *Config) { c.Workers = -2 },
		func(c *Config) { c.Pacing = -time.Second },
	}
	for i, mod := range bad {
		c := Default()
		mod(&c)
		if c.Validate() == nil {
			t.Errorf("case %d accepted", i)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Error(err)
	}
}

func TestAddFlagsSubset(t *testing.T) {
	fs := pflag.NewFlagSet("x", pflag.ContinueOnError)
	AddFlags(fs, "addr", "out")
	if fs.Lookup("addr") == nil || fs.Lookup("out") == nil || fs.Lookup("cases") != nil {
		t.Error("unexpected flag set")
	}
	if fs.ShorthandLookup("o") == nil {
		t.Error("-o shorthand missing")
	}
}
