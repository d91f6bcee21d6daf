package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupFormats(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, Options{Level: "info", Format: "json"})
	l.Info("stage_done", "stage", "project")
	l.Debug("hidden")
	out := buf.String()
	if !strings.Contains(out, `"msg":"stage_done"`) || !strings.Contains(out, `"stage":"project"`) {
		t.Errorf("unexpected json output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record leaked at info level")
	}
	if L() != l {
		t.Errorf("L() did not return the installed logger")
	}

	buf.Reset()
	Setup(&buf, Options{Level: "debug"}).Debug("part_skipped", "part", "1001-0")
	if !strings.Contains(buf.String(), "msg=part_skipped") {
		t.Errorf("unexpected text output: %s", buf.String())
	}
}
