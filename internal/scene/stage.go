package scene

import (
	"log/slog"
	"time"

	"covidmap/internal/metrics"
)

// stage logs the start of a pipeline stage and returns the matching done func.
func stage(l *slog.Logger, name string) func(attrs ...any) {
	t0 := time.Now()
	l.Info("stage_start", "stage", name)
	return func(attrs ...any) {
		el := time.Since(t0)
		metrics.StageDurationSeconds.WithLabelValues(name).Observe(el.Seconds())
		l.Info("stage_done", append([]any{"stage", name, "elapsed_s", roundTenth(el.Seconds())}, attrs...)...)
	}
}

func roundTenth(s float64) float64 {
	return float64(int64(s*10+0.5)) / 10
}
