// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RegionsBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "covidmap_regions_built_total",
		Help: "Regions that produced at least one mesh",
	})
	RegionsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "covidmap_regions_skipped_total",
		Help: "Regions omitted because no part could be triangulated",
	})
	PartsFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "covidmap_parts_failed_total",
		Help: "Polygon parts that failed extraction, by reason",
	}, []string{"reason"})
	SamplingExhaustedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "covidmap_sampling_exhausted_total",
		Help: "Sample points accepted after the iteration cap",
	})
	SamplingFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "covidmap_sampling_fallback_total",
		Help: "Regions sampled to their bounds center only",
	})
	StageDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "covidmap_stage_duration_seconds",
		Help:    "Pipeline stage duration in seconds",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"stage"})
	FramesSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "covidmap_playback_frames_total",
		Help: "Playback frames emitted",
	})
	PlaybackSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "covidmap_playback_sessions",
		Help: "Open playback websocket sessions",
	})
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "covidmap_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "covidmap_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(RegionsBuiltTotal)
	prometheus.MustRegister(RegionsSkippedTotal)
	prometheus.MustRegister(PartsFailedTotal)
	prometheus.MustRegister(SamplingExhaustedTotal)
	prometheus.MustRegister(SamplingFallbackTotal)
	prometheus.MustRegister(StageDurationSeconds)
	prometheus.MustRegister(FramesSentTotal)
	prometheus.MustRegister(PlaybackSessions)
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
}

// Handler serves the default registry for scraping.
func Handler() http.Handler { return promhttp.Handler() }
