// Package server exposes a prepared scene over HTTP and streams case
// playback over a websocket.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"covidmap/internal/cases"
	"covidmap/internal/logger"
	"covidmap/internal/metrics"
	"covidmap/internal/playback"
	"covidmap/internal/scene"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Options struct {
	// Pacing is the default day duration; a request may override it.
	Pacing time.Duration
	// Seed feeds per-session burst selection; zero seeds from the clock.
	Seed   int64
	Logger *slog.Logger
}

type Server struct {
	scene    *scene.Scene
	timeline cases.Timeline
	opts     Options
	log      *slog.Logger
	router   *mux.Router
}

func New(s *scene.Scene, tl cases.Timeline, opts Options) *Server {
	l := opts.Logger
	if l == nil {
		l = logger.L()
	}
	if opts.Pacing <= 0 {
		opts.Pacing = playback.DefaultPacing
	}
	srv := &Server{scene: s, timeline: tl, opts: opts, log: l, router: mux.NewRouter()}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.instrument)
	api.HandleFunc("/scene", s.handleScene).Methods(http.MethodGet)
	api.HandleFunc("/regions", s.handleRegions).Methods(http.MethodGet)
	api.HandleFunc("/regions/{ags:[0-9]+}", s.handleRegion).Methods(http.MethodGet)
	api.HandleFunc("/days", s.handleDays).Methods(http.MethodGet)

	s.router.HandleFunc("/ws/playback", s.handlePlayback)
	s.router.Handle("/metrics", metrics.Handler())
	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Handler is the router wrapped with CORS and panic recovery.
func (s *Server) Handler() http.Handler {
	headersOk := handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "HEAD", "OPTIONS"})
	return handlers.RecoveryHandler()(handlers.CORS(originsOk, headersOk, methodsOk)(s.router))
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("server_listen", "addr", addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("server_stopped")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		t0 := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		dur := time.Since(t0).Milliseconds()
		metrics.RequestDurationMs.WithLabelValues(route).Observe(float64(dur))
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.log.Debug("http_request", "method", r.Method, "route", route, "status", rec.status, "duration_ms", dur)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
