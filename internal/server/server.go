// Package server exposes registered schemas over HTTP: JSON Schema export and
// request validation, plus Prometheus metrics.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/middleware"
)

// Options configures a Server.
type Options struct {
	Logger   zerolog.Logger
	Metrics  *Metrics
	FailFast bool
}

// Server serves the schemas of one registry.
type Server struct {
	registry *skema.Registry
	logger   zerolog.Logger
	metrics  *Metrics
	failFast bool
}

// New returns a server for reg. A nil Metrics gets a fresh one.
func New(reg *skema.Registry, opts Options) *Server {
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics("")
	}
	return &Server{
		registry: reg,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		failFast: opts.FailFast,
	}
}

// Router returns the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLog)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	r.Get("/schemas", s.listSchemas)
	r.Get("/schemas/{schema}", s.getSchema)
	r.Post("/validate/{schema}", s.validate)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*skema.Schema, bool) {
	name := chi.URLParam(r, "schema")
	sc, ok := s.registry.Lookup(name)
	if !ok {
		middleware.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "unknown schema: " + name})
		return nil, false
	}
	return sc, true
}

func (s *Server) listSchemas(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"schemas": s.registry.Names()})
}

func (s *Server) getSchema(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, sc.JSONSchema())
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if s.failFast {
		r = r.WithContext(skema.WithFailFast(r.Context(), true))
	}
	start := time.Now()
	inst, iss := middleware.Decode(r, sc)
	s.metrics.duration.WithLabelValues(sc.Name()).Observe(time.Since(start).Seconds())
	if iss != nil {
		s.metrics.constructions.WithLabelValues(sc.Name(), "invalid").Inc()
		for _, it := range iss {
			s.metrics.issues.WithLabelValues(sc.Name(), it.Code).Inc()
		}
		s.logger.Debug().Str("schema", sc.Name()).Int("issues", len(iss)).Msg("validation failed")
		middleware.WriteJSON(w, http.StatusBadRequest, middleware.ErrorPayload(iss))
		return
	}
	s.metrics.constructions.WithLabelValues(sc.Name(), "ok").Inc()
	middleware.WriteInstance(w, http.StatusOK, inst)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
