// Package api exposes the HTTP control surface for the collection service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/osintlabs/numharvest/internal/harvest"
	"github.com/osintlabs/numharvest/internal/scheduler"
)

// Control is the scheduler surface the HTTP handlers drive.
type Control interface {
	Start() error
	Stop()
	Running() bool
	Stats() harvest.Stats
	ExportReport(ctx context.Context, name string) (string, error)
	SetRegionFilter(tag string) error
	SetCategoryFilter(name string) error
	Filters() (region, category string)
}

// Server wires HTTP handlers to the scheduler.
type Server struct {
	router  chi.Router
	control Control
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(control Control, logger *zap.Logger) *Server {
	s := &Server{
		control: control,
		logger:  logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(timeoutMiddleware(60 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/collection", func(r chi.Router) {
			r.Post("/start", s.startCollection)
			r.Post("/stop", s.stopCollection)
			r.Get("/stats", s.getStats)
			r.Post("/report", s.exportReport)
			r.Put("/filters", s.setFilters)
			r.Get("/filters", s.getFilters)
		})
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) startCollection(w http.ResponseWriter, r *http.Request) {
	var req filtersRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}
	if req.Region != nil {
		if err := s.control.SetRegionFilter(*req.Region); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Category != nil {
		if err := s.control.SetCategoryFilter(*req.Category); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if err := s.control.Start(); err != nil {
		if errors.Is(err, scheduler.ErrAlreadyRunning) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) stopCollection(w http.ResponseWriter, _ *http.Request) {
	s.control.Stop()
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func (s *Server) getStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.control.Stats()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"running": s.control.Running(),
		"stats":   stats,
	})
}

type reportRequest struct {
	Path string `json:"path"`
}

func (s *Server) exportReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}
	path, err := s.control.ExportReport(r.Context(), req.Path)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

type filtersRequest struct {
	Region   *string `json:"region"`
	Category *string `json:"category"`
}

func (s *Server) setFilters(w http.ResponseWriter, r *http.Request) {
	var req filtersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Region != nil {
		if err := s.control.SetRegionFilter(*req.Region); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Category != nil {
		if err := s.control.SetCategoryFilter(*req.Category); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	s.writeFilters(w, http.StatusOK)
}

func (s *Server) getFilters(w http.ResponseWriter, _ *http.Request) {
	s.writeFilters(w, http.StatusOK)
}

func (s *Server) writeFilters(w http.ResponseWriter, status int) {
	region, category := s.control.Filters()
	s.writeJSON(w, status, map[string]string{
		"region":   region,
		"category": category,
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

type requestIDKey struct{}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
