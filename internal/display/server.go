package display

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rickgao/orbit-tracker/internal/config"
	"github.com/rickgao/orbit-tracker/internal/model"
	"github.com/rickgao/orbit-tracker/internal/store"
	"github.com/rickgao/orbit-tracker/internal/trajectory"
	"github.com/rickgao/orbit-tracker/internal/version"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves trajectories, live updates, health and metrics over HTTP.
type Server struct {
	objects []string
	store   store.Store
	hub     *Hub
	metrics http.Handler
	db      Pinger
	logger  *slog.Logger

	router *chi.Mux
	server *http.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithHub mounts the websocket hub at /ws.
func WithHub(h *Hub) ServerOption {
	return func(s *Server) {
		s.hub = h
	}
}

// WithMetrics mounts a Prometheus handler at /metrics.
func WithMetrics(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithPinger adds a database check to /health.
func WithPinger(p Pinger) ServerOption {
	return func(s *Server) {
		s.db = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer builds the router for the given tracked object ids.
func NewServer(cfg config.ServerConfig, objects []string, st store.Store, opts ...ServerOption) *Server {
	s := &Server{
		objects: objects,
		store:   st,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/objects", func(r chi.Router) {
		r.Get("/", s.handleObjects)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.requireObject)
			r.Get("/status", s.handleStatus)
			r.Get("/trajectory", s.handleTrajectory)
		})
	})
	if s.hub != nil {
		r.Get("/ws", s.hub.ServeHTTP)
	}
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	s.router = r
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) requireObject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !slices.Contains(s.objects, chi.URLParam(r, "id")) {
			respondWithError(w, http.StatusNotFound, "unknown object")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := struct {
		Status     string         `json:"status"`
		Build      version.Info   `json:"build"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Build:      version.Get(),
		Components: map[string]any{"objects": len(s.objects)},
	}

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["database"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["database"] = "connected"
		}
	}
	if s.hub != nil {
		health.Components["websocket_clients"] = s.hub.Clients()
	}

	code := http.StatusOK
	if health.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	respondWithJSON(w, code, health)
}

type objectSummary struct {
	ID      string   `json:"id"`
	Samples int      `json:"samples"`
	Speed   *float64 `json:"speed,omitempty"`
}

func (s *Server) handleObjects(w http.ResponseWriter, r *http.Request) {
	out := make([]objectSummary, 0, len(s.objects))
	for _, id := range s.objects {
		t, err := s.store.Load(r.Context(), id)
		if err != nil {
			s.logger.Error("load trajectory failed", "object", id, "err", err)
			respondWithError(w, http.StatusInternalServerError, "load trajectory failed")
			return
		}
		sum := objectSummary{ID: id, Samples: t.Len()}
		if t.Len() > 1 {
			speed, _ := trajectory.LatestSpeed(t)
			sum.Speed = &speed
		}
		out = append(out, sum)
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.logger.Error("load trajectory failed", "object", id, "err", err)
		respondWithError(w, http.StatusInternalServerError, "load trajectory failed")
		return
	}

	status, err := FormatStatus(t)
	if errors.Is(err, trajectory.ErrEmptyTrajectory) {
		respondWithError(w, http.StatusServiceUnavailable, "no data yet")
		return
	}
	latest, _ := trajectory.Latest(t)

	resp := struct {
		Object string               `json:"object"`
		Status string               `json:"status"`
		Sample model.PositionSample `json:"sample"`
		Speed  *float64             `json:"speed"`
	}{Object: id, Status: status, Sample: latest}
	if t.Len() > 1 {
		resp.Speed = &latest.Speed
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrajectory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.logger.Error("load trajectory failed", "object", id, "err", err)
		respondWithError(w, http.StatusInternalServerError, "load trajectory failed")
		return
	}

	switch r.URL.Query().Get("format") {
	case "geojson":
		w.Header().Set("Content-Type", "application/geo+json")
		writeJSON(w, http.StatusOK, ToGeoJSON(id, t))
	case "", "json":
		samples := t.Samples
		if samples == nil {
			samples = []model.PositionSample{}
		}
		respondWithJSON(w, http.StatusOK, struct {
			Object  string                 `json:"object"`
			Samples []model.PositionSample `json:"samples"`
		}{Object: id, Samples: samples})
	default:
		respondWithError(w, http.StatusBadRequest, "format must be json or geojson")
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, code, payload)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to marshal response"}`))
		return
	}
	w.WriteHeader(code)
	w.Write(data)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
