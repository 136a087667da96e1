package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/webmonhq/webmon/internal/httpapi/middleware"
	"github.com/webmonhq/webmon/internal/monitor"
	"github.com/webmonhq/webmon/internal/repo"
	"github.com/webmonhq/webmon/internal/targets"
)

// Controller is the slice of the monitor the API needs: read the fleet
// state, trigger a manual restart.
type Controller interface {
	Status() []monitor.DomainStatus
	Restart()
}

// Limits carries the per-tier rate limit knobs.
type Limits struct {
	PublicRPM   int
	PublicBurst int
	AdminRPM    int
	AdminBurst  int
}

type Server struct {
	Logger  *zap.Logger
	Ctl     Controller
	Ignores repo.IgnoreStore
	Keys    middleware.Keys
	Limits  Limits
}

func NewServer(l *zap.Logger, ctl Controller, ignores repo.IgnoreStore, keys middleware.Keys, limits Limits) *Server {
	return &Server{Logger: l, Ctl: ctl, Ignores: ignores, Keys: keys, Limits: limits}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// read tier
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(s.Limits.PublicRPM, s.Limits.PublicBurst))
		r.Use(middleware.RequireAny(s.Keys))
		r.Get("/api/status", s.handleStatus)
		r.Get("/api/ignores", s.handleListIgnores)
	})

	// control tier
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(s.Limits.AdminRPM, s.Limits.AdminBurst))
		r.Use(middleware.RequireAdmin(s.Keys))
		r.Post("/api/restart", s.handleRestart)
		r.Post("/api/ignores", s.handleAddIgnore)
		r.Delete("/api/ignores/{domain}", s.handleRemoveIgnore)
	})

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"domains": s.Ctl.Status()})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.Ctl.Restart()
	s.Logger.Info("manual_restart_requested")
	writeJSON(w, map[string]string{"status": "restarting"})
}

func (s *Server) handleListIgnores(w http.ResponseWriter, r *http.Request) {
	list, err := s.Ignores.List(r.Context())
	if err != nil {
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []string{}
	}
	writeJSON(w, map[string]any{"ignored": list})
}

type ignorePayload struct {
	Domain string `json:"domain"`
}

func (s *Server) handleAddIgnore(w http.ResponseWriter, r *http.Request) {
	var p ignorePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	d := targets.Normalize(p.Domain)
	if !isValidDomain(d) {
		http.Error(w, "invalid domain", http.StatusBadRequest)
		return
	}
	if err := s.Ignores.Add(r.Context(), d); err != nil {
		http.Error(w, "could not add", http.StatusInternalServerError)
		return
	}
	s.Logger.Info("ignore_added", zap.String("domain", d))
	writeJSON(w, map[string]string{"ignored": d})
}

func (s *Server) handleRemoveIgnore(w http.ResponseWriter, r *http.Request) {
	d := targets.Normalize(chi.URLParam(r, "domain"))
	if !isValidDomain(d) {
		http.Error(w, "invalid domain", http.StatusBadRequest)
		return
	}
	if err := s.Ignores.Remove(r.Context(), d); err != nil {
		http.Error(w, "could not remove", http.StatusInternalServerError)
		return
	}
	s.Logger.Info("ignore_removed", zap.String("domain", d))
	writeJSON(w, map[string]string{"removed": d})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// isValidDomain accepts a normalized bare hostname.
func isValidDomain(d string) bool {
	if d == "" || len(d) > 253 {
		return false
	}
	if strings.ContainsAny(d, " \t\r\n") || strings.Contains(d, "://") {
		return false
	}
	return strings.Contains(d, ".")
}
