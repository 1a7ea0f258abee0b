// Package backend serves the plugin resource API and the alert rules page.
//
// Resource routes live under /api/plugins/<plugin-id>/resources:
//
//	GET  /ping              {"message": "ok"}
//	POST /echo              echoes {"message": ...}
//	GET  /prometheus/rules  PrometheusRuleList of the configured namespace
//
// Alongside them the server exposes GET /api/health, GET /metrics and the
// server-rendered page GET /a/alert-rules.
package backend

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	v1 "github.com/coreos/prometheus-operator/pkg/apis/monitoring/v1"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/G-Research/prometheus-rules-viewer/alertview"
	"github.com/G-Research/prometheus-rules-viewer/rulesource"
	"github.com/G-Research/prometheus-rules-viewer/theme"
)

var log = logrus.WithField("component", "backend")

// Options configures a Server.
type Options struct {
	PluginID  string
	Namespace string
	Theme     theme.Theme
}

// Server is the resource backend.
type Server struct {
	opts    Options
	source  rulesource.Source
	router  *mux.Router
	metrics *metrics

	// viewBackend is what the alert rules page fetches through.
	viewBackend alertview.Backend
}

// New builds a Server reading rules from source.
func New(source rulesource.Source, opts Options) *Server {
	if opts.PluginID == "" {
		opts.PluginID = alertview.DefaultPluginID
	}

	s := &Server{
		opts:    opts,
		source:  source,
		router:  mux.NewRouter(),
		metrics: newMetrics(),
	}
	s.registerRoutes()
	return s
}

// UseViewBackend sets the backend the alert rules page loads from. Until it
// is set the page renders an error.
func (s *Server) UseViewBackend(b alertview.Backend) {
	s.viewBackend = b
}

// Registry exposes the server's metrics registry.
func (s *Server) Registry() *prometheus.Registry {
	return s.metrics.registry
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.router.Use(s.metrics.middleware)

	res := s.router.PathPrefix("/api/plugins/" + s.opts.PluginID + "/resources").Subrouter()
	res.HandleFunc("/ping", s.handlePing).Methods(http.MethodGet)
	res.HandleFunc("/echo", s.handleEcho)
	res.HandleFunc("/prometheus/rules", s.handlePrometheusRules).Methods(http.MethodGet)

	s.router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/a/alert-rules", s.handleAlertRulesPage).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

// HTTPServer wraps s in an http.Server listening on addr.
func (s *Server) HTTPServer(ctx context.Context, addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

func (s *Server) handleEcho(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "ok"})
}

func (s *Server) handlePrometheusRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.source.List(r.Context(), s.opts.Namespace)
	if err != nil {
		log.WithField("namespace", s.opts.Namespace).Errorf("listing rules: %s", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if rules == nil {
		rules = &v1.PrometheusRuleList{}
	}
	if rules.Items == nil {
		rules.Items = []*v1.PrometheusRule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("writing response: %s", err)
	}
}
