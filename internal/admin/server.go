package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/sim"
)

// SnapshotSource provides the latest circuit state.
type SnapshotSource interface {
	Snapshot() sim.Snapshot
}

// Server exposes read-only views of the circuit over HTTP.
type Server struct {
	src      SnapshotSource
	gatherer prometheus.Gatherer
	status   sim.AdminStatusWriter
	log      *slog.Logger
	tpl      *template.Template
	mux      *http.ServeMux
}

//go:embed templates/index.html
var content embed.FS

// NewServer creates a server reading from src. gatherer enables /metrics and
// status is notified when the listener opens and closes; both may be nil.
func NewServer(src SnapshotSource, gatherer prometheus.Gatherer, status sim.AdminStatusWriter, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	tpl := template.Must(template.New("index.html").Funcs(template.FuncMap{
		"pct": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "%" },
	}).ParseFS(content, "templates/index.html"))
	s := &Server{src: src, gatherer: gatherer, status: status, log: log, tpl: tpl, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /agents", s.handleAgents)
	s.mux.HandleFunc("GET /comparison", s.handleComparison)
	if s.gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.mux }

// Start listens on addr and serves until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.mux, ReadHeaderTimeout: 5 * time.Second}
	s.setStatus(true)
	defer s.setStatus(false)
	s.log.Info("admin endpoint listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.log.Info("admin endpoint stopped")
		return nil
	}
}

func (s *Server) setStatus(active bool) {
	if s.status != nil {
		s.status.SetAdminStatus(active)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.tpl.Execute(w, s.src.Snapshot()); err != nil {
		s.log.Error("render index", "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.src.Snapshot()
	snap.Agents = nil
	writeJSON(w, snap)
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.src.Snapshot().Agents)
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	snap := s.src.Snapshot()
	if snap.Comparison == nil {
		http.Error(w, "no comparison recorded yet", http.StatusNotFound)
		return
	}
	writeJSON(w, struct {
		Comparison any `json:"comparison"`
		Delta      any `json:"coordination_delta"`
	}{snap.Comparison, snap.Delta})
}
