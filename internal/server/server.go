// Package server exposes the HTTP surface: the transcription endpoint, the
// outcome log reader, the status endpoint, and the static test page. All
// request-scoped orchestration lives here; the pipeline components are
// composed per request and never call each other directly.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"log/slog"

	"whisperd/internal/admission"
	"whisperd/internal/config"
	"whisperd/internal/deps"
	"whisperd/internal/ffmpeg"
	"whisperd/internal/logging"
	"whisperd/internal/model"
	"whisperd/internal/requestlog"
)

// Server is the HTTP front end for the transcription service.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	gate       *admission.Gate
	models     *model.Manager
	normalizer *ffmpeg.Normalizer
	recorder   requestlog.Recorder
	started    time.Time

	listener net.Listener
	server   *http.Server
}

// New wires the pipeline components into a server. The recorder may be the
// disabled recorder; the rest are required.
func New(cfg *config.Config, models *model.Manager, recorder requestlog.Recorder, logger *slog.Logger) *Server {
	if recorder == nil {
		recorder = requestlog.Disabled()
	}
	srv := &Server{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "server"),
		gate:       admission.NewGate(cfg.Transcribe.MaxConcurrent),
		models:     models,
		normalizer: ffmpeg.New(cfg.FFmpegBinary(), cfg.Transcribe.FFmpegTimeoutSeconds, logger),
		recorder:   recorder,
		started:    time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleRoot)
	mux.HandleFunc("/test", srv.handleTestPage)
	mux.HandleFunc("/static/", srv.handleStatic)
	mux.HandleFunc("/transcribe", srv.handleTranscribe)
	mux.HandleFunc("/transcribe/logs", srv.handleLogs)
	mux.HandleFunc("/api/status", srv.handleStatus)

	srv.server = &http.Server{
		Handler:           srv.wrap(mux),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler returns the fully wrapped handler chain. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving on the configured bind address. Serving continues
// until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Server.Bind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Bind, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound listener address, or empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, allowing in-flight requests a short grace
// period to finish.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	http.Redirect(w, r, "/test", http.StatusTemporaryRedirect)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	statuses := deps.CheckBinaries(deps.Defaults(s.cfg))
	depViews := make([]dependencyStatus, len(statuses))
	healthy := true
	for i, st := range statuses {
		depViews[i] = dependencyStatus{
			Name:      st.Name,
			Command:   st.Command,
			Available: st.Available,
			Detail:    st.Detail,
		}
		if !st.Available {
			healthy = false
		}
	}
	s.writeJSON(w, http.StatusOK, statusResponse{
		Model:         string(s.models.State()),
		ModelName:     s.cfg.Model.Name,
		Device:        s.cfg.Model.Device,
		SlotsInUse:    s.gate.InUse(),
		SlotsCapacity: s.gate.Capacity(),
		LogEnabled:    s.recorder.Enabled(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		DepsHealthy:   healthy,
		Dependencies:  depViews,
	})
}

type statusResponse struct {
	Model         string             `json:"model"`
	ModelName     string             `json:"model_name"`
	Device        string             `json:"device"`
	SlotsInUse    int                `json:"slots_in_use"`
	SlotsCapacity int                `json:"slots_capacity"`
	LogEnabled    bool               `json:"log_enabled"`
	UptimeSeconds int64              `json:"uptime_seconds"`
	DepsHealthy   bool               `json:"deps_healthy"`
	Dependencies  []dependencyStatus `json:"dependencies"`
}

type dependencyStatus struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
}
