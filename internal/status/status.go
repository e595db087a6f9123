package status

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gallery-pipeline/internal/logging"
	"gallery-pipeline/internal/metrics"
	"gallery-pipeline/internal/middleware"
)

const (
	statusBuilding = "building"
	statusIdle     = "idle"
)

// Server exposes build progress over HTTP while a run is active.
type Server struct {
	srv       *http.Server
	provider  metrics.StatsProvider
	memory    MemoryStatus
	version   string
	startTime time.Time
}

// MemoryStatus reports the backpressure monitor's state on /progress.
type MemoryStatus interface {
	IsPaused() bool
	Usage() float64
}

// ProgressResponse is the JSON body served on /progress.
type ProgressResponse struct {
	Status    string  `json:"status"`
	Scheduled int64   `json:"scheduled"`
	InFlight  int64   `json:"inFlight"`
	Succeeded int64   `json:"succeeded"`
	Failed    int64   `json:"failed"`
	Skipped   int64   `json:"skipped"`
	Done      int64   `json:"done"`
	Percent   float64 `json:"percent"`
	Uptime    string  `json:"uptime"`

	// Backpressure state, zero without a memory limit
	MemoryPaused bool    `json:"memoryPaused"`
	MemoryUsage  float64 `json:"memoryUsage"`

	// System info
	Version      string `json:"version"`
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
}

// New creates a status server listening on addr. The provider supplies
// progress snapshots; a nil provider serves zeros.
func New(addr, version string, provider metrics.StatsProvider) *Server {
	s := &Server{
		provider:  provider,
		version:   version,
		startTime: time.Now(),
	}

	r := mux.NewRouter()
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/progress", s.Progress).Methods("GET")
	r.HandleFunc("/healthz", s.Liveness).Methods("GET", "HEAD")
	r.HandleFunc("/livez", s.Liveness).Methods("GET", "HEAD")

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// SetMemory attaches the backpressure monitor whose state /progress
// reports. Optional; without one the memory fields serve zeros.
func (s *Server) SetMemory(m MemoryStatus) {
	s.memory = m
}

// Handler returns the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves in the background.
func (s *Server) Start() {
	go func() {
		logging.Info("Status server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			logging.Error("Status server error: %v", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) {
	if err := s.srv.Shutdown(ctx); err != nil {
		logging.Warn("Status server shutdown error: %v", err)
	}
}

// Progress serves the current build snapshot.
func (s *Server) Progress(w http.ResponseWriter, _ *http.Request) {
	var stats metrics.Stats
	if s.provider != nil {
		stats = s.provider.GetStats()
	}

	response := ProgressResponse{
		Status:       statusIdle,
		Scheduled:    stats.Scheduled,
		InFlight:     stats.InFlight,
		Succeeded:    stats.Succeeded,
		Failed:       stats.Failed,
		Skipped:      stats.Skipped,
		Done:         stats.Done(),
		Uptime:       time.Since(s.startTime).Round(time.Second).String(),
		Version:      s.version,
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
	}
	if stats.InFlight > 0 || stats.Done() < stats.Scheduled {
		response.Status = statusBuilding
	}
	if stats.Scheduled > 0 {
		response.Percent = float64(stats.Done()) / float64(stats.Scheduled) * 100
	}
	if s.memory != nil {
		response.MemoryPaused = s.memory.IsPaused()
		response.MemoryUsage = s.memory.Usage()
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}

// Liveness is a simple liveness probe (always returns 200 if the server
// is running).
func (s *Server) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}
