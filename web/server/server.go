package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// errUnknownScene is returned when a request names a scene that is not in the
// scenes directory
var errUnknownScene = errors.New("unknown scene")

// Server renders and inspects the scenes of a directory over HTTP
type Server struct {
	port      int
	scenesDir string
	staticDir string
	defaults  config.RenderConfig
	logger    *zap.SugaredLogger

	active atomic.Int64 // Renders in progress
}

// NewServer creates a server for the scenes in scenesDir. Render requests
// start from defaults.
func NewServer(port int, scenesDir string, defaults config.RenderConfig, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Server{
		port:      port,
		scenesDir: scenesDir,
		defaults:  defaults,
		logger:    logger,
	}
}

// ServeStatic serves the files of dir under /
func (s *Server) ServeStatic(dir string) {
	s.staticDir = dir
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string `json:"scene"`           // Scene ID, the file name without extension
	Width           int    `json:"width"`           // Image width
	Height          int    `json:"height"`          // Image height
	SamplesPerPixel int    `json:"samplesPerPixel"` // Samples per pixel
	Jitter          bool   `json:"jitter"`          // Jitter samples inside each pixel
	RecursionDepth  int    `json:"recursionDepth"`  // Reflection and refraction depth
	Shader          string `json:"shader"`          // constant, diffuse, phong or phong_bump
	Index           bool   `json:"index"`           // Use the kd-tree
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Infow("starting web server", "address", "http://localhost"+srv.Addr, "scenes", s.scenesDir)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return errors.Wrap(err, "web server stopped")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down web server")
	return srv.Shutdown(shutdownCtx)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"activeRenders": s.active.Load(),
	})
}

// handleScenes lists the scenes grouped the way the CLI prints them
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := config.ListScenes(s.scenesDir, s.logger)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	groups := config.GroupScenes(scenes)
	if groups == nil {
		groups = []config.SceneGroup{}
	}
	s.writeJSON(w, http.StatusOK, groups)
}

func statusFor(err error) int {
	if errors.Is(err, errUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debugw("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Warnw("request failed", "status", status, "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
