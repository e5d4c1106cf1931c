// Package server exposes the debug renderer over HTTP: PNG frames, pixel
// inspection and the scene catalogue.
package server

import (
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/df07/go-raykernel/pkg/loaders"
	"github.com/df07/go-raykernel/pkg/log"
	"github.com/df07/go-raykernel/pkg/renderer"
	"github.com/df07/go-raykernel/pkg/scene"
)

// Server handles web requests for the debug renderer
type Server struct {
	port   int
	dir    string // PLY scene directory
	logger log.Logger

	mu     sync.Mutex
	scenes map[sceneKey]*scene.Scene
}

type sceneKey struct {
	ref   string
	cull  bool
	pairs bool
}

// NewServer creates a server listening on port that serves PLY scenes from dir.
func NewServer(port int, dir string) *Server {
	return &Server{
		port:   port,
		dir:    dir,
		logger: log.New("server"),
		scenes: make(map[sceneKey]*scene.Scene),
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene  string        `json:"scene"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Mode   renderer.Mode `json:"mode"`
	Packet int           `json:"packet"` // packet width, 0 for single rays
	Cull   bool          `json:"cull"`
	Pairs  bool          `json:"pairs"`
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Noticef("starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in and PLY scenes.
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	groups, err := scene.ListAllScenes(s.dir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// handleRender renders one frame and returns it as a PNG.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	rd, err := s.newRenderer(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	frame, stats, err := rd.Render(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Render error: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-Time", stats.Elapsed.String())
	w.Header().Set("X-Rays", strconv.Itoa(stats.TotalRays()))
	w.Header().Set("X-Hits", strconv.Itoa(stats.Hits))
	if err := png.Encode(w, frame.Image()); err != nil {
		s.logger.Errorf("failed to encode frame: %v", err)
	}
}

// newRenderer binds a renderer to the cached scene of req.
func (s *Server) newRenderer(req *RenderRequest) (*renderer.Renderer, error) {
	sc, err := s.scene(req)
	if err != nil {
		return nil, err
	}
	cfg := renderer.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Mode = req.Width, req.Height, req.Mode
	return renderer.NewRenderer(sc, cfg, renderer.WithPacketWidth(req.Packet), renderer.WithLogger(s.logger))
}

// catalogued reports whether ref is a scene ID listed by /api/scenes.
// File paths are never accepted from clients.
func (s *Server) catalogued(ref string) error {
	if strings.ContainsAny(ref, `/\`) || strings.Contains(ref, "..") {
		return fmt.Errorf("invalid scene name %q", ref)
	}
	groups, err := scene.ListAllScenes(s.dir)
	if err != nil {
		return err
	}
	for _, g := range groups {
		for _, info := range g.Scenes {
			if info.ID == ref {
				return nil
			}
		}
	}
	return fmt.Errorf("unknown scene %q", ref)
}

// scene returns the committed scene for req, loading it on first use.
// Only catalogued scenes are loaded, so the cache is bounded by the catalogue.
// Committed scenes are immutable and shared between requests.
func (s *Server) scene(req *RenderRequest) (*scene.Scene, error) {
	if err := s.catalogued(req.Scene); err != nil {
		return nil, err
	}
	key := sceneKey{ref: req.Scene, cull: req.Cull, pairs: req.Pairs}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sc, ok := s.scenes[key]; ok {
		return sc, nil
	}

	sc, err := loaders.LoadScene(req.Scene, s.dir)
	if err != nil {
		return nil, err
	}
	err = sc.Commit(
		scene.WithBackfaceCulling(req.Cull),
		scene.WithPairs(req.Pairs),
		scene.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	s.scenes[key] = sc
	return sc, nil
}

// parseRenderRequest parses request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "shapes"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 400, 1, 2000); err != nil {
		return nil, err
	}
	if req.Packet, err = parseIntParam(values, "packet", 0, 0, 16); err != nil {
		return nil, err
	}
	if req.Cull, err = parseBoolParam(values, "cull", false); err != nil {
		return nil, err
	}
	if req.Pairs, err = parseBoolParam(values, "pairs", true); err != nil {
		return nil, err
	}
	if mode := values.Get("mode"); mode != "" {
		if req.Mode, err = renderer.ParseMode(mode); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
