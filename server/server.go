// Package server exposes the engine over HTTP: upload data, view the scene
// through a camera, query the graph, and hit-test pointer positions. The
// core is single-threaded, so every handler serializes on one mutex; that
// is the concurrency boundary for the whole process.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/TFMV/graphlens/camera"
	"github.com/TFMV/graphlens/config"
	"github.com/TFMV/graphlens/engine"
	"github.com/TFMV/graphlens/ingest"
	"github.com/TFMV/graphlens/logger"
	"github.com/TFMV/graphlens/models"
	"github.com/TFMV/graphlens/physics"
	"github.com/TFMV/graphlens/render"
	"github.com/TFMV/graphlens/scene"
)

// Server wraps one engine behind an HTTP mux.
type Server struct {
	mu     sync.Mutex
	eng    *engine.Engine
	cam    *camera.Camera
	layout string
	width  float64
	height float64
}

// New creates a server over a fresh engine with the given settings. The
// engine starts with one camera and an empty graph.
func New(settings config.Settings) *Server {
	eng := engine.New(models.NewGraph("server"), settings)
	return &Server{
		eng:    eng,
		cam:    eng.AddCamera(config.Overrides{}),
		layout: "force",
		width:  1200,
		height: 900,
	}
}

// Handler returns the server's route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/visualize", s.handleVisualize)
	mux.HandleFunc("/api/graph", s.handleAPIGraph)
	mux.HandleFunc("/api/hit", s.handleAPIHit)
	return mux
}

// Start launches the server on the given port and blocks until it exits.
func Start(port int, settings config.Settings) error {
	s := New(settings)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Named("server").Infow("listening", "port", port)
	return srv.ListenAndServe()
}

// handleUpload replaces the engine's graph with the posted document, runs
// the configured layout, and refreshes every camera's indexes.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 10<<20))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	processor, err := ingest.ByFormat(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	graph, err := processor.Process(body)
	if err != nil {
		http.Error(w, "process data: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	physics.Run(physics.ByName(s.layout), graph, 500)

	// Swap the arena by rebuilding the engine; cameras keep their ids only
	// through the response, which reports the fresh camera.
	s.eng = engine.New(graph, s.eng.Settings())
	s.cam = s.eng.AddCamera(config.Overrides{})
	if err := s.eng.Refresh(s.width, s.height); err != nil {
		http.Error(w, "index graph: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"nodes":  graph.Order(),
		"edges":  graph.Size(),
		"camera": s.cam.ID,
	})
}

// handleVisualize renders the current scene. Camera state comes from the
// x, y, ratio and angle query parameters; format selects the renderer.
func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	renderer, err := render.ByFormat(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.moveCamera(r); err != nil {
		http.Error(w, "camera state: "+err.Error(), http.StatusBadRequest)
		return
	}
	width, height := s.viewport(r)
	res, err := s.eng.Resolver(s.cam.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := res.Refresh(width, height); err != nil {
		http.Error(w, "index graph: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.cam.ApplyView(s.eng.Graph().Nodes(), s.eng.Graph().Edges(), width, height)

	options := render.DefaultOptions()
	options.Width = width
	options.Height = height
	output, err := renderer.Render(res, options)
	if err != nil {
		http.Error(w, "render: "+err.Error(), http.StatusInternalServerError)
		return
	}

	switch format {
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
	case "json":
		w.Header().Set("Content-Type", "application/json")
	}
	w.Write(output)
}

// handleAPIGraph dumps the full graph as JSON.
func (s *Server) handleAPIGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(map[string]any{
		"id":    s.eng.Graph().ID,
		"name":  s.eng.Graph().Name,
		"nodes": s.eng.Graph().Nodes(),
		"edges": s.eng.Graph().Edges(),
	})
}

// handleAPIHit resolves a screen position to the nodes and edges under it.
// The x and y parameters are required screen coordinates; camera state is
// accepted as cx/cy/ratio/angle.
func (s *Server) handleAPIHit(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		http.Error(w, "x and y query parameters are required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.moveCamera(r); err != nil {
		http.Error(w, "camera state: "+err.Error(), http.StatusBadRequest)
		return
	}
	width, height := s.viewport(r)
	res, err := s.eng.Resolver(s.cam.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := res.Refresh(width, height); err != nil {
		http.Error(w, "index graph: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.cam.ApplyView(s.eng.Graph().Nodes(), s.eng.Graph().Edges(), width, height)

	ht, err := s.eng.HitTester(s.cam.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	nodes := ht.NodesAt(x, y)
	nodeIDs := make([]string, 0, len(nodes))
	for _, n := range nodes {
		nodeIDs = append(nodeIDs, n.ID)
	}

	var edgeIDs []string
	edges, err := ht.EdgesAt(x, y)
	switch {
	case err == nil:
		edgeIDs = make([]string, 0, len(edges))
		for _, e := range edges {
			edgeIDs = append(edgeIDs, e.ID)
		}
	case errors.Is(err, scene.ErrEdgeIndexDisabled):
		// Edge hovering is off; report nodes only.
	default:
		http.Error(w, "hit test: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"nodes": nodeIDs,
		"edges": edgeIDs,
	})
}

// moveCamera applies camera query parameters. /visualize accepts
// x/y/ratio/angle; /api/hit uses x/y for the pointer, so there the camera
// position comes from cx/cy instead.
func (s *Server) moveCamera(r *http.Request) error {
	xParam, yParam := "x", "y"
	if r.URL.Path == "/api/hit" {
		xParam, yParam = "cx", "cy"
	}
	move := camera.Move{}
	if v := r.URL.Query().Get(xParam); v != "" {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(err, xParam)
		}
		move.X = &x
	}
	if v := r.URL.Query().Get(yParam); v != "" {
		y, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(err, yParam)
		}
		move.Y = &y
	}
	if v := r.URL.Query().Get("ratio"); v != "" {
		ratio, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(err, "ratio")
		}
		move.Ratio = &ratio
	}
	if v := r.URL.Query().Get("angle"); v != "" {
		angle, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(err, "angle")
		}
		move.Angle = &angle
	}
	if move.X == nil && move.Y == nil && move.Ratio == nil && move.Angle == nil {
		return nil
	}
	return s.cam.GoTo(move)
}

// viewport reads width/height query parameters, falling back to the
// server's defaults.
func (s *Server) viewport(r *http.Request) (float64, float64) {
	width, height := s.width, s.height
	if v := r.URL.Query().Get("width"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			width = parsed
		}
	}
	if v := r.URL.Query().Get("height"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			height = parsed
		}
	}
	return width, height
}
