// Package render turns a resolver's visible sets into output documents. A
// renderer never walks the whole graph: it draws exactly the nodes and edges
// the resolver reports on screen, using the screen coordinates the camera
// stamped during ApplyView.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/TFMV/graphlens/geom"
	"github.com/TFMV/graphlens/models"
	"github.com/TFMV/graphlens/scene"
)

// ErrUnknownFormat is returned by ByFormat for formats with no renderer.
var ErrUnknownFormat = errors.New("render: unknown format")

// Options configures a render pass.
type Options struct {
	Width      float64
	Height     float64
	Background string
	FontSize   float64
	ShowLabels bool
	Timestamp  bool
}

// DefaultOptions returns the standard viewport and styling.
func DefaultOptions() *Options {
	return &Options{
		Width:      800,
		Height:     600,
		Background: "#f8f8f8",
		FontSize:   10.0,
		ShowLabels: true,
	}
}

// Renderer produces one output format from a resolved scene.
type Renderer interface {
	Render(res *scene.Resolver, options *Options) ([]byte, error)
	Name() string
}

// ByFormat returns the renderer for a format name.
func ByFormat(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

// SVGRenderer draws the visible scene as an SVG document. Edge shapes map to
// SVG primitives: segments to <line>, quadratic curves to a Q path, self
// loops to a C path, with arrow variants picking up a marker-end.
type SVGRenderer struct{}

func (r *SVGRenderer) Name() string { return "svg" }

func (r *SVGRenderer) Render(res *scene.Resolver, options *Options) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, options.Width, options.Height, options.Width, options.Height, options.Background)

	buf.WriteString(`<defs>
  <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5"
      markerWidth="6" markerHeight="6" orient="auto">
    <path d="M0,0 L10,5 L0,10 z" fill="#666666"/>
  </marker>
</defs>
`)

	cam := res.Camera()
	for _, e := range res.VisibleEdges() {
		ev, ok := cam.EdgeView(e.ID)
		if !ok {
			continue
		}
		color := e.Color
		if color == "" {
			color = "#666666"
		}
		width := ev.Size
		if width <= 0 {
			width = 1
		}
		marker := ""
		if e.Shape == models.ShapeArrowLine || e.Shape == models.ShapeArrowCurve {
			marker = ` marker-end="url(#arrow)"`
		}

		switch e.Shape {
		case models.ShapeLine, models.ShapeArrowLine:
			fmt.Fprintf(&buf, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-width="%g"%s/>
`, ev.X1, ev.Y1, ev.X2, ev.Y2, color, width, marker)
		case models.ShapeQuadraticCurve, models.ShapeArrowCurve:
			cx := (ev.X1+ev.X2)/2 + (ev.Y2-ev.Y1)/4
			cy := (ev.Y1+ev.Y2)/2 + (ev.X1-ev.X2)/4
			fmt.Fprintf(&buf, `<path d="M%g,%g Q%g,%g %g,%g" fill="none" stroke="%s" stroke-width="%g"%s/>
`, ev.X1, ev.Y1, cx, cy, ev.X2, ev.Y2, color, width, marker)
		case models.ShapeCubicSelfLoop:
			src, ok := cam.NodeView(e.Source)
			if !ok {
				continue
			}
			c1, c2 := geom.SelfLoopControlPoints(src.X, src.Y, src.Size)
			fmt.Fprintf(&buf, `<path d="M%g,%g C%g,%g %g,%g %g,%g" fill="none" stroke="%s" stroke-width="%g"/>
`, ev.X1, ev.Y1, c1.X, c1.Y, c2.X, c2.Y, ev.X2, ev.Y2, color, width)
		}
	}

	for _, n := range res.VisibleNodes() {
		nv, ok := cam.NodeView(n.ID)
		if !ok {
			continue
		}
		color := n.Color
		if color == "" {
			color = "#4285F4"
		}
		radius := nv.Size
		if radius <= 0 {
			radius = 1
		}
		fmt.Fprintf(&buf, `<circle cx="%g" cy="%g" r="%g" fill="%s" stroke="rgba(0,0,0,0.3)" stroke-width="0.5"/>
`, nv.X, nv.Y, radius, color)

		if options.ShowLabels && n.Label != "" {
			labelY := nv.Y + radius + options.FontSize + 2
			fmt.Fprintf(&buf, `<text x="%g" y="%g" font-family="sans-serif" font-size="%g" fill="#333333" text-anchor="middle">%s</text>
`, nv.X, labelY, options.FontSize, n.Label)
		}
	}

	if options.Timestamp {
		fmt.Fprintf(&buf, `<text x="5" y="%g" font-family="sans-serif" font-size="8" fill="#808080">%s</text>
`, options.Height-5, time.Now().Format("2006-01-02 15:04:05"))
	}

	buf.WriteString(`</svg>`)
	return buf.Bytes(), nil
}

// JSONRenderer emits the visible scene as structured JSON for downstream
// consumers, with both graph-space and screen-space coordinates per node.
type JSONRenderer struct{}

func (r *JSONRenderer) Name() string { return "json" }

type jsonNode struct {
	ID         string  `json:"id"`
	Label      string  `json:"label,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Size       float64 `json:"size"`
	ScreenX    float64 `json:"screenX"`
	ScreenY    float64 `json:"screenY"`
	ScreenSize float64 `json:"screenSize"`
	Color      string  `json:"color,omitempty"`
}

type jsonEdge struct {
	ID       string  `json:"id"`
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Shape    string  `json:"shape"`
	Size     float64 `json:"size"`
	ScreenX1 float64 `json:"screenX1"`
	ScreenY1 float64 `json:"screenY1"`
	ScreenX2 float64 `json:"screenX2"`
	ScreenY2 float64 `json:"screenY2"`
	Color    string  `json:"color,omitempty"`
}

type jsonScene struct {
	Camera   interface{}            `json:"camera"`
	Nodes    []jsonNode             `json:"nodes"`
	Edges    []jsonEdge             `json:"edges"`
	Metadata map[string]interface{} `json:"metadata"`
}

func (r *JSONRenderer) Render(res *scene.Resolver, options *Options) ([]byte, error) {
	cam := res.Camera()
	visibleNodes := res.VisibleNodes()
	visibleEdges := res.VisibleEdges()

	out := jsonScene{
		Camera: cam.State(),
		Nodes:  make([]jsonNode, 0, len(visibleNodes)),
		Edges:  make([]jsonEdge, 0, len(visibleEdges)),
		Metadata: map[string]interface{}{
			"width":     options.Width,
			"height":    options.Height,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	for _, n := range visibleNodes {
		nv, ok := cam.NodeView(n.ID)
		if !ok {
			continue
		}
		out.Nodes = append(out.Nodes, jsonNode{
			ID:         n.ID,
			Label:      n.Label,
			X:          n.X,
			Y:          n.Y,
			Size:       n.Size,
			ScreenX:    nv.X,
			ScreenY:    nv.Y,
			ScreenSize: nv.Size,
			Color:      n.Color,
		})
	}
	for _, e := range visibleEdges {
		ev, ok := cam.EdgeView(e.ID)
		if !ok {
			continue
		}
		out.Edges = append(out.Edges, jsonEdge{
			ID:       e.ID,
			Source:   e.Source,
			Target:   e.Target,
			Shape:    e.Shape.String(),
			Size:     e.Size,
			ScreenX1: ev.X1,
			ScreenY1: ev.Y1,
			ScreenX2: ev.X2,
			ScreenY2: ev.Y2,
			Color:    e.Color,
		})
	}
	out.Metadata["nodeCount"] = len(out.Nodes)
	out.Metadata["edgeCount"] = len(out.Edges)

	return json.MarshalIndent(out, "", "  ")
}
