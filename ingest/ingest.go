// Package ingest loads external data into a graph arena. Processors accept
// raw bytes and return a populated graph with positions, sizes and colors
// ready for layout and indexing.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/TFMV/graphlens/models"
)

// Processor turns raw data bytes into a graph.
type Processor interface {
	Process(data []byte) (*models.Graph, error)
	Name() string
}

// Palette assigns colors to ingested elements round-robin.
type Palette struct {
	NodeColors []string
	EdgeColors []string
}

// DefaultPalette is the standard bright scheme.
func DefaultPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#4285F4", "#EA4335", "#FBBC05", "#34A853",
			"#673AB7", "#3F51B5", "#00BCD4", "#009688", "#FF5722",
		},
		EdgeColors: []string{"#666666", "#888888", "#AAAAAA"},
	}
}

// JSONProcessor loads the native graph interchange document:
//
//	{"nodes": [{"id", "label", "x", "y", "size", "color", "hidden"}],
//	 "edges": [{"id", "source", "target", "shape", "size", "color", "hidden"}]}
//
// Ids are optional; missing ids are generated. Unknown edge shapes fall back
// to plain lines, and a shared endpoint forces the self-loop shape.
type JSONProcessor struct {
	palette *Palette
}

// NewJSONProcessor creates a JSON processor; a nil palette means defaults.
func NewJSONProcessor(palette *Palette) *JSONProcessor {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &JSONProcessor{palette: palette}
}

func (p *JSONProcessor) Name() string { return "json" }

type jsonNodeIn struct {
	ID     string                 `json:"id"`
	Label  string                 `json:"label"`
	X      float64                `json:"x"`
	Y      float64                `json:"y"`
	Size   float64                `json:"size"`
	Color  string                 `json:"color"`
	Hidden bool                   `json:"hidden"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

type jsonEdgeIn struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Shape  string  `json:"shape"`
	Size   float64 `json:"size"`
	Color  string  `json:"color"`
	Hidden bool    `json:"hidden"`
}

func (p *JSONProcessor) Process(data []byte) (*models.Graph, error) {
	var doc struct {
		Nodes []jsonNodeIn `json:"nodes"`
		Edges []jsonEdgeIn `json:"edges"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse json graph")
	}

	graph := models.NewGraph("json import")
	for i, in := range doc.Nodes {
		node := models.NewNode(in.Label)
		if in.ID != "" {
			node.ID = in.ID
		}
		node.X = in.X
		node.Y = in.Y
		node.Size = in.Size
		if node.Size <= 0 {
			node.Size = 12.0
		}
		node.Color = in.Color
		if node.Color == "" {
			node.Color = p.palette.NodeColors[i%len(p.palette.NodeColors)]
		}
		node.Hidden = in.Hidden
		node.Properties = in.Data
		if err := graph.AddNode(node); err != nil {
			return nil, errors.Wrapf(err, "node %q", node.ID)
		}
	}

	for i, in := range doc.Edges {
		edge := models.NewEdge(in.Source, in.Target)
		if in.ID != "" {
			edge.ID = in.ID
		}
		if in.Shape != "" && in.Source != in.Target {
			edge.Shape = models.ParseEdgeShape(in.Shape)
		}
		edge.ShapeTag = edge.Shape.String()
		edge.Size = in.Size
		if edge.Size <= 0 {
			edge.Size = 1.0
		}
		edge.Color = in.Color
		if edge.Color == "" {
			edge.Color = p.palette.EdgeColors[i%len(p.palette.EdgeColors)]
		}
		edge.Hidden = in.Hidden
		if err := graph.AddEdge(edge); err != nil {
			return nil, errors.Wrapf(err, "edge %q", edge.ID)
		}
	}

	return graph, nil
}

// CSVProcessor loads an edge list with a header row. Source and target
// columns are required (source/from/src, target/to/dst); optional columns
// are weight (mapped to edge size) and label. Nodes are created on first
// reference and grow with their degree, clamped to [8, 24].
type CSVProcessor struct {
	palette *Palette
}

// NewCSVProcessor creates a CSV processor; a nil palette means defaults.
func NewCSVProcessor(palette *Palette) *CSVProcessor {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &CSVProcessor{palette: palette}
}

func (p *CSVProcessor) Name() string { return "csv" }

func (p *CSVProcessor) Process(data []byte) (*models.Graph, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}

	sourceIdx, targetIdx, weightIdx, labelIdx := -1, -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(col) {
		case "source", "from", "src":
			sourceIdx = i
		case "target", "to", "dst":
			targetIdx = i
		case "weight", "value", "strength":
			weightIdx = i
		case "label", "name", "title":
			labelIdx = i
		}
	}
	if sourceIdx == -1 || targetIdx == -1 {
		return nil, errors.New("csv must contain source and target columns")
	}

	graph := models.NewGraph("csv import")
	byRef := make(map[string]*models.Node)
	count := 0

	ensureNode := func(ref string, row []string) (*models.Node, error) {
		if n, ok := byRef[ref]; ok {
			return n, nil
		}
		label := ref
		if labelIdx >= 0 && labelIdx < len(row) {
			label = row[labelIdx]
		}
		node := models.NewNode(label)
		node.Size = 12.0
		node.Color = p.palette.NodeColors[count%len(p.palette.NodeColors)]
		count++
		if err := graph.AddNode(node); err != nil {
			return nil, err
		}
		byRef[ref] = node
		return node, nil
	}

	edgeCount := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv row")
		}

		src, err := ensureNode(row[sourceIdx], row)
		if err != nil {
			return nil, err
		}
		tgt, err := ensureNode(row[targetIdx], row)
		if err != nil {
			return nil, err
		}
		src.Size += 1.0
		tgt.Size += 1.0

		weight := 1.0
		if weightIdx >= 0 && weightIdx < len(row) {
			if w, perr := strconv.ParseFloat(row[weightIdx], 64); perr == nil && w > 0 {
				weight = w
			}
		}

		edge := models.NewEdge(src.ID, tgt.ID)
		edge.Size = weight
		edge.Color = p.palette.EdgeColors[edgeCount%len(p.palette.EdgeColors)]
		edgeCount++
		if err := graph.AddEdge(edge); err != nil {
			return nil, errors.Wrapf(err, "edge %s -> %s", src.ID, tgt.ID)
		}
	}

	for _, n := range graph.Nodes() {
		if n.Size < 8 {
			n.Size = 8
		} else if n.Size > 24 {
			n.Size = 24
		}
	}

	return graph, nil
}

// ByFormat returns the processor for a format name.
func ByFormat(format string) (Processor, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONProcessor(nil), nil
	case "csv":
		return NewCSVProcessor(nil), nil
	default:
		return nil, errors.Newf("unsupported format: %s", format)
	}
}
