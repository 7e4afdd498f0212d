// Package config holds the resolved engine settings. Settings are plain
// immutable values: a call site resolves its effective settings once via
// layered overrides (local over camera over global) and passes the result
// around, instead of threading a lookup callable through the pipeline.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// Settings is the fully resolved configuration consumed by the camera,
// resolver and hit-tester.
type Settings struct {
	// NodesPowRatio is the power-law exponent applied to node screen
	// sizes: screenSize = size / ratio^NodesPowRatio. The sub-linear
	// default keeps small nodes from vanishing on zoom-out.
	NodesPowRatio float64 `toml:"nodes_pow_ratio"`
	// EdgesPowRatio is the same exponent for edge thickness.
	EdgesPowRatio float64 `toml:"edges_pow_ratio"`
	// EdgeHoverPrecision is the minimum hover tolerance, in screen units,
	// for edge hit tests.
	EdgeHoverPrecision float64 `toml:"edge_hover_precision"`
	// EnableEdgeHovering toggles the edge spatial index. When off, edge
	// indexing is skipped entirely and EdgesAt fails.
	EnableEdgeHovering bool `toml:"enable_edge_hovering"`

	// Quadtree tuning, separately for the node and edge indexes.
	NodeQuadMaxElements int `toml:"node_quad_max_elements"`
	NodeQuadMaxLevel    int `toml:"node_quad_max_level"`
	EdgeQuadMaxElements int `toml:"edge_quad_max_elements"`
	EdgeQuadMaxLevel    int `toml:"edge_quad_max_level"`
}

// Overrides is a sparse layer of settings: nil fields inherit from the
// layer below.
type Overrides struct {
	NodesPowRatio       *float64 `toml:"nodes_pow_ratio"`
	EdgesPowRatio       *float64 `toml:"edges_pow_ratio"`
	EdgeHoverPrecision  *float64 `toml:"edge_hover_precision"`
	EnableEdgeHovering  *bool    `toml:"enable_edge_hovering"`
	NodeQuadMaxElements *int     `toml:"node_quad_max_elements"`
	NodeQuadMaxLevel    *int     `toml:"node_quad_max_level"`
	EdgeQuadMaxElements *int     `toml:"edge_quad_max_elements"`
	EdgeQuadMaxLevel    *int     `toml:"edge_quad_max_level"`
}

// Default returns the documented default settings.
func Default() Settings {
	return Settings{
		NodesPowRatio:       0.5,
		EdgesPowRatio:       0,
		EdgeHoverPrecision:  4,
		EnableEdgeHovering:  false,
		NodeQuadMaxElements: 20,
		NodeQuadMaxLevel:    4,
		EdgeQuadMaxElements: 40,
		EdgeQuadMaxLevel:    8,
	}
}

// With returns a copy of s with the non-nil override fields applied.
func (s Settings) With(o Overrides) Settings {
	if o.NodesPowRatio != nil {
		s.NodesPowRatio = *o.NodesPowRatio
	}
	if o.EdgesPowRatio != nil {
		s.EdgesPowRatio = *o.EdgesPowRatio
	}
	if o.EdgeHoverPrecision != nil {
		s.EdgeHoverPrecision = *o.EdgeHoverPrecision
	}
	if o.EnableEdgeHovering != nil {
		s.EnableEdgeHovering = *o.EnableEdgeHovering
	}
	if o.NodeQuadMaxElements != nil {
		s.NodeQuadMaxElements = *o.NodeQuadMaxElements
	}
	if o.NodeQuadMaxLevel != nil {
		s.NodeQuadMaxLevel = *o.NodeQuadMaxLevel
	}
	if o.EdgeQuadMaxElements != nil {
		s.EdgeQuadMaxElements = *o.EdgeQuadMaxElements
	}
	if o.EdgeQuadMaxLevel != nil {
		s.EdgeQuadMaxLevel = *o.EdgeQuadMaxLevel
	}
	return s
}

// Resolve applies override layers over the base, outermost layer last, so
// Resolve(global, cameraLayer, localLayer) gives local precedence over
// camera over global.
func Resolve(base Settings, layers ...Overrides) Settings {
	for _, layer := range layers {
		base = base.With(layer)
	}
	return base
}

// LoadFile reads a sparse settings layer from a TOML file.
func LoadFile(path string) (Overrides, error) {
	var o Overrides
	data, err := os.ReadFile(path)
	if err != nil {
		return o, errors.Wrapf(err, "read settings %q", path)
	}
	if err := toml.Unmarshal(data, &o); err != nil {
		return o, errors.Wrapf(err, "parse settings %q", path)
	}
	return o, nil
}
