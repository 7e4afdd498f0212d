// Package physics provides layout algorithms that assign graph-space
// positions to nodes before indexing and projection. Layouts operate on node
// ids and write back through Apply, so a graph can be re-laid-out without
// disturbing its derived screen fields.
package physics

import (
	"math"
	"math/rand"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/TFMV/graphlens/models"
)

// Layout is the stepwise layout contract: Initialize captures the graph,
// Step advances one iteration and reports stability, Apply writes the
// computed positions back into the nodes.
type Layout interface {
	Initialize(graph *models.Graph)
	Step() bool
	Apply(graph *models.Graph)
	Name() string
}

type vec struct {
	x, y float64
}

// ForceDirected is a Fruchterman-Reingold style layout: nodes repel, edges
// attract, temperature cools each step until the average displacement falls
// under the energy threshold.
type ForceDirected struct {
	Width           float64
	Height          float64
	MaxIterations   int
	EnergyThreshold float64
	Gravity         float64
	SpringConstant  float64
	Damping         float64

	positions  map[string]vec
	velocities map[string]vec
	forces     map[string]vec
	neighbors  map[string][]string
	order      []string

	k           float64
	temperature float64
	iterations  int
	stable      bool
	rng         *rand.Rand
}

// NewForceDirected creates a force-directed layout with the default frame
// and cooling parameters.
func NewForceDirected() *ForceDirected {
	return &ForceDirected{
		Width:           800,
		Height:          600,
		MaxIterations:   1000,
		EnergyThreshold: 0.001,
		Gravity:         0.05,
		SpringConstant:  0.04,
		Damping:         0.9,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (fd *ForceDirected) Name() string { return "force" }

// Initialize seeds positions from the graph, scattering unplaced nodes
// randomly across the frame, and caches adjacency for the attraction pass.
func (fd *ForceDirected) Initialize(graph *models.Graph) {
	nodes := graph.Nodes()
	fd.positions = make(map[string]vec, len(nodes))
	fd.velocities = make(map[string]vec, len(nodes))
	fd.forces = make(map[string]vec, len(nodes))
	fd.order = make([]string, 0, len(nodes))
	fd.temperature = 1.0
	fd.iterations = 0
	fd.stable = false

	area := fd.Width * fd.Height
	fd.k = math.Sqrt(area / math.Max(1, float64(len(nodes))))

	for _, n := range nodes {
		if n.X == 0 && n.Y == 0 {
			fd.positions[n.ID] = vec{fd.rng.Float64() * fd.Width, fd.rng.Float64() * fd.Height}
		} else {
			fd.positions[n.ID] = vec{n.X, n.Y}
		}
		fd.velocities[n.ID] = vec{}
		fd.order = append(fd.order, n.ID)
	}

	fd.neighbors = make(map[string][]string, len(nodes))
	for _, e := range graph.Edges() {
		if e.Source == e.Target {
			continue
		}
		fd.neighbors[e.Source] = append(fd.neighbors[e.Source], e.Target)
		fd.neighbors[e.Target] = append(fd.neighbors[e.Target], e.Source)
	}
}

// Step runs one annealing iteration. It returns true once the layout is
// stable or the iteration budget is spent.
func (fd *ForceDirected) Step() bool {
	if fd.stable || fd.iterations >= fd.MaxIterations {
		return true
	}

	for _, id := range fd.order {
		fd.forces[id] = vec{}
	}

	// Gravity toward the frame center, scaled by distance so far-flung
	// nodes are pulled back harder.
	cx, cy := fd.Width/2, fd.Height/2
	for _, id := range fd.order {
		p := fd.positions[id]
		dx, dy := cx-p.x, cy-p.y
		dist := math.Max(0.1, math.Hypot(dx, dy))
		g := fd.Gravity * (dist / math.Min(fd.Width, fd.Height))
		f := fd.forces[id]
		fd.forces[id] = vec{f.x + dx*g, f.y + dy*g}
	}

	// Pairwise repulsion, F = k^2 / d.
	for i, id1 := range fd.order {
		p1 := fd.positions[id1]
		for _, id2 := range fd.order[i+1:] {
			p2 := fd.positions[id2]
			dx, dy := p1.x-p2.x, p1.y-p2.y
			dist := math.Max(0.1, math.Hypot(dx, dy))
			rep := fd.k * fd.k / dist
			dx, dy = dx/dist, dy/dist
			f1, f2 := fd.forces[id1], fd.forces[id2]
			fd.forces[id1] = vec{f1.x + dx*rep, f1.y + dy*rep}
			fd.forces[id2] = vec{f2.x - dx*rep, f2.y - dy*rep}
		}
	}

	// Spring attraction along edges, F = d^2 / k.
	for _, id1 := range fd.order {
		p1 := fd.positions[id1]
		for _, id2 := range fd.neighbors[id1] {
			p2, ok := fd.positions[id2]
			if !ok {
				continue
			}
			dx, dy := p2.x-p1.x, p2.y-p1.y
			dist := math.Max(0.1, math.Hypot(dx, dy))
			att := dist * dist / fd.k * fd.SpringConstant
			dx, dy = dx/dist, dy/dist
			f := fd.forces[id1]
			fd.forces[id1] = vec{f.x + dx*att, f.y + dy*att}
		}
	}

	totalEnergy := 0.0
	padding := fd.k * 0.5
	for _, id := range fd.order {
		f := fd.forces[id]
		magnitude := math.Hypot(f.x, f.y)
		if magnitude > 0 {
			scale := math.Min(magnitude, fd.temperature) / magnitude
			f.x *= scale
			f.y *= scale
		}

		v := fd.velocities[id]
		v.x = (v.x + f.x) * fd.Damping
		v.y = (v.y + f.y) * fd.Damping
		fd.velocities[id] = v

		p := fd.positions[id]
		p.x = math.Max(padding, math.Min(fd.Width-padding, p.x+v.x))
		p.y = math.Max(padding, math.Min(fd.Height-padding, p.y+v.y))
		fd.positions[id] = p

		totalEnergy += magnitude
	}

	fd.temperature *= 0.95
	if len(fd.order) > 0 {
		fd.stable = totalEnergy/float64(len(fd.order)) < fd.EnergyThreshold
	} else {
		fd.stable = true
	}
	fd.iterations++
	return fd.stable
}

// Apply writes the computed positions back onto the graph's nodes.
func (fd *ForceDirected) Apply(graph *models.Graph) {
	for _, n := range graph.Nodes() {
		if p, ok := fd.positions[n.ID]; ok {
			n.X = p.x
			n.Y = p.y
		}
	}
}

// Circular places nodes evenly on a circle. It is deterministic, which
// makes it the layout of choice for reproducible output.
type Circular struct {
	Width  float64
	Height float64

	positions map[string]vec
	done      bool
}

// NewCircular creates a circular layout over the default frame.
func NewCircular() *Circular {
	return &Circular{Width: 800, Height: 600}
}

func (cl *Circular) Name() string { return "circular" }

// Initialize computes the final positions immediately; Step is a no-op.
func (cl *Circular) Initialize(graph *models.Graph) {
	nodes := graph.Nodes()
	cl.positions = make(map[string]vec, len(nodes))
	cl.done = false

	cx, cy := cl.Width/2, cl.Height/2
	radius := math.Min(cl.Width, cl.Height) * 0.4
	total := float64(len(nodes))
	for i, n := range nodes {
		angle := 2 * math.Pi * float64(i) / math.Max(1, total)
		cl.positions[n.ID] = vec{
			cx + radius*math.Cos(angle),
			cy + radius*math.Sin(angle),
		}
	}
}

func (cl *Circular) Step() bool {
	cl.done = true
	return true
}

func (cl *Circular) Apply(graph *models.Graph) {
	for _, n := range graph.Nodes() {
		if p, ok := cl.positions[n.ID]; ok {
			n.X = p.x
			n.Y = p.y
		}
	}
}

// Drift decorates a base layout with simplex-noise displacement, giving
// otherwise static layouts a slow organic wander when stepped over time.
type Drift struct {
	Base      Layout
	Scale     float64
	Amount    float64
	noise     opensimplex.Noise
	timeStep  float64
	nodePhase map[string]float64
}

// NewDrift wraps base with noise displacement at the default scale.
func NewDrift(base Layout) *Drift {
	return &Drift{
		Base:   base,
		Scale:  0.03,
		Amount: 20.0,
		noise:  opensimplex.New(time.Now().UnixNano()),
	}
}

func (d *Drift) Name() string { return d.Base.Name() + "+drift" }

func (d *Drift) Initialize(graph *models.Graph) {
	d.Base.Initialize(graph)
	d.nodePhase = make(map[string]float64)
	for i, n := range graph.Nodes() {
		d.nodePhase[n.ID] = float64(i) * 0.1
	}
}

func (d *Drift) Step() bool {
	return d.Base.Step()
}

// Apply runs the base layout then displaces each node by a noise sample
// keyed on its position and the running time step.
func (d *Drift) Apply(graph *models.Graph) {
	d.Base.Apply(graph)
	for _, n := range graph.Nodes() {
		phase := d.nodePhase[n.ID]
		pulse := 1.0 + math.Sin(d.timeStep*2+phase)*0.1
		nx := d.noise.Eval3(n.X*d.Scale, n.Y*d.Scale, d.timeStep)
		ny := d.noise.Eval3(n.X*d.Scale+100, n.Y*d.Scale+100, d.timeStep)
		n.X += nx * d.Amount * pulse
		n.Y += ny * d.Amount * pulse
	}
	d.timeStep += 0.01
}

// Run initializes a layout, steps it to stability within maxSteps, and
// applies the result.
func Run(l Layout, graph *models.Graph, maxSteps int) {
	if maxSteps <= 0 {
		maxSteps = 100
	}
	l.Initialize(graph)
	for i := 0; i < maxSteps; i++ {
		if l.Step() {
			break
		}
	}
	l.Apply(graph)
}

// ByName returns a layout by its registered name, defaulting to
// force-directed for unknown names.
func ByName(name string) Layout {
	switch name {
	case "circular":
		return NewCircular()
	case "drift":
		return NewDrift(NewForceDirected())
	default:
		return NewForceDirected()
	}
}
