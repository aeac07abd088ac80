package layout

import "math"

// Position is a node's coordinate in layout space
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Physics holds the tuning constants of the force model
type Physics struct {
	SpringLength   float64
	SpringConstant float64
	Repulsion      float64
	Damping        float64
	Gravity        float64
}

// DefaultPhysics returns the standard force tuning
func DefaultPhysics() Physics {
	return Physics{
		SpringLength:   120,
		SpringConstant: 0.005,
		Repulsion:      2000,
		Damping:        0.85,
		Gravity:        0.001,
	}
}

// Edge joins two node ids in the simulation
type Edge struct {
	From string
	To   string
}

type simNode struct {
	id     string
	x, y   float64
	vx, vy float64
}

// Engine runs a force-directed simulation over the current node set.
// Each Step applies center gravity, pairwise repulsion and edge springs,
// then damped integration. Not safe for concurrent use.
type Engine struct {
	physics Physics
	width   float64
	height  float64

	order []string
	nodes map[string]*simNode
	edges []Edge
}

// NewEngine builds an empty simulation over a width by height canvas
func NewEngine(width, height float64) *Engine {
	return &Engine{
		physics: DefaultPhysics(),
		width:   width,
		height:  height,
		nodes:   make(map[string]*simNode),
	}
}

// SetPhysics replaces the force tuning for subsequent steps
func (e *Engine) SetPhysics(p Physics) {
	e.physics = p
}

// Physics returns the current force tuning
func (e *Engine) Physics() Physics {
	return e.physics
}

// NodeCount is the number of simulated nodes
func (e *Engine) NodeCount() int {
	return len(e.order)
}

// SetGraph discards all simulation state and places the given nodes on a
// circle around the canvas center, in the order given. Placement is
// deterministic so identical input yields identical layouts.
func (e *Engine) SetGraph(ids []string, edges []Edge) {
	e.order = e.order[:0]
	e.nodes = make(map[string]*simNode, len(ids))
	cx, cy := e.width/2, e.height/2
	radius := math.Min(e.width, e.height) * 0.35
	for i, id := range ids {
		if _, ok := e.nodes[id]; ok {
			continue
		}
		angle := 2 * math.Pi * float64(i) / float64(max(len(ids), 1))
		e.nodes[id] = &simNode{
			id: id,
			x:  cx + radius*math.Cos(angle),
			y:  cy + radius*math.Sin(angle),
		}
		e.order = append(e.order, id)
	}
	e.edges = filterEdges(edges, e.nodes)
}

// Merge replaces the node set while keeping position and velocity for
// every surviving id. Vanished nodes are dropped. New nodes are seeded
// next to an already placed neighbor when an edge names one, otherwise
// near the canvas center, fanned out deterministically so they do not
// stack on a single point.
func (e *Engine) Merge(ids []string, edges []Edge) {
	next := make(map[string]*simNode, len(ids))
	order := make([]string, 0, len(ids))

	var fresh []string
	for _, id := range ids {
		if _, ok := next[id]; ok {
			continue
		}
		if node, ok := e.nodes[id]; ok {
			next[id] = node
		} else {
			fresh = append(fresh, id)
			next[id] = nil
		}
		order = append(order, id)
	}

	cx, cy := e.width/2, e.height/2
	for i, id := range fresh {
		seedX, seedY := cx, cy
		for _, edge := range edges {
			var other string
			switch id {
			case edge.From:
				other = edge.To
			case edge.To:
				other = edge.From
			default:
				continue
			}
			if neighbor, ok := next[other]; ok && neighbor != nil {
				seedX, seedY = neighbor.x, neighbor.y
				break
			}
		}
		// golden-angle fan keeps simultaneous arrivals apart
		angle := 2.399963 * float64(i)
		offset := e.physics.SpringLength * 0.5
		next[id] = &simNode{
			id: id,
			x:  seedX + offset*math.Cos(angle),
			y:  seedY + offset*math.Sin(angle),
		}
	}

	e.order = order
	e.nodes = next
	e.edges = filterEdges(edges, next)
}

func filterEdges(edges []Edge, nodes map[string]*simNode) []Edge {
	kept := make([]Edge, 0, len(edges))
	for _, edge := range edges {
		if _, ok := nodes[edge.From]; !ok {
			continue
		}
		if _, ok := nodes[edge.To]; !ok {
			continue
		}
		kept = append(kept, edge)
	}
	return kept
}

// Position reports a node's current coordinate
func (e *Engine) Position(id string) (Position, bool) {
	node, ok := e.nodes[id]
	if !ok {
		return Position{}, false
	}
	return Position{X: node.x, Y: node.y}, true
}

// Positions snapshots every node coordinate keyed by id
func (e *Engine) Positions() map[string]Position {
	out := make(map[string]Position, len(e.nodes))
	for id, node := range e.nodes {
		out[id] = Position{X: node.x, Y: node.y}
	}
	return out
}

// SetPosition pins a node to a coordinate and zeroes its velocity.
// Unknown ids are ignored.
func (e *Engine) SetPosition(id string, p Position) {
	node, ok := e.nodes[id]
	if !ok {
		return
	}
	node.x, node.y = p.X, p.Y
	node.vx, node.vy = 0, 0
}

// SetPositions applies a saved coordinate map, ignoring unknown ids
func (e *Engine) SetPositions(positions map[string]Position) {
	for id, p := range positions {
		e.SetPosition(id, p)
	}
}

// Step advances the simulation one tick and returns the largest single
// node displacement, which callers use as a settling measure.
func (e *Engine) Step() float64 {
	p := e.physics
	cx, cy := e.width/2, e.height/2

	for _, id := range e.order {
		n := e.nodes[id]
		n.vx += (cx - n.x) * p.Gravity
		n.vy += (cy - n.y) * p.Gravity
	}

	for i := 0; i < len(e.order); i++ {
		a := e.nodes[e.order[i]]
		for j := i + 1; j < len(e.order); j++ {
			b := e.nodes[e.order[j]]
			dx := b.x - a.x
			dy := b.y - a.y
			d2 := dx*dx + dy*dy
			if d2 < 1 {
				d2 = 1
			}
			f := p.Repulsion / d2
			fx, fy := dx*f, dy*f
			a.vx -= fx
			a.vy -= fy
			b.vx += fx
			b.vy += fy
		}
	}

	for _, edge := range e.edges {
		a := e.nodes[edge.From]
		b := e.nodes[edge.To]
		dx := b.x - a.x
		dy := b.y - a.y
		d := math.Sqrt(dx*dx + dy*dy)
		if d == 0 {
			d = 1
		}
		f := (d - p.SpringLength) * p.SpringConstant
		fx, fy := dx/d*f, dy/d*f
		a.vx += fx
		a.vy += fy
		b.vx -= fx
		b.vy -= fy
	}

	maxDisp := 0.0
	for _, id := range e.order {
		n := e.nodes[id]
		n.vx *= p.Damping
		n.vy *= p.Damping
		n.x += n.vx
		n.y += n.vy
		if disp := math.Hypot(n.vx, n.vy); disp > maxDisp {
			maxDisp = disp
		}
	}
	return maxDisp
}

// Stabilize steps until the largest displacement drops below epsilon or
// maxIterations is spent, and returns the number of steps taken.
func (e *Engine) Stabilize(maxIterations int, epsilon float64) int {
	for i := 0; i < maxIterations; i++ {
		if e.Step() < epsilon {
			return i + 1
		}
	}
	return maxIterations
}
