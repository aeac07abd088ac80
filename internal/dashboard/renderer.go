package dashboard

import (
	"sync"
	"time"

	"github.com/netscope/netscope/internal/domain"
	"github.com/netscope/netscope/internal/layout"
)

// settleWindow is how long the simulation keeps relaxing after a warm
// refresh before the view stops redrawing
const settleWindow = 1100 * time.Millisecond

// cold build stabilization bounds
const (
	coldIterations = 600
	coldEpsilon    = 0.5
)

// Renderer owns the layout engine lifecycle across refreshes. The first
// topology triggers a cold build that stabilizes synchronously; every
// later one merges into the running simulation so surviving nodes keep
// their positions, then opens a settle window during which Tick advances
// the physics frame by frame.
type Renderer struct {
	mu     sync.Mutex
	engine *layout.Engine
	now    func() time.Time

	builds      int
	settleUntil time.Time
}

// NewRenderer creates a renderer with an empty layout of the given size
func NewRenderer(width, height float64) *Renderer {
	return &Renderer{
		engine: layout.NewEngine(width, height),
		now:    time.Now,
	}
}

// Apply feeds a topology into the layout. Cold on first call, warm merge
// afterwards.
func (r *Renderer) Apply(topo *domain.Topology) {
	ids, edges := GraphInput(topo)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.builds == 0 {
		r.engine.SetGraph(ids, edges)
		r.engine.Stabilize(coldIterations, coldEpsilon)
	} else {
		r.engine.Merge(ids, edges)
		r.settleUntil = r.now().Add(settleWindow)
	}
	r.builds++
}

// Settling reports whether the post-refresh settle window is open
func (r *Renderer) Settling() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now().Before(r.settleUntil)
}

// Tick advances the simulation one frame while the settle window is
// open and reports whether the caller should redraw
func (r *Renderer) Tick() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.now().Before(r.settleUntil) {
		return false
	}
	r.engine.Step()
	return true
}

// Positions returns a copy of the current node positions keyed by node id
func (r *Renderer) Positions() map[string]layout.Position {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.Positions()
}

// SetPositions pins known nodes to the given positions, for example
// after the user drags a node. Unknown ids are ignored.
func (r *Renderer) SetPositions(positions map[string]layout.Position) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engine.SetPositions(positions)
}

// Builds returns how many topologies have been applied
func (r *Renderer) Builds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.builds
}

// GraphInput flattens a topology into the id and edge lists the layout
// engine consumes. A nil topology yields an empty graph.
func GraphInput(topo *domain.Topology) ([]string, []layout.Edge) {
	if topo == nil {
		return nil, nil
	}
	ids := make([]string, 0, len(topo.Nodes))
	for _, n := range topo.Nodes {
		ids = append(ids, n.ID)
	}
	edges := make([]layout.Edge, 0, len(topo.Edges))
	for _, e := range topo.Edges {
		edges = append(edges, layout.Edge{From: e.From, To: e.To})
	}
	return ids, edges
}
