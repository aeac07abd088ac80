package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netscope/netscope/internal/domain"
	"github.com/netscope/netscope/internal/layout"
)

func testTopology() *domain.Topology {
	return &domain.Topology{
		Nodes: []domain.GraphNode{
			{ID: "network:backend", Label: "backend", Group: domain.GroupNetwork},
			{ID: "container:db", Label: "db", Group: domain.GroupContainer},
			{ID: "container:web", Label: "web", Group: domain.GroupContainer},
		},
		Edges: []domain.GraphEdge{
			{From: "network:backend", To: "container:db"},
			{From: "network:backend", To: "container:web"},
		},
	}
}

func TestApplyColdBuildsOnce(t *testing.T) {
	r := NewRenderer(900, 600)

	r.Apply(testTopology())

	assert.Equal(t, 1, r.Builds())
	assert.False(t, r.Settling(), "cold build settles synchronously")

	positions := r.Positions()
	require.Len(t, positions, 3)
	assert.Contains(t, positions, "network:backend")
	assert.Contains(t, positions, "container:db")
}

func TestApplyWarmKeepsPinnedPosition(t *testing.T) {
	r := NewRenderer(900, 600)
	r.Apply(testTopology())

	r.SetPositions(map[string]layout.Position{
		"network:backend": {X: 10, Y: 20},
	})

	// Warm apply with one extra container attached to the same network
	next := testTopology()
	next.Nodes = append(next.Nodes, domain.GraphNode{
		ID: "container:cache", Label: "cache", Group: domain.GroupContainer,
	})
	next.Edges = append(next.Edges, domain.GraphEdge{
		From: "network:backend", To: "container:cache",
	})
	r.Apply(next)

	assert.Equal(t, 2, r.Builds())

	positions := r.Positions()
	require.Contains(t, positions, "network:backend")
	assert.Equal(t, 10.0, positions["network:backend"].X)
	assert.Equal(t, 20.0, positions["network:backend"].Y)
	assert.Contains(t, positions, "container:cache")
}

func TestApplyWarmOpensSettleWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	r := NewRenderer(900, 600)
	r.now = func() time.Time { return now }

	r.Apply(testTopology())
	require.False(t, r.Settling())

	r.Apply(testTopology())
	assert.True(t, r.Settling())

	now = now.Add(500 * time.Millisecond)
	assert.True(t, r.Settling(), "window stays open inside 1100ms")

	now = now.Add(700 * time.Millisecond)
	assert.False(t, r.Settling(), "window closes after 1100ms")
}

func TestTickOnlyInsideSettleWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	r := NewRenderer(900, 600)
	r.now = func() time.Time { return now }

	r.Apply(testTopology())
	assert.False(t, r.Tick(), "no settling after a cold build")

	r.Apply(testTopology())
	assert.True(t, r.Tick())

	now = now.Add(2 * time.Second)
	assert.False(t, r.Tick())
}

func TestApplyNilTopology(t *testing.T) {
	r := NewRenderer(900, 600)

	r.Apply(nil)

	assert.Equal(t, 1, r.Builds())
	assert.Empty(t, r.Positions())
}

func TestGraphInput(t *testing.T) {
	ids, edges := GraphInput(testTopology())

	assert.Equal(t, []string{"network:backend", "container:db", "container:web"}, ids)
	require.Len(t, edges, 2)
	assert.Equal(t, layout.Edge{From: "network:backend", To: "container:db"}, edges[0])

	ids, edges = GraphInput(nil)
	assert.Empty(t, ids)
	assert.Empty(t, edges)
}
