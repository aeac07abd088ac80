package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphNodeJSON(t *testing.T) {
	node := GraphNode{
		ID:    "container:api",
		Label: "api",
		Group: GroupContainer,
	}

	data, err := json.Marshal(node)
	require.NoError(t, err)

	var decoded GraphNode
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, node.ID, decoded.ID)
	assert.Equal(t, node.Label, decoded.Label)
	assert.Equal(t, GroupContainer, decoded.Group)
}

func TestTopologyEmptyJSON(t *testing.T) {
	topo := Topology{
		Nodes: []GraphNode{},
		Edges: []GraphEdge{},
	}

	data, err := json.Marshal(topo)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nodes":[]`)
	assert.Contains(t, string(data), `"edges":[]`)
}

func TestNodeGroupValues(t *testing.T) {
	assert.Equal(t, NodeGroup("network"), GroupNetwork)
	assert.Equal(t, NodeGroup("container"), GroupContainer)
}

func TestBuildTopology(t *testing.T) {
	snap := NewSnapshot("docker")
	snap.AddNode("backend", NetworkNode{ContainerID: "aaa111", ContainerName: "api"})
	snap.AddNode("backend", NetworkNode{ContainerID: "bbb222", ContainerName: "db"})
	snap.AddNode("frontend", NetworkNode{ContainerID: "aaa111", ContainerName: "api"})

	topo := BuildTopology(snap)

	require.Len(t, topo.Nodes, 4)
	assert.Equal(t, GraphNode{ID: "network:backend", Label: "backend", Group: GroupNetwork}, topo.Nodes[0])
	assert.Equal(t, GraphNode{ID: "network:frontend", Label: "frontend", Group: GroupNetwork}, topo.Nodes[1])
	assert.Equal(t, GraphNode{ID: "container:api", Label: "api", Group: GroupContainer}, topo.Nodes[2])
	assert.Equal(t, GraphNode{ID: "container:db", Label: "db", Group: GroupContainer}, topo.Nodes[3])

	require.Len(t, topo.Edges, 3)
	assert.Equal(t, GraphEdge{From: "container:api", To: "network:backend"}, topo.Edges[0])
	assert.Equal(t, GraphEdge{From: "container:api", To: "network:frontend"}, topo.Edges[1])
	assert.Equal(t, GraphEdge{From: "container:db", To: "network:backend"}, topo.Edges[2])
}

func TestBuildTopologyDeterministic(t *testing.T) {
	build := func() *Topology {
		snap := NewSnapshot("docker")
		snap.AddNode("zeta", NetworkNode{ContainerID: "c1", ContainerName: "worker"})
		snap.AddNode("alpha", NetworkNode{ContainerID: "c2", ContainerName: "api"})
		snap.AddNode("alpha", NetworkNode{ContainerID: "c1", ContainerName: "worker"})
		return BuildTopology(snap)
	}

	first := build()
	second := build()
	assert.Equal(t, first, second)
}

func TestBuildTopologyNilSnapshot(t *testing.T) {
	topo := BuildTopology(nil)

	assert.NotNil(t, topo.Nodes)
	assert.NotNil(t, topo.Edges)
	assert.Empty(t, topo.Nodes)
	assert.Empty(t, topo.Edges)
}
