package domain

import "sort"

// NodeGroup selects how a graph node is rendered
type NodeGroup string

const (
	GroupNetwork   NodeGroup = "network"
	GroupContainer NodeGroup = "container"
)

// GraphNode is one vertex of the topology graph. The ID is the node's
// identity across refreshes; layout positions are keyed by it.
type GraphNode struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Group NodeGroup `json:"group"`
}

// GraphEdge links a container node to a network it is attached to
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Topology is the renderable node and edge set served by /api/topology
type Topology struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// NetworkNodeID builds the graph id for a network vertex
func NetworkNodeID(name string) string {
	return "network:" + name
}

// ContainerNodeID builds the graph id for a container vertex
func ContainerNodeID(name string) string {
	return "container:" + name
}

// BuildTopology projects a snapshot into graph form. Networks come first
// in sorted order, then distinct containers sorted by name, then one edge
// per attachment. Ordering is deterministic so equal snapshots produce
// equal graphs.
func BuildTopology(snap *Snapshot) *Topology {
	topo := &Topology{
		Nodes: []GraphNode{},
		Edges: []GraphEdge{},
	}
	if snap == nil {
		return topo
	}

	networks := snap.NetworkNames()
	for _, network := range networks {
		topo.Nodes = append(topo.Nodes, GraphNode{
			ID:    NetworkNodeID(network),
			Label: network,
			Group: GroupNetwork,
		})
	}

	containers := make(map[string]struct{})
	for _, nodes := range snap.Networks {
		for _, node := range nodes {
			containers[node.ContainerName] = struct{}{}
		}
	}
	names := make([]string, 0, len(containers))
	for name := range containers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		topo.Nodes = append(topo.Nodes, GraphNode{
			ID:    ContainerNodeID(name),
			Label: name,
			Group: GroupContainer,
		})
		for _, network := range snap.NetworksFor(name) {
			topo.Edges = append(topo.Edges, GraphEdge{
				From: ContainerNodeID(name),
				To:   NetworkNodeID(network),
			})
		}
	}
	return topo
}
