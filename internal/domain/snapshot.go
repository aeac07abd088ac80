package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// NameSource identifies where a resolvable DNS name came from
type NameSource string

const (
	SourceContainerName NameSource = "container name"
	SourceServiceName   NameSource = "service name"
	SourceAlias         NameSource = "alias"
)

// NetworkNode is one container's attachment to a single network
type NetworkNode struct {
	ContainerID    string
	ContainerName  string
	IPAddress      string
	Aliases        []string
	ServiceName    string
	ComposeProject string
}

// DNSNameEntry pairs a resolvable name with where it was declared
type DNSNameEntry struct {
	Name   string
	Source NameSource
}

// DNSNameEntries lists every name the embedded DNS resolves to this
// container on its network: the container name, the compose service name
// when present, and any explicit aliases. Duplicates are dropped keeping
// the first occurrence, so the container name wins attribution.
func (n NetworkNode) DNSNameEntries() []DNSNameEntry {
	entries := make([]DNSNameEntry, 0, 2+len(n.Aliases))
	seen := make(map[string]struct{}, 2+len(n.Aliases))

	add := func(name string, source NameSource) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		entries = append(entries, DNSNameEntry{Name: name, Source: source})
	}

	add(n.ContainerName, SourceContainerName)
	add(n.ServiceName, SourceServiceName)
	for _, alias := range n.Aliases {
		add(alias, SourceAlias)
	}
	return entries
}

// DNSNames returns just the names from DNSNameEntries, in the same order
func (n NetworkNode) DNSNames() []string {
	entries := n.DNSNameEntries()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Snapshot is one collector pass over the environment: every discovered
// network and the containers attached to it. Snapshots are immutable once
// handed to the analysis side; a refresh produces a new one.
type Snapshot struct {
	ID       string
	Source   string
	TakenAt  time.Time
	Networks map[string][]NetworkNode

	// byContainer indexes container name to the networks it appears on
	byContainer map[string]map[string]struct{}
}

// NewSnapshot allocates an empty snapshot tagged with its source
func NewSnapshot(source string) *Snapshot {
	return &Snapshot{
		ID:          uuid.New().String()[:8],
		Source:      source,
		TakenAt:     time.Now().UTC(),
		Networks:    make(map[string][]NetworkNode),
		byContainer: make(map[string]map[string]struct{}),
	}
}

// AddNode records a container attachment on the named network
func (s *Snapshot) AddNode(network string, node NetworkNode) {
	s.Networks[network] = append(s.Networks[network], node)
	if s.byContainer == nil {
		s.byContainer = make(map[string]map[string]struct{})
	}
	nets, ok := s.byContainer[node.ContainerName]
	if !ok {
		nets = make(map[string]struct{})
		s.byContainer[node.ContainerName] = nets
	}
	nets[network] = struct{}{}
}

// AddNetwork ensures the named network exists even with no containers
func (s *Snapshot) AddNetwork(network string) {
	if _, ok := s.Networks[network]; !ok {
		s.Networks[network] = nil
	}
}

// NetworkNames returns every network name in sorted order
func (s *Snapshot) NetworkNames() []string {
	names := make([]string, 0, len(s.Networks))
	for name := range s.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ContainerNames returns every distinct container name in sorted order
func (s *Snapshot) ContainerNames() []string {
	names := make([]string, 0, len(s.byContainer))
	for name := range s.byContainer {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NetworksFor returns the sorted networks a container is attached to
func (s *Snapshot) NetworksFor(containerName string) []string {
	nets := make([]string, 0, len(s.byContainer[containerName]))
	for name := range s.byContainer[containerName] {
		nets = append(nets, name)
	}
	sort.Strings(nets)
	return nets
}

// NetworkCount is the number of discovered networks
func (s *Snapshot) NetworkCount() int {
	return len(s.Networks)
}

// ContainerCount is the number of distinct containers across all networks
func (s *Snapshot) ContainerCount() int {
	ids := make(map[string]struct{})
	for _, nodes := range s.Networks {
		for _, node := range nodes {
			ids[node.ContainerID] = struct{}{}
		}
	}
	return len(ids)
}

// Empty reports whether the snapshot holds no networks at all
func (s *Snapshot) Empty() bool {
	return len(s.Networks) == 0
}
