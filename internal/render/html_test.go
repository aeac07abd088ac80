package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netscope/netscope/internal/domain"
	"github.com/netscope/netscope/internal/layout"
)

func svgTopology() *domain.Topology {
	return &domain.Topology{
		Nodes: []domain.GraphNode{
			{ID: "network:backend", Label: "backend", Group: domain.GroupNetwork},
			{ID: "container:db", Label: "db", Group: domain.GroupContainer},
		},
		Edges: []domain.GraphEdge{
			{From: "network:backend", To: "container:db"},
		},
	}
}

func svgPositions() map[string]layout.Position {
	return map[string]layout.Position{
		"network:backend": {X: 100, Y: 100},
		"container:db":    {X: 300, Y: 200},
	}
}

func TestSVGRendersNodesAndEdges(t *testing.T) {
	out := SVG(svgTopology(), svgPositions(), 800, 600, nil)

	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg"`))
	assert.True(t, strings.HasSuffix(out, "</svg>"))
	assert.Contains(t, out, `class="node-network"`)
	assert.Contains(t, out, `class="node-container"`)
	assert.Contains(t, out, `class="link"`)
	assert.Contains(t, out, ">backend</text>")
	assert.Contains(t, out, ">db</text>")
}

func TestSVGTintsConflictingContainers(t *testing.T) {
	conflicts := []domain.Conflict{
		{Severity: domain.SeverityCritical, DNSName: "db", Network: "backend", Containers: []string{"db"}},
	}

	out := SVG(svgTopology(), svgPositions(), 800, 600, conflicts)

	assert.Contains(t, out, `class="node-critical"`)
	assert.NotContains(t, out, `class="node-container"`)
}

func TestSVGEscapesLabels(t *testing.T) {
	topo := &domain.Topology{
		Nodes: []domain.GraphNode{
			{ID: "container:x", Label: "<script>", Group: domain.GroupContainer},
		},
	}
	positions := map[string]layout.Position{"container:x": {X: 10, Y: 10}}

	out := SVG(topo, positions, 800, 600, nil)

	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}

func TestSVGNilTopology(t *testing.T) {
	out := SVG(nil, nil, 800, 600, nil)

	assert.Contains(t, out, "<svg")
	assert.NotContains(t, out, "<circle")
}

func TestSVGSkipsNodesWithoutPositions(t *testing.T) {
	out := SVG(svgTopology(), map[string]layout.Position{}, 800, 600, nil)

	assert.NotContains(t, out, "<circle")
	assert.NotContains(t, out, "<line")
}

func TestFitPositionsKeepsMargin(t *testing.T) {
	positions := map[string]layout.Position{
		"a": {X: -400, Y: -300},
		"b": {X: 900, Y: 700},
		"c": {X: 250, Y: 200},
	}

	fitted := fitPositions(positions, 800, 600)

	require.Len(t, fitted, 3)
	for _, p := range fitted {
		assert.GreaterOrEqual(t, p.X, 50.0)
		assert.LessOrEqual(t, p.X, 750.0)
		assert.GreaterOrEqual(t, p.Y, 50.0)
		assert.LessOrEqual(t, p.Y, 550.0)
	}
	// Extremes land on the margins
	assert.InDelta(t, 50.0, fitted["a"].X, 0.01)
	assert.InDelta(t, 750.0, fitted["b"].X, 0.01)
}

func TestFitPositionsDegenerateSpread(t *testing.T) {
	positions := map[string]layout.Position{
		"only": {X: 123, Y: 456},
	}

	fitted := fitPositions(positions, 800, 600)

	assert.Equal(t, 400.0, fitted["only"].X)
	assert.Equal(t, 300.0, fitted["only"].Y)
}

func TestPage(t *testing.T) {
	data := PageData{
		GeneratedAt: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Topology:    svgTopology(),
		Positions:   svgPositions(),
		Summary: domain.Summary{
			TotalNetworks:   2,
			TotalContainers: 5,
			CriticalCount:   1,
		},
		Conflicts: []domain.Conflict{
			{
				Severity:    domain.SeverityCritical,
				DNSName:     "db",
				Network:     "shared",
				Containers:  []string{"immich-db", "seafile-db"},
				Description: "DNS name 'db' resolves to multiple containers on network 'shared': immich-db, seafile-db",
				Remediation: []string{"Use explicit network aliases in docker-compose.yml to give each service a unique DNS name on the shared network."},
				ConflictingNames: []domain.ConflictingName{
					{Container: "immich-db", Source: "service name"},
					{Container: "seafile-db", Source: "service name"},
				},
			},
			{
				Severity:    domain.SeverityWarning,
				DNSName:     "cache",
				Network:     "shared",
				Containers:  []string{"app-cache", "other-cache"},
				Description: "generic name warning",
			},
		},
		Tree: []domain.TreeNetwork{
			{Name: "shared", Containers: []domain.TreeContainer{{Name: "immich-db", IP: "172.18.0.2"}}},
		},
	}

	out := Page(data)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>netscope</title>")
	assert.Contains(t, out, "<b>2</b> networks")
	assert.Contains(t, out, "<b>5</b> containers")
	assert.Contains(t, out, "<b>1</b> critical")
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "<h2>Active Conflicts (1)</h2>")
	assert.Contains(t, out, "<h2>Potential Conflicts (1)</h2>")
	assert.Contains(t, out, "resolves to multiple containers")
	assert.Contains(t, out, "Conflicting: immich-db (service name), seafile-db (service name)")
	assert.Contains(t, out, "Containers: app-cache, other-cache")
	assert.Contains(t, out, "Use explicit network aliases")
	assert.Contains(t, out, "<h2>Network Tree</h2>")
	assert.Contains(t, out, "Generated 2026-03-14 10:30:00")
}

func TestConflictSectionsSplitAndOrder(t *testing.T) {
	conflicts := []domain.Conflict{
		{Severity: domain.SeverityHigh, DNSName: "h1", Network: "n", Containers: []string{"a"}},
		{Severity: domain.SeverityWarning, DNSName: "w1", Network: "n", Containers: []string{"b"}},
		{Severity: domain.SeverityCritical, DNSName: "c1", Network: "n", Containers: []string{"c"}},
	}

	out := conflictSections(conflicts)

	activeAt := strings.Index(out, "<h2>Active Conflicts (2)</h2>")
	potentialAt := strings.Index(out, "<h2>Potential Conflicts (1)</h2>")
	require.NotEqual(t, -1, activeAt)
	require.NotEqual(t, -1, potentialAt)
	assert.Less(t, activeAt, potentialAt)

	// Detection order inside the active bucket: h1 came in first
	assert.Less(t, strings.Index(out, "h1 on n"), strings.Index(out, "c1 on n"))
	assert.Less(t, potentialAt, strings.Index(out, "w1 on n"))
}

func TestConflictSectionsActiveOnly(t *testing.T) {
	conflicts := []domain.Conflict{
		{Severity: domain.SeverityCritical, DNSName: "db", Network: "n", Containers: []string{"a", "b"}},
	}

	out := conflictSections(conflicts)

	assert.Contains(t, out, "<h2>Active Conflicts (1)</h2>")
	assert.NotContains(t, out, "Potential Conflicts")
}

func TestTreeSection(t *testing.T) {
	tree := []domain.TreeNetwork{
		{
			Name: "backend",
			Containers: []domain.TreeContainer{
				{
					Name:    "db",
					IP:      "172.18.0.2",
					Service: "db",
					Conflicts: []domain.TreeConflict{
						{Name: "db", Severity: domain.SeverityHigh, Source: "service name"},
					},
				},
				{Name: "worker", IP: "172.18.0.3"},
			},
		},
	}

	out := treeSection(tree)

	assert.Contains(t, out, "<h2>Network Tree</h2>")
	assert.Contains(t, out, `<div class="tree-network">backend</div>`)
	assert.Contains(t, out, `class="tree-row high"`)
	assert.Contains(t, out, `<span class="badge high">db</span>`)
	assert.Contains(t, out, "172.18.0.2 · service: db")

	// Clean containers get the plain row class and no badge
	assert.Contains(t, out, `<div class="tree-row"><span class="name">worker</span>`)
}

func TestTreeSectionEscapes(t *testing.T) {
	tree := []domain.TreeNetwork{
		{
			Name:       "<net>",
			Containers: []domain.TreeContainer{{Name: "a&b"}},
		},
	}

	out := treeSection(tree)

	assert.Contains(t, out, "&lt;net&gt;")
	assert.Contains(t, out, "a&amp;b")
	assert.NotContains(t, out, "<net>")
}

func TestTreeSectionEmpty(t *testing.T) {
	assert.Empty(t, treeSection(nil))
}

func TestPageNoConflicts(t *testing.T) {
	out := Page(PageData{GeneratedAt: time.Now()})

	assert.Contains(t, out, "No conflicts detected")
}

func TestPageEscapesConflictText(t *testing.T) {
	data := PageData{
		GeneratedAt: time.Now(),
		Conflicts: []domain.Conflict{
			{
				Severity:    domain.SeverityHigh,
				DNSName:     "<img>",
				Network:     "net",
				Containers:  []string{"a", "b"},
				Description: "desc with <b>markup</b>",
			},
		},
	}

	out := Page(data)

	assert.Contains(t, out, "&lt;img&gt;")
	assert.Contains(t, out, "desc with &lt;b&gt;markup&lt;/b&gt;")
	assert.NotContains(t, out, "<img>")
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", truncateLabel("short", 10))
	assert.Equal(t, "exactlyten", truncateLabel("exactlyten", 10))
	out := truncateLabel("averylongcontainername", 10)
	assert.Contains(t, out, "…")
	assert.Equal(t, 9+len("…"), len(out))
}
