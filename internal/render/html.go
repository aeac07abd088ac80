package render

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/netscope/netscope/internal/dashboard"
	"github.com/netscope/netscope/internal/domain"
	"github.com/netscope/netscope/internal/layout"
)

// Node and edge colors, shared between the SVG stylesheet and the
// conflict badges on the page
const (
	colorNetworkHex   = "#0171E3"
	colorContainerHex = "#2DB682"
	colorCriticalHex  = "#E74C3C"
	colorHighHex      = "#E07C3A"
	colorWarningHex   = "#F1C40F"
)

// PageData carries everything the standalone HTML page needs
type PageData struct {
	GeneratedAt time.Time
	Topology    *domain.Topology
	Positions   map[string]layout.Position
	Summary     domain.Summary
	Conflicts   []domain.Conflict
	Tree        []domain.TreeNetwork
	Width       int
	Height      int
}

// SVG renders the topology as a standalone SVG image using the layout
// positions. Containers involved in conflicts are tinted by their most
// severe one.
func SVG(topo *domain.Topology, positions map[string]layout.Position, width, height int, conflicts []domain.Conflict) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`, width, height))
	sb.WriteString("\n")
	sb.WriteString(`<style>
    .node-network { fill: ` + colorNetworkHex + `; stroke: #1a2233; stroke-width: 2px; }
    .node-container { fill: ` + colorContainerHex + `; stroke: #1a2233; stroke-width: 1px; }
    .node-critical { fill: ` + colorCriticalHex + `; stroke: #1a2233; stroke-width: 2px; }
    .node-high { fill: ` + colorHighHex + `; stroke: #1a2233; stroke-width: 2px; }
    .node-warning { fill: ` + colorWarningHex + `; stroke: #1a2233; stroke-width: 1px; }
    .link { stroke: #8888aa; stroke-opacity: 0.4; fill: none; }
    .label { font-family: -apple-system, sans-serif; font-size: 12px; fill: #e0e0e0; }
  </style>
`)

	if topo != nil {
		fitted := fitPositions(positions, float64(width), float64(height))
		severities := dashboard.SeverityByContainer(conflicts)

		// Edges first so nodes paint over them
		for _, e := range topo.Edges {
			from, okFrom := fitted[e.From]
			to, okTo := fitted[e.To]
			if !okFrom || !okTo {
				continue
			}
			sb.WriteString(fmt.Sprintf(`  <line class="link" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`,
				from.X, from.Y, to.X, to.Y))
			sb.WriteString("\n")
		}

		for _, n := range topo.Nodes {
			pos, ok := fitted[n.ID]
			if !ok {
				continue
			}
			class, radius := nodeClass(n, severities)
			sb.WriteString(fmt.Sprintf(`  <circle class="%s" cx="%.1f" cy="%.1f" r="%d"/>`,
				class, pos.X, pos.Y, radius))
			sb.WriteString("\n")
			sb.WriteString(fmt.Sprintf(`  <text class="label" x="%.1f" y="%.1f" text-anchor="middle" dy=".3em">%s</text>`,
				pos.X, pos.Y+float64(radius)+14, html.EscapeString(truncateLabel(n.Label, 24))))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Page renders the self-contained dashboard page: stats, the SVG graph
// and the conflict sections. No external assets.
func Page(data PageData) string {
	width := data.Width
	if width <= 0 {
		width = 1200
	}
	height := data.Height
	if height <= 0 {
		height = 700
	}

	svg := SVG(data.Topology, data.Positions, width, height, data.Conflicts)
	conflictSection := conflictSections(data.Conflicts)
	treeSec := treeSection(data.Tree)
	generated := data.GeneratedAt.Format("2006-01-02 15:04:05")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta http-equiv="refresh" content="15">
<title>netscope</title>
<style>
*{margin:0;padding:0;box-sizing:border-box}
body{background:#0a0e17;color:#e0e0e0;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',sans-serif;padding:24px}
h1{color:%s;font-size:22px;margin-bottom:4px}
.subtitle{color:#888;font-size:13px;margin-bottom:16px}
.stats{display:flex;gap:24px;margin-bottom:16px;font-size:13px;color:#888}
.stats b{color:#ccc}
.stat-critical b{color:%s}
.stat-high b{color:%s}
.stat-warning b{color:%s}
.graph{background:#0d1320;border:1px solid rgba(45,182,130,0.25);border-radius:12px;margin-bottom:24px}
.graph svg{display:block;width:100%%;height:auto}
h2{color:#ccc;font-size:16px;margin-bottom:12px}
.conflict{background:#0d1320;border:1px solid rgba(255,255,255,0.08);border-left:4px solid #555;border-radius:8px;padding:12px 16px;margin-bottom:10px;font-size:13px}
.conflict.critical{border-left-color:%s}
.conflict.high{border-left-color:%s}
.conflict.warning{border-left-color:%s}
.badge{display:inline-block;font-size:10px;font-weight:700;text-transform:uppercase;letter-spacing:0.05em;padding:2px 8px;border-radius:4px;background:#555;color:#0a0e17;margin-right:8px}
.badge.critical{background:%s}
.badge.high{background:%s}
.badge.warning{background:%s}
.desc{margin:6px 0;color:#ccc}
.subjects{color:#888;font-size:12px}
.remediation{margin:8px 0 0 18px;color:#888;font-size:12px}
.remediation li{margin:2px 0}
.ok{color:%s;font-size:14px;padding:12px 0}
.tree{background:#0d1320;border:1px solid rgba(255,255,255,0.08);border-radius:8px;padding:12px 16px;font-size:13px}
.tree-network{color:%s;font-weight:700;margin:8px 0 4px}
.tree-network:first-child{margin-top:0}
.tree-row{padding:2px 0 2px 18px}
.tree-row .name{color:%s}
.tree-row.critical .name{color:%s}
.tree-row.high .name{color:%s}
.tree-row.has-conflict .name{color:%s}
.tree-row .detail{color:#888;font-size:12px;padding-left:12px}
.footer{color:#555;font-size:11px;margin-top:24px}
</style>
</head>
<body>
<h1>netscope</h1>
<div class="subtitle">container network topology and DNS conflicts</div>
<div class="stats">
  <div><b>%d</b> networks</div>
  <div><b>%d</b> containers</div>
  <div class="stat-critical"><b>%d</b> critical</div>
  <div class="stat-high"><b>%d</b> high</div>
  <div class="stat-warning"><b>%d</b> warning</div>
</div>
<div class="graph">%s</div>
%s
%s
<div class="footer">Generated %s</div>
</body>
</html>`,
		colorContainerHex,
		colorCriticalHex, colorHighHex, colorWarningHex,
		colorCriticalHex, colorHighHex, colorWarningHex,
		colorCriticalHex, colorHighHex, colorWarningHex,
		colorContainerHex,
		colorNetworkHex, colorContainerHex,
		colorCriticalHex, colorHighHex, colorWarningHex,
		data.Summary.TotalNetworks,
		data.Summary.TotalContainers,
		data.Summary.CriticalCount,
		data.Summary.HighCount,
		data.Summary.WarningCount,
		svg,
		conflictSection,
		treeSec,
		html.EscapeString(generated),
	)
}

// conflictSections renders the active and potential conflict lists
// under their own headings. Empty buckets are skipped; buckets keep
// detection order rather than re-sorting by severity.
func conflictSections(conflicts []domain.Conflict) string {
	if len(conflicts) == 0 {
		return `<h2>Conflicts</h2>
<div class="ok">No conflicts detected</div>`
	}

	cl := dashboard.Classify(conflicts)
	var sb strings.Builder
	if len(cl.Active) > 0 {
		sb.WriteString(fmt.Sprintf("<h2>Active Conflicts (%d)</h2>\n", len(cl.Active)))
		sb.WriteString(renderConflictList(cl.Active))
	}
	if len(cl.Potential) > 0 {
		sb.WriteString(fmt.Sprintf("<h2>Potential Conflicts (%d)</h2>\n", len(cl.Potential)))
		sb.WriteString(renderConflictList(cl.Potential))
	}
	return sb.String()
}

func renderConflictList(conflicts []domain.Conflict) string {
	var sb strings.Builder
	for _, c := range conflicts {
		sev := html.EscapeString(string(c.Severity))
		sb.WriteString(fmt.Sprintf(`<div class="conflict %s">`, sev))
		sb.WriteString(fmt.Sprintf(`<span class="badge %s">%s</span>`, sev, sev))
		sb.WriteString(fmt.Sprintf(`<span class="subjects">%s on %s</span>`,
			html.EscapeString(c.DNSName), html.EscapeString(c.Network)))
		sb.WriteString(fmt.Sprintf(`<div class="desc">%s</div>`, html.EscapeString(c.Description)))
		sb.WriteString(fmt.Sprintf(`<div class="subjects">%s</div>`, html.EscapeString(dashboard.FormatSubjects(c))))
		if len(c.Remediation) > 0 {
			sb.WriteString(`<ol class="remediation">`)
			for _, r := range c.Remediation {
				sb.WriteString("<li>" + html.EscapeString(r) + "</li>")
			}
			sb.WriteString(`</ol>`)
		}
		sb.WriteString(`</div>`)
		sb.WriteString("\n")
	}
	return sb.String()
}

// treeSection renders the network tree: each network with its
// containers, rows tagged by the container's dominant conflict severity
// and badged with the conflicting DNS names.
func treeSection(tree []domain.TreeNetwork) string {
	if len(tree) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("<h2>Network Tree</h2>\n")
	sb.WriteString(`<div class="tree">` + "\n")
	for _, net := range tree {
		sb.WriteString(fmt.Sprintf(`<div class="tree-network">%s</div>`, html.EscapeString(net.Name)))
		sb.WriteString("\n")
		for _, c := range net.Containers {
			class := "tree-row"
			if tag := dashboard.TagFor(c); tag != dashboard.TagNone {
				class += " " + string(tag)
			}
			sb.WriteString(fmt.Sprintf(`<div class="%s"><span class="name">%s</span>`, class, html.EscapeString(c.Name)))
			for _, conf := range c.Conflicts {
				sb.WriteString(fmt.Sprintf(` <span class="badge %s">%s</span>`,
					html.EscapeString(string(conf.Severity)), html.EscapeString(conf.Name)))
			}
			if detail := dashboard.ContainerDetail(c); detail != "" {
				sb.WriteString(fmt.Sprintf(`<div class="detail">%s</div>`, html.EscapeString(detail)))
			}
			sb.WriteString(`</div>`)
			sb.WriteString("\n")
		}
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

// nodeClass picks the CSS class and radius for a topology node.
// Networks render larger than containers; conflicting containers take
// their severity class instead of the plain container one.
func nodeClass(n domain.GraphNode, severities map[string]domain.Severity) (string, int) {
	if n.Group == domain.GroupNetwork {
		return "node-network", 18
	}
	if sev, ok := severities[n.Label]; ok {
		return "node-" + string(sev), 12
	}
	return "node-container", 12
}

// fitPositions maps raw layout coordinates into the viewBox with a
// margin. A degenerate spread collapses to the center.
func fitPositions(positions map[string]layout.Position, width, height float64) map[string]layout.Position {
	if len(positions) == 0 {
		return positions
	}

	const margin = 50.0

	var minX, minY, maxX, maxY float64
	first := true
	for _, p := range positions {
		if first {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			first = false
			continue
		}
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	spanX := maxX - minX
	spanY := maxY - minY

	fitted := make(map[string]layout.Position, len(positions))
	for id, p := range positions {
		x := width / 2
		if spanX > 0 {
			x = margin + (p.X-minX)/spanX*(width-2*margin)
		}
		y := height / 2
		if spanY > 0 {
			y = margin + (p.Y-minY)/spanY*(height-2*margin)
		}
		fitted[id] = layout.Position{X: x, Y: y}
	}
	return fitted
}

func truncateLabel(label string, maxLen int) string {
	if len(label) <= maxLen {
		return label
	}
	return label[:maxLen-1] + "…"
}
