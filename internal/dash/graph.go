package dash

import (
	"strings"

	"github.com/netscope/netscope/internal/domain"
	"github.com/netscope/netscope/internal/layout"
)

const (
	glyphNetwork   = '◉'
	glyphContainer = '●'
)

// grid margins keep glyphs off the border and leave room for labels
const (
	marginCols = 2
	marginRows = 1
)

type gridPoint struct {
	col, row int
}

type canvasCell struct {
	ch rune
	cs cellStyle
}

// canvas is a character grid the topology is plotted onto. Edges go in
// first so node glyphs and labels paint over them.
type canvas struct {
	cols, rows int
	cells      [][]canvasCell
}

func newCanvas(cols, rows int) *canvas {
	cells := make([][]canvasCell, rows)
	for i := range cells {
		row := make([]canvasCell, cols)
		for j := range row {
			row[j] = canvasCell{ch: ' '}
		}
		cells[i] = row
	}
	return &canvas{cols: cols, rows: rows, cells: cells}
}

func (c *canvas) set(col, row int, ch rune, cs cellStyle) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	c.cells[row][col] = canvasCell{ch: ch, cs: cs}
}

// line plots dots between two grid points, skipping occupied cells
func (c *canvas) line(a, b gridPoint) {
	steps := max(abs(b.col-a.col), abs(b.row-a.row))
	for i := 1; i < steps; i++ {
		col := a.col + (b.col-a.col)*i/steps
		row := a.row + (b.row-a.row)*i/steps
		if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
			continue
		}
		if c.cells[row][col].ch != ' ' {
			continue
		}
		c.cells[row][col] = canvasCell{ch: '·', cs: cellEdge}
	}
}

func (c *canvas) label(col, row int, text string, cs cellStyle) {
	for i, ch := range []rune(text) {
		if col+i >= c.cols {
			return
		}
		c.set(col+i, row, ch, cs)
	}
}

// plot projects the topology onto the grid using the layout positions.
// Nodes without a position are skipped; conflicted containers take their
// severity color on glyph and label.
func (c *canvas) plot(topo *domain.Topology, positions map[string]layout.Position, severities map[string]domain.Severity) {
	points := projectToGrid(positions, c.cols, c.rows)

	for _, e := range topo.Edges {
		from, okFrom := points[e.From]
		to, okTo := points[e.To]
		if !okFrom || !okTo {
			continue
		}
		c.line(from, to)
	}

	for _, n := range topo.Nodes {
		p, ok := points[n.ID]
		if !ok {
			continue
		}
		glyph, cs := nodeGlyph(n, severities)
		c.set(p.col, p.row, glyph, cs)

		labelStyle := cellLabel
		if cs == cellCritical || cs == cellHigh || cs == cellWarning {
			labelStyle = cs
		}
		c.label(p.col+2, p.row, n.Label, labelStyle)
	}
}

func (c *canvas) render() string {
	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		j := 0
		for j < c.cols {
			cs := row[j].cs
			k := j
			for k < c.cols && row[k].cs == cs {
				k++
			}
			var run strings.Builder
			for _, cell := range row[j:k] {
				run.WriteRune(cell.ch)
			}
			if cs == cellBlank {
				b.WriteString(run.String())
			} else {
				b.WriteString(cellStyles[cs].Render(run.String()))
			}
			j = k
		}
	}
	return b.String()
}

func nodeGlyph(n domain.GraphNode, severities map[string]domain.Severity) (rune, cellStyle) {
	if n.Group == domain.GroupNetwork {
		return glyphNetwork, cellNetwork
	}
	switch severities[n.Label] {
	case domain.SeverityCritical:
		return glyphContainer, cellCritical
	case domain.SeverityHigh:
		return glyphContainer, cellHigh
	case domain.SeverityWarning:
		return glyphContainer, cellWarning
	}
	return glyphContainer, cellContainer
}

// projectToGrid scales layout coordinates onto the character grid,
// keeping the margins free. A degenerate spread collapses to the center.
func projectToGrid(positions map[string]layout.Position, cols, rows int) map[string]gridPoint {
	points := make(map[string]gridPoint, len(positions))
	if len(positions) == 0 || cols <= 2*marginCols || rows <= 2*marginRows {
		return points
	}

	var minX, maxX, minY, maxY float64
	first := true
	for _, p := range positions {
		if first {
			minX, maxX = p.X, p.X
			minY, maxY = p.Y, p.Y
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
	usableCols := float64(cols - 1 - 2*marginCols)
	usableRows := float64(rows - 1 - 2*marginRows)

	for id, p := range positions {
		col := cols / 2
		row := rows / 2
		if spanX > 0 {
			col = marginCols + int((p.X-minX)/spanX*usableCols+0.5)
		}
		if spanY > 0 {
			row = marginRows + int((p.Y-minY)/spanY*usableRows+0.5)
		}
		points[id] = gridPoint{col: col, row: row}
	}
	return points
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
