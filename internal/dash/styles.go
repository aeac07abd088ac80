package dash

import "github.com/charmbracelet/lipgloss"

var (
	colorCritical = lipgloss.Color("9")
	colorHigh     = lipgloss.Color("11")
	colorWarning  = lipgloss.Color("3")
	colorOK       = lipgloss.Color("10")
	colorCyan     = lipgloss.Color("14")
	colorMuted    = lipgloss.Color("8")
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleOK       = lipgloss.NewStyle().Foreground(colorOK)
	styleCritical = lipgloss.NewStyle().Bold(true).Foreground(colorCritical)
	styleHigh     = lipgloss.NewStyle().Bold(true).Foreground(colorHigh)
	styleWarning  = lipgloss.NewStyle().Foreground(colorWarning)
	styleSpinner  = lipgloss.NewStyle().Foreground(colorCyan)
)

// cellStyle keys the canvas cells into the styles below. Runs of equal
// cells render as one styled segment.
type cellStyle uint8

const (
	cellBlank cellStyle = iota
	cellEdge
	cellNetwork
	cellContainer
	cellCritical
	cellHigh
	cellWarning
	cellLabel
)

var cellStyles = map[cellStyle]lipgloss.Style{
	cellEdge:      lipgloss.NewStyle().Foreground(colorMuted),
	cellNetwork:   lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
	cellContainer: lipgloss.NewStyle().Foreground(colorOK),
	cellCritical:  lipgloss.NewStyle().Bold(true).Foreground(colorCritical),
	cellHigh:      lipgloss.NewStyle().Bold(true).Foreground(colorHigh),
	cellWarning:   lipgloss.NewStyle().Foreground(colorWarning),
	cellLabel:     lipgloss.NewStyle(),
}
