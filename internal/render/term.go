package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/netscope/netscope/internal/dashboard"
	"github.com/netscope/netscope/internal/domain"
)

// Terminal palette
var (
	colorCritical = lipgloss.Color("9")
	colorHigh     = lipgloss.Color("11")
	colorWarning  = lipgloss.Color("3")
	colorOK       = lipgloss.Color("10")
	colorCyan     = lipgloss.Color("14")
	colorMuted    = lipgloss.Color("8")
	colorBlue     = lipgloss.Color("12")
)

var (
	styleCritical = lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	styleHigh     = lipgloss.NewStyle().Foreground(colorHigh).Bold(true)
	styleWarning  = lipgloss.NewStyle().Foreground(colorWarning)
	styleOK       = lipgloss.NewStyle().Foreground(colorOK)
	styleNetwork  = lipgloss.NewStyle().Foreground(colorCyan)
	styleName     = lipgloss.NewStyle().Foreground(colorOK)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleBold     = lipgloss.NewStyle().Bold(true)
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	stylePanelOK = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorOK).
			Padding(0, 1)
	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Padding(0, 1)
)

// Summary renders the one-line conflict summary
func Summary(r *domain.Report) string {
	if !r.HasConflicts() {
		return styleOK.Render("OK") + " - No conflicts detected"
	}

	var parts []string
	if n := r.CriticalCount(); n > 0 {
		parts = append(parts, styleCritical.Render(fmt.Sprintf("%d critical", n)))
	}
	if n := r.HighCount(); n > 0 {
		parts = append(parts, styleHigh.Render(fmt.Sprintf("%d high", n)))
	}
	if n := r.WarningCount(); n > 0 {
		parts = append(parts, styleWarning.Render(fmt.Sprintf("%d warning", n)))
	}
	return styleBold.Render("Conflicts:") + " " + strings.Join(parts, ", ")
}

// ConflictReport renders the full report: summary panel, conflict table
// and recommended actions for critical and high findings
func ConflictReport(r *domain.Report) string {
	if !r.HasConflicts() {
		return stylePanelOK.Render(
			styleBold.Render("Conflict Report") + "\n" + styleOK.Render("No conflicts detected"))
	}

	var sb strings.Builder

	var sum strings.Builder
	sum.WriteString(fmt.Sprintf("Networks scanned: %d\n", r.TotalNetworks))
	sum.WriteString(fmt.Sprintf("Containers found: %d\n", r.TotalContainers))
	sum.WriteString(fmt.Sprintf("Total conflicts: %d", len(r.Conflicts)))
	if n := r.CriticalCount(); n > 0 {
		sum.WriteString("\n" + styleCritical.Render(fmt.Sprintf("  Critical: %d", n)))
	}
	if n := r.HighCount(); n > 0 {
		sum.WriteString("\n" + styleHigh.Render(fmt.Sprintf("  High: %d", n)))
	}
	if n := r.WarningCount(); n > 0 {
		sum.WriteString("\n" + styleWarning.Render(fmt.Sprintf("  Warning: %d", n)))
	}
	sb.WriteString(stylePanel.Render(styleBold.Render("Summary") + "\n" + sum.String()))
	sb.WriteString("\n\n")

	sorted := dashboard.SortBySeverity(r.Conflicts)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleMuted).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("SEVERITY", "NETWORK", "DNS NAME", "CONTAINERS", "DESCRIPTION")
	for _, c := range sorted {
		t.Row(severityCell(c.Severity), c.Network, c.DNSName,
			strings.Join(c.Containers, ", "), c.Description)
	}
	sb.WriteString(styleTitle.Render("Detected Conflicts"))
	sb.WriteString("\n")
	sb.WriteString(t.Render())

	if rem := renderRemediation(sorted); rem != "" {
		sb.WriteString("\n\n")
		sb.WriteString(rem)
	}
	return sb.String()
}

func renderRemediation(sorted []domain.Conflict) string {
	// Only active conflicts get action items; warnings are informational
	actionable := dashboard.Classify(sorted).Active
	if len(actionable) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(styleTitle.Render("Recommended Actions"))
	sb.WriteString("\n")
	for i, c := range actionable {
		style := styleHigh
		if c.Severity == domain.SeverityCritical {
			style = styleCritical
		}
		sb.WriteString("\n")
		sb.WriteString(style.Render(fmt.Sprintf("%d. %s", i+1, c.DNSName)))
		sb.WriteString(" " + styleMuted.Render("on "+c.Network))
		sb.WriteString("\n")
		for j, action := range c.Remediation {
			sb.WriteString(fmt.Sprintf("   %s %s\n", styleMuted.Render(fmt.Sprintf("%d.", j+1)), action))
		}
	}
	return sb.String()
}

// Tree renders the network tree with conflict markers
func Tree(networks []domain.TreeNetwork) string {
	var sb strings.Builder
	sb.WriteString(styleBold.Render("Networks"))
	sb.WriteString("\n")

	for i, net := range networks {
		branch, cont := "├── ", "│   "
		if i == len(networks)-1 {
			branch, cont = "└── ", "    "
		}
		sb.WriteString(branch + styleNetwork.Render(net.Name) + "\n")

		for j, c := range net.Containers {
			cBranch, cCont := "├── ", "│   "
			if j == len(net.Containers)-1 {
				cBranch, cCont = "└── ", "    "
			}
			sb.WriteString(cont + cBranch + containerLabel(c) + "\n")

			details := containerDetails(c)
			for k, d := range details {
				dBranch := "├── "
				if k == len(details)-1 {
					dBranch = "└── "
				}
				sb.WriteString(cont + cCont + dBranch + styleMuted.Render(d) + "\n")
			}
		}
	}
	return sb.String()
}

// containerLabel builds the container's tree row: name, ip and deduped
// conflict markers in DNS declaration order
func containerLabel(c domain.TreeContainer) string {
	parts := []string{styleName.Render(c.Name)}
	if c.IP != "" {
		parts = append(parts, styleMuted.Render("("+c.IP+")"))
	}

	seen := make(map[string]bool)
	for _, conf := range c.Conflicts {
		m := severityMarker(conf.Severity)
		if !seen[m] {
			seen[m] = true
			parts = append(parts, m)
		}
	}
	return strings.Join(parts, " ")
}

func containerDetails(c domain.TreeContainer) []string {
	var details []string
	if c.Service != "" && c.Service != c.Name {
		details = append(details, "service: "+c.Service)
	}
	if len(c.Aliases) > 0 {
		details = append(details, "aliases: "+strings.Join(c.Aliases, ", "))
	}
	return details
}

func severityMarker(sev domain.Severity) string {
	switch sev {
	case domain.SeverityCritical:
		return styleCritical.Render("CRITICAL")
	case domain.SeverityHigh:
		return styleHigh.Render("CONFLICT")
	default:
		return styleWarning.Render("warning")
	}
}

func severityCell(sev domain.Severity) string {
	label := strings.ToUpper(string(sev))
	switch sev {
	case domain.SeverityCritical:
		return styleCritical.Render(label)
	case domain.SeverityHigh:
		return styleHigh.Render(label)
	default:
		return styleWarning.Render(label)
	}
}
