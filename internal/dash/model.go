package dash

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/netscope/netscope/internal/dashboard"
	"github.com/netscope/netscope/internal/domain"
	"github.com/netscope/netscope/internal/render"
)

// settle animation frame rate
const tickInterval = 50 * time.Millisecond

// fixed chrome: two header lines, one blank line, one footer line
const chromeRows = 4

// refreshDoneMsg reports a completed refresh cycle
type refreshDoneMsg struct {
	err error
}

// settleTickMsg advances the layout animation one frame
type settleTickMsg time.Time

// Model is the bubbletea model for the terminal dashboard. All state
// mutation happens on the update loop; fetches run in commands and
// come back as messages.
type Model struct {
	controller *dashboard.Controller
	renderer   *dashboard.Renderer
	states     *dashboard.StateStore

	view    dashboard.View
	spinner spinner.Model

	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates the dashboard model. The initial view comes from the
// persisted state.
func New(controller *dashboard.Controller, renderer *dashboard.Renderer, states *dashboard.StateStore) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleSpinner

	return Model{
		controller: controller,
		renderer:   renderer,
		states:     states,
		view:       states.Restore(),
		spinner:    sp,
	}
}

// keyHandlers is the single place key bindings live. Adding a binding
// means adding one entry.
var keyHandlers = map[string]func(Model) (tea.Model, tea.Cmd){
	"g":      Model.showGraph,
	"t":      Model.showTree,
	"r":      Model.refresh,
	"q":      Model.quit,
	"ctrl+c": Model.quit,
}

// Init implements tea.Model. It kicks off the initial load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if handler, ok := keyHandlers[msg.String()]; ok {
			return handler(m)
		}
		return m, nil

	case refreshDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, domain.ErrRefreshInFlight) {
			log.Printf("Refresh: %v", msg.err)
		}
		if m.renderer.Settling() {
			return m, settleTick()
		}
		return m, nil

	case settleTickMsg:
		if m.renderer.Tick() {
			return m, settleTick()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.controller.Refreshing() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) showGraph() (tea.Model, tea.Cmd) {
	return m.show(dashboard.ViewGraph)
}

func (m Model) showTree() (tea.Model, tea.Cmd) {
	return m.show(dashboard.ViewTree)
}

func (m Model) show(view dashboard.View) (tea.Model, tea.Cmd) {
	m.view = view
	if err := m.states.Show(view, true); err != nil {
		log.Printf("Persist view: %v", err)
	}
	return m, nil
}

// refresh starts a warm refresh unless one is already in flight
func (m Model) refresh() (tea.Model, tea.Cmd) {
	if m.controller.Refreshing() {
		return m, nil
	}
	return m, tea.Batch(m.refreshCmd(), m.spinner.Tick)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: m.controller.Refresh(context.Background())}
	}
}

func settleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return settleTickMsg(t)
	})
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading...\n"
	}

	bodyRows := m.height - chromeRows
	if bodyRows < 3 || m.width < 20 {
		return "Terminal too small\n"
	}

	var body string
	if m.view == dashboard.ViewTree {
		body = m.renderTree(bodyRows)
	} else {
		body = m.renderGraph(bodyRows)
	}

	return m.renderHeader() + "\n\n" + body + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	line := styleTitle.Render("netscope")

	if m.controller.Refreshing() {
		line += "  " + m.spinner.View() + styleMuted.Render("refreshing")
	} else if last := m.controller.LastRefresh(); !last.IsZero() {
		line += "  " + styleMuted.Render("refreshed "+last.Format("15:04:05"))
	}

	return line + "\n" + m.renderSummary()
}

func (m Model) renderSummary() string {
	conflicts := m.controller.Conflicts()
	if conflicts == nil {
		return styleMuted.Render("no data yet")
	}

	s := conflicts.Summary
	parts := []string{
		fmt.Sprintf("%d networks", s.TotalNetworks),
		fmt.Sprintf("%d containers", s.TotalContainers),
	}
	if s.TotalConflicts == 0 {
		parts = append(parts, styleOK.Render("no conflicts"))
	} else {
		if s.CriticalCount > 0 {
			parts = append(parts, styleCritical.Render(fmt.Sprintf("%d critical", s.CriticalCount)))
		}
		if s.HighCount > 0 {
			parts = append(parts, styleHigh.Render(fmt.Sprintf("%d high", s.HighCount)))
		}
		if s.WarningCount > 0 {
			parts = append(parts, styleWarning.Render(fmt.Sprintf("%d warning", s.WarningCount)))
		}
	}

	line := strings.Join(parts, styleMuted.Render(" · "))

	if topoErr, conflictErr := m.controller.Errors(); topoErr != nil || conflictErr != nil {
		line += "  " + styleCritical.Render("refresh failed, showing stale data")
	}
	return line
}

func (m Model) renderGraph(rows int) string {
	topo := m.controller.Topology()
	if topo == nil || len(topo.Nodes) == 0 {
		return fitLines(styleMuted.Render("no topology data"), rows)
	}

	var severities map[string]domain.Severity
	if conflicts := m.controller.Conflicts(); conflicts != nil {
		severities = dashboard.SeverityByContainer(conflicts.Conflicts)
	}

	grid := newCanvas(m.width, rows)
	grid.plot(topo, m.renderer.Positions(), severities)
	return grid.render()
}

func (m Model) renderTree(rows int) string {
	conflicts := m.controller.Conflicts()
	if conflicts == nil {
		return fitLines(styleMuted.Render("no data yet"), rows)
	}
	return fitLines(render.Tree(conflicts.Tree), rows)
}

func (m Model) renderFooter() string {
	return styleMuted.Render("g graph · t tree · r refresh · q quit")
}

// fitLines clips or pads content to exactly rows lines
func fitLines(content string, rows int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > rows {
		hidden := len(lines) - rows + 1
		lines = append(lines[:rows-1], styleMuted.Render(fmt.Sprintf("… %d more lines", hidden)))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
