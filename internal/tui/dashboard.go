package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kimaguri/simplx-toolkit/internal/engine/mux"
)

// renderTabBar renders one tab per open Instance, highlighting the active
// one and marking linked mode when on.
func renderTabBar(m *mux.Multiplexer, width int) string {
	if m.IsEmpty() {
		return helpStyle.Width(width).Render(" no buffers open — ctrl+o to open a file ")
	}

	var tabs []string
	for i, in := range m.Views() {
		label := fmt.Sprintf(" %d:%s ", i+1, in.Name())
		if !in.Buffer().IsComplete() {
			label += "… "
		}
		if i == m.Active() {
			tabs = append(tabs, activeButtonStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveButtonStyle.Render(label))
		}
	}

	bar := strings.Join(tabs, "")
	if m.Linked() {
		bar += "  " + statusRunning.Render("[linked]")
	}
	if lipgloss.Width(bar) > width {
		bar = lipgloss.NewStyle().MaxWidth(width).Render(bar)
	}
	return lipgloss.NewStyle().Width(width).Render(bar)
}

// renderHelpBar renders the bottom key-hint strip.
func renderHelpBar(width int) string {
	help := " ctrl+o:open  ctrl+w:close  tab:next  ctrl+p:panes/tabs  ctrl+l:linked  f:filters  /:search  v:select  y:copy  b:bookmark  q:quit "
	return helpStyle.Width(width).Render(help)
}

// buildTopBorder and buildBottomBorder frame a pane in Panes mode, the way
// the teacher's dashboard frames its process/log split.
func buildTopBorder(title string, width int) string {
	return buildBodyLine(sectionStyle.Render(title), width, "╭", "╮")
}

func buildBottomBorder(width int) string {
	return buildBodyLine("", width, "╰", "╯")
}

func buildBodyLine(inner string, width int, left, right string) string {
	innerWidth := width - lipgloss.Width(left) - lipgloss.Width(right)
	if innerWidth < 0 {
		innerWidth = 0
	}
	pad := innerWidth - lipgloss.Width(inner)
	if pad < 0 {
		pad = 0
	}
	return left + inner + strings.Repeat("─", pad) + right
}

// renderPanesLayout stacks every pane's rendered body vertically, each
// framed with its own title border, for Panes mode.
func renderPanesLayout(m *mux.Multiplexer, bodies []string, width int) string {
	var out []string
	for i, body := range bodies {
		title := m.At(i).Name()
		if i == m.Active() {
			title = "* " + title
		}
		out = append(out, buildTopBorder(title, width), body, buildBottomBorder(width))
	}
	return strings.Join(out, "\n")
}
