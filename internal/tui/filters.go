package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kimaguri/simplx-toolkit/internal/engine/composite"
	"github.com/kimaguri/simplx-toolkit/internal/engine/instance"
)

// filtersClosedMsg is sent when the filter panel overlay closes.
type filtersClosedMsg struct{}

// filtersModel is the overlay for managing one Instance's filter list: the
// All/Bookmarks singletons plus every search filter, with toggle, remove,
// and merge-strategy controls.
type filtersModel struct {
	inst   *instance.Instance
	width  int
	height int
}

func newFiltersModel(inst *instance.Instance) filtersModel {
	return filtersModel{inst: inst}
}

// SetSize updates dimensions for centering.
func (m *filtersModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Update handles filter panel keys.
func (m filtersModel) Update(msg tea.Msg) (filtersModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return filtersClosedMsg{} }

	case "up", "k":
		m.inst.MoveFilterSelection(-1)
		return m, nil

	case "down", "j":
		m.inst.MoveFilterSelection(1)
		return m, nil

	case "enter", " ":
		_ = m.inst.ToggleFilter(m.inst.SelectedFilter())
		return m, nil

	case "d", "x":
		_ = m.inst.RemoveFilter(m.inst.SelectedFilter())
		return m, nil

	case "s":
		if m.inst.Strategy() == composite.Union {
			m.inst.SetStrategy(composite.Intersection)
		} else {
			m.inst.SetStrategy(composite.Union)
		}
		return m, nil
	}

	return m, nil
}

// View renders the filter panel.
func (m filtersModel) View() string {
	maxWidth := m.width - 6
	if maxWidth < 50 {
		maxWidth = 50
	}
	if maxWidth > 90 {
		maxWidth = 90
	}

	title := modalTitleStyle.Render("Filters — " + m.inst.Name())

	filters := m.inst.Filters()
	selected := m.inst.SelectedFilter()

	var lines []string
	for i, f := range filters {
		prefix := "  "
		style := normalItemStyle
		if i == selected {
			prefix = "> "
			style = selectedItemStyle
		}

		box := "[ ]"
		if f.Enabled {
			box = "[x]"
		}

		label := f.Name
		if f.Color != "" {
			label = lipgloss.NewStyle().Foreground(lipgloss.Color(f.Color)).Render(label)
		}

		removable := ""
		if i < 2 {
			removable = dimStyle.Render(" (fixed)")
		}

		lines = append(lines, fmt.Sprintf("%s%s %s%s  %s", prefix, box, style.Render(label), removable,
			dimStyle.Render(fmt.Sprintf("%d matches", f.Set.Len()))))
	}
	body := strings.Join(lines, "\n")

	strategy := "union"
	if m.inst.Strategy() == composite.Intersection {
		strategy = "intersection"
	}
	summary := dimStyle.Render("strategy: ") + statusRunning.Render(strategy)

	help := "enter/space:toggle  d:remove  s:strategy  esc:close"

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		body,
		"",
		summary,
		"",
		dimStyle.Render(help),
	)

	popup := modalStyle.Width(maxWidth).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popup)
}
