package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kimaguri/simplx-toolkit/internal/engine/instance"
	engviewport "github.com/kimaguri/simplx-toolkit/internal/engine/viewport"
)

// paneModel renders one Instance: its materialized window of lines, the
// engine cursor/selection highlighted in place, and an optional frozen
// visual-select overlay for screen-local copy.
type paneModel struct {
	inst         *instance.Instance
	width        int
	height       int
	selection    selectionModel
	search       searchModel
	searchFilter int // index into inst.Filters(), -1 when none active
	clipMsg      string
}

func newPaneModel(inst *instance.Instance) paneModel {
	return paneModel{inst: inst, search: newSearchModel(), searchFilter: -1}
}

// SetSize stores the content area available to this pane; gutter and
// borders are accounted for by the caller.
func (m *paneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// IsCapturingText reports whether this pane's search box is currently
// taking raw keystrokes, so the app model knows to skip its global
// single-letter shortcuts and forward every key here instead.
func (m paneModel) IsCapturingText() bool {
	return m.search.mode == searchInput
}

// contentHeight is the number of line-rows available after the search bar,
// when one is showing.
func (m paneModel) contentHeight() int {
	h := m.height
	if m.search.isActive() || m.selection.isActive() {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *paneModel) rebuild() []instance.Line {
	return m.inst.View(m.contentHeight(), m.width)
}

// Update handles keys scoped to this pane: cursor movement, bookmarking,
// search entry, and visual-select copy. Keys that open overlays (new
// buffer, close buffer, filter panel) are handled by the parent app.
func (m paneModel) Update(msg tea.Msg) (paneModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ClipboardFeedbackMsg:
		m.clipMsg = msg.Message
		return m, nil
	case ClearClipboardFeedbackMsg:
		m.clipMsg = ""
		return m, nil
	case tea.KeyMsg:
		if m.selection.isActive() {
			return m.handleSelectionKey(msg)
		}
		if m.search.mode == searchInput {
			return m.handleSearchInput(msg)
		}
		if m.search.mode == searchNavigate {
			switch msg.String() {
			case "esc":
				m.search.deactivate()
				return m, nil
			case "n":
				m.jumpMatch(engviewport.Next)
				return m, nil
			case "N":
				m.jumpMatch(engviewport.Back)
				return m, nil
			}
		}

		switch msg.String() {
		case "j", "down":
			m.moveLines(engviewport.Next, false, 1)
		case "k", "up":
			m.moveLines(engviewport.Back, false, 1)
		case "shift+down":
			m.moveLines(engviewport.Next, true, 1)
		case "shift+up":
			m.moveLines(engviewport.Back, true, 1)
		case "ctrl+d":
			m.moveHalfPage(engviewport.Next)
		case "ctrl+u":
			m.moveHalfPage(engviewport.Back)
		case "pgdown":
			m.movePage(engviewport.Next)
		case "pgup":
			m.movePage(engviewport.Back)
		case "G":
			m.inst.SetFollowOutput(true)
			m.jumpBoundary(engviewport.Next)
		case "g":
			m.inst.SetFollowOutput(false)
			m.jumpBoundary(engviewport.Back)
		case "b":
			_, top := m.currentLineNumber()
			m.inst.ToggleBookmark(top)
		case "/":
			return m, m.search.activate()
		case "v":
			lines := m.rebuild()
			content := renderPlainLines(lines, m.width)
			m.selection.activate(viewport.Model{Width: m.width, Height: len(lines)}, content)
			return m, nil
		case "y":
			lines := m.rebuild()
			content := renderPlainLines(lines, m.width)
			return m, copyAllLines(content)
		}
		return m, nil
	}
	return m, nil
}

func (m *paneModel) moveLines(dir engviewport.Direction, sel bool, n int) {
	m.inst.SetFollowOutput(false)
	m.inst.MoveSelect(dir, sel, instance.ViewDelta{Kind: instance.DeltaLines, Lines: n})
}

func (m *paneModel) movePage(dir engviewport.Direction) {
	m.inst.SetFollowOutput(false)
	m.inst.MoveSelect(dir, false, instance.ViewDelta{Kind: instance.DeltaPage})
}

func (m *paneModel) moveHalfPage(dir engviewport.Direction) {
	m.inst.SetFollowOutput(false)
	m.inst.MoveSelect(dir, false, instance.ViewDelta{Kind: instance.DeltaHalfPage})
}

func (m *paneModel) jumpBoundary(dir engviewport.Direction) {
	m.inst.MoveSelect(dir, false, instance.ViewDelta{Kind: instance.DeltaBoundary})
}

func (m *paneModel) jumpMatch(dir engviewport.Direction) {
	// The cursor moves in composite virtual-index space, so when the All
	// filter is disabled and a search filter is enabled, a single line step
	// lands on the next or previous matching row. While All is enabled the
	// composite is every line, and this moves one line.
	m.inst.MoveSelect(dir, false, instance.ViewDelta{Kind: instance.DeltaLines, Lines: 1})
}

func (m *paneModel) currentLineNumber() (virtual, line int) {
	lines := m.rebuild()
	cur := m.inst.Cursor().State
	idx := cur.Index
	if cur.Kind == engviewport.Selection {
		idx = cur.End
	}
	for _, l := range lines {
		if l.VirtualIndex == idx {
			return l.VirtualIndex, l.LineNumber
		}
	}
	if len(lines) > 0 {
		return lines[0].VirtualIndex, lines[0].LineNumber
	}
	return 0, 0
}

func (m paneModel) handleSearchInput(msg tea.KeyMsg) (paneModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.deactivate()
		return m, nil
	case "enter":
		query := m.search.input.Value()
		m.search.enterNavigateMode()
		if query == "" {
			return m, nil
		}
		idx, err := m.inst.AddSearch(query, query, nextFilterColor(m.inst))
		if err != nil {
			m.clipMsg = fmt.Sprintf("[search error: %v]", err)
			return m, nil
		}
		m.searchFilter = idx
		return m, nil
	}
	cmd := m.search.update(msg)
	return m, cmd
}

func (m paneModel) handleSelectionKey(msg tea.KeyMsg) (paneModel, tea.Cmd) {
	action := m.selection.handleKey(msg.String(), m.contentHeight())
	switch action {
	case selActionMoved:
		return m, nil
	case selActionCopy:
		text := m.selection.selectedText()
		count := m.selection.selectedLineCount()
		m.selection.deactivate()
		return m, copySelectedLines(text, count)
	case selActionCancel:
		m.selection.deactivate()
		return m, nil
	}
	return m, nil
}

// View renders the pane's current window, the search or selection status
// bar, and clipboard feedback if any.
func (m paneModel) View() string {
	lines := m.rebuild()
	cur := m.inst.Cursor().State

	rows := make([]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, m.renderRow(l, cur))
	}
	for len(rows) < m.contentHeight() {
		rows = append(rows, "")
	}

	if m.selection.isActive() {
		vp := viewport.Model{Width: m.width, Height: len(rows)}
		m.selection.applyToViewport(&vp)
		body := vp.View()
		return lipgloss.JoinVertical(lipgloss.Left, body, m.selection.renderStatusBar(m.width))
	}

	body := strings.Join(rows, "\n")
	if m.search.isActive() {
		m.refreshMatchCount()
		return lipgloss.JoinVertical(lipgloss.Left, body, m.search.renderSearchBar(m.width))
	}
	return body
}

// refreshMatchCount reads the live count off the search filter's own
// MatchSet, which keeps growing in the background as its worker scans.
func (m *paneModel) refreshMatchCount() {
	filters := m.inst.Filters()
	if m.searchFilter < 0 || m.searchFilter >= len(filters) {
		return
	}
	m.search.matchCount = filters[m.searchFilter].Set.Len()
}

func (m paneModel) renderRow(l instance.Line, cur engviewport.Cursor) string {
	marker := " "
	if l.Bookmarked {
		marker = lipgloss.NewStyle().Foreground(colorYellow).Render("*")
	}
	gutter := dimStyle.Render(fmt.Sprintf("%6d ", l.LineNumber+1))
	text := sanitizeLine(l.Text.String())
	row := marker + gutter + text

	selected := false
	switch cur.Kind {
	case engviewport.Singleton:
		selected = l.VirtualIndex == cur.Index
	case engviewport.Selection:
		selected = l.VirtualIndex >= cur.Start && l.VirtualIndex <= cur.End
	}

	if lipgloss.Width(row) > m.width {
		row = lipgloss.NewStyle().MaxWidth(m.width).Render(row)
	}
	if selected {
		return selectionCursorStyle.Render(padToWidth(row, m.width))
	}
	return row
}

// renderPlainLines renders lines without cursor highlighting, for the
// visual-select freeze snapshot and for plain-text copy.
func renderPlainLines(lines []instance.Line, width int) string {
	rows := make([]string, 0, len(lines))
	for _, l := range lines {
		marker := " "
		if l.Bookmarked {
			marker = "*"
		}
		rows = append(rows, fmt.Sprintf("%s%6d %s", marker, l.LineNumber+1, sanitizeLine(l.Text.String())))
	}
	return strings.Join(rows, "\n")
}

// filterColorPalette cycles a small fixed palette keyed to how many search
// filters an Instance already has, so successive filters stay visually
// distinct without the user naming a color.
var filterColorPalette = []string{"blue", "magenta", "cyan", "green", "red"}

func nextFilterColor(inst *instance.Instance) string {
	return filterColorPalette[len(inst.Filters())%len(filterColorPalette)]
}
