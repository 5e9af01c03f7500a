package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kimaguri/simplx-toolkit/internal/engine/buffer"
)

// OpenRequestMsg is emitted when the user submits a path to open.
type OpenRequestMsg struct {
	Path string
}

// cancelOpenMsg signals the open-file prompt should close without action.
type cancelOpenMsg struct{}

// openModel is a single-line prompt for the path of a file to open as a
// new buffer, the log-viewer analogue of the teacher's multi-step launch
// wizard.
type openModel struct {
	input  textinput.Model
	recent []string
	width  int
	height int
}

func newOpenModel(recent []string) openModel {
	ti := textinput.New()
	ti.Placeholder = "/path/to/file.log"
	ti.Width = 60
	ti.CharLimit = 4096
	ti.Focus()
	return openModel{input: ti, recent: recent}
}

func (m openModel) Init() tea.Cmd { return textinput.Blink }

func (m openModel) Update(msg tea.Msg) (openModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, func() tea.Msg { return cancelOpenMsg{} }
		case "enter":
			path := strings.TrimSpace(m.input.Value())
			if path == "" {
				return m, nil
			}
			path = expandPath(path)
			return m, func() tea.Msg { return OpenRequestMsg{Path: path} }
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m openModel) View() string {
	maxWidth := m.width * 70 / 100
	if maxWidth < 40 {
		maxWidth = 40
	}
	if maxWidth > 100 {
		maxWidth = 100
	}

	title := modalTitleStyle.Render("Open File")

	var recentBlock string
	if len(m.recent) > 0 {
		var lines []string
		lines = append(lines, sectionStyle.Render("recent:"))
		for _, p := range m.recent {
			lines = append(lines, dimStyle.Render("  "+p))
		}
		recentBlock = lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		m.input.View(),
		"",
		recentBlock,
		dimStyle.Render("enter:open  esc:cancel"),
	)

	popup := modalStyle.Width(maxWidth).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popup)
}

// SetSize updates dimensions for centering.
func (m *openModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func expandPath(path string) string {
	if path == "-" {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}

// openBuffer opens path as a Buffer, honoring "-" as stdin.
func openBuffer(path string, lruCapacity int) (*buffer.Buffer, error) {
	if path == "-" {
		return buffer.OpenStream(os.Stdin), nil
	}
	b, err := buffer.OpenFile(path, lruCapacity)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return b, nil
}
