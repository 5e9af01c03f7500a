package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kimaguri/simplx-toolkit/internal/config"
	"github.com/kimaguri/simplx-toolkit/internal/engine/instance"
	"github.com/kimaguri/simplx-toolkit/internal/engine/mux"
)

// overlayState tracks the current overlay (popup) on top of the buffer view.
type overlayState int

const (
	overlayNone overlayState = iota
	overlayOpen
	overlayConfirmClose
	overlayFilters
)

// App is the root tea.Model: a Multiplexer of open buffers, the active
// overlay, and the per-Instance pane state that survives across frames.
type App struct {
	cfg     *config.Config
	mux     *mux.Multiplexer
	panes   map[*instance.Instance]*paneModel
	overlay overlayState
	open    openModel
	confirm confirmModel
	filters filtersModel
	width   int
	height  int
}

// NewApp creates the root application model, optionally opening the paths
// already given on the command line.
func NewApp(cfg *config.Config, paths []string) App {
	app := App{
		cfg:   cfg,
		mux:   mux.New(),
		panes: make(map[*instance.Instance]*paneModel),
	}
	for _, p := range paths {
		app.openPath(p)
	}
	if app.mux.IsEmpty() {
		app.overlay = overlayOpen
		app.open = newOpenModel(cfg.RecentPaths())
	}
	return app
}

func (a App) Init() tea.Cmd { return nil }

// openPath opens path as a new Buffer/Instance and pushes it onto the
// Multiplexer, recording it in the recent-paths list.
func (a *App) openPath(path string) {
	b, err := openBuffer(path, a.cfg.LRUCapacity)
	if err != nil {
		return
	}
	in := instance.New(displayName(path), b)
	a.mux.Push(in)
	a.mux.SetActive(a.mux.Len() - 1)
	a.panes[in] = func() *paneModel { p := newPaneModel(in); return &p }()
	if path != "-" {
		a.cfg.RememberPath(path)
	}
}

func displayName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.open.SetSize(a.width, a.height)
		a.confirm.SetSize(a.width, a.height)
		a.filters.SetSize(a.width, a.height)
		return a, nil

	case OpenRequestMsg:
		a.openPath(msg.Path)
		a.overlay = overlayNone
		return a, nil

	case cancelOpenMsg:
		a.overlay = overlayNone
		return a, nil

	case ConfirmResultMsg:
		a.overlay = overlayNone
		if msg.Confirmed && msg.Action == "close" {
			if in := a.mux.ActiveInstance(); in != nil {
				delete(a.panes, in)
			}
			a.mux.CloseActive()
		}
		return a, nil

	case filtersClosedMsg:
		a.overlay = overlayNone
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.routeToOverlay(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.overlay != overlayNone {
		return a.routeToOverlay(msg)
	}

	if active := a.mux.ActiveInstance(); active != nil {
		if pane, ok := a.panes[active]; ok && pane.IsCapturingText() {
			return a.routeKeyToPanes(msg)
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit

	case "ctrl+o":
		a.overlay = overlayOpen
		a.open = newOpenModel(a.cfg.RecentPaths())
		a.open.SetSize(a.width, a.height)
		return a, textinput.Blink

	case "ctrl+w":
		if a.mux.IsEmpty() {
			return a, nil
		}
		a.overlay = overlayConfirmClose
		a.confirm = newConfirmModel(
			fmt.Sprintf("Close %q?", a.mux.ActiveInstance().Name()), "close", a.mux.ActiveInstance().Name())
		a.confirm.SetSize(a.width, a.height)
		return a, nil

	case "f":
		if a.mux.IsEmpty() {
			return a, nil
		}
		a.overlay = overlayFilters
		a.filters = newFiltersModel(a.mux.ActiveInstance())
		a.filters.SetSize(a.width, a.height)
		return a, nil

	case "tab":
		a.mux.MoveActive(mux.Next)
		return a, nil

	case "shift+tab":
		a.mux.MoveActive(mux.Back)
		return a, nil

	case "ctrl+p":
		a.mux.SwapMode()
		return a, nil

	case "ctrl+l":
		a.mux.SetLinked(!a.mux.Linked())
		return a, nil
	}

	return a.routeKeyToPanes(msg)
}

// routeKeyToPanes sends a key to the active pane, and mirrors it to every
// other pane when linked mode is on (a search or bookmark fired from one
// Instance is replayed against all the others).
func (a App) routeKeyToPanes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := a.mux.ActiveInstance()
	if active == nil {
		return a, nil
	}
	pane, ok := a.panes[active]
	if !ok {
		p := newPaneModel(active)
		pane = &p
		a.panes[active] = pane
	}
	updated, cmd := pane.Update(msg)
	a.panes[active] = &updated

	a.mux.ForEachIfLinked(func(in *instance.Instance) {
		p, ok := a.panes[in]
		if !ok {
			np := newPaneModel(in)
			p = &np
			a.panes[in] = p
		}
		u, _ := p.Update(msg)
		a.panes[in] = &u
	})

	return a, cmd
}

func (a App) routeToOverlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.overlay {
	case overlayOpen:
		updated, cmd := a.open.Update(msg)
		a.open = updated
		return a, cmd
	case overlayConfirmClose:
		updated, cmd := a.confirm.Update(msg)
		a.confirm = updated
		return a, cmd
	case overlayFilters:
		updated, cmd := a.filters.Update(msg)
		a.filters = updated
		return a, cmd
	}
	return a, nil
}

func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	bodyHeight := a.height - 2 // tab bar + help bar
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	tabBar := renderTabBar(a.mux, a.width)
	helpBar := renderHelpBar(a.width)

	var body string
	if a.mux.IsEmpty() {
		body = dimStyle.Render("\n  no buffers open — press ctrl+o to open a file\n")
	} else if a.mux.Mode() == mux.Tabs {
		active := a.mux.ActiveInstance()
		pane := a.panes[active]
		pane.SetSize(a.width, bodyHeight)
		body = pane.View()
	} else {
		views := a.mux.Views()
		paneHeight := bodyHeight/len(views) - 2
		if paneHeight < 1 {
			paneHeight = 1
		}
		bodies := make([]string, 0, len(views))
		for _, in := range views {
			p := a.panes[in]
			p.SetSize(a.width-2, paneHeight)
			bodies = append(bodies, p.View())
		}
		body = renderPanesLayout(a.mux, bodies, a.width)
	}

	screen := tabBar + "\n" + body + "\n" + helpBar
	return screen
}

