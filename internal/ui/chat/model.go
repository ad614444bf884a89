// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the TUI.
package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/auth"
	"github.com/jeranaias/parley-tui/internal/route"
	"github.com/jeranaias/parley-tui/internal/store"
	"github.com/jeranaias/parley-tui/internal/ui/components"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// focusArea is which pane receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// =============================================================================
// MESSAGES
// =============================================================================

// stateChangedMsg signals that the store or session changed outside the
// Bubble Tea loop and the view must re-render.
type stateChangedMsg struct{}

// modelsLoadedMsg carries the model list fetched at startup.
type modelsLoadedMsg struct{ models []string }

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the whole application shell.
type Model struct {
	theme *styles.Theme

	// Domain
	store   *store.Store
	session *auth.Manager
	nav     *route.Navigator
	client  *api.Client

	// Dimensions
	width  int
	height int

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	spinner   spinner.Model
	sidebar   *components.Sidebar
	statusBar *components.StatusBar
	banner    *components.ErrorBanner
	picker    *components.ModelPicker

	showPicker bool
	focus      focusArea
	keyMap     KeyMap

	// changes coalesces store and session notifications into a single
	// pending wakeup for the Bubble Tea loop.
	changes chan struct{}

	quitting bool
}

// New creates the application model and subscribes it to the store and
// the session manager.
func New(st *store.Store, session *auth.Manager, nav *route.Navigator, client *api.Client, theme *styles.Theme) *Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 8,
	}
	sp.Style = theme.Spinner

	m := &Model{
		theme:     theme,
		store:     st,
		session:   session,
		nav:       nav,
		client:    client,
		viewport:  vp,
		input:     ti,
		spinner:   sp,
		sidebar:   components.NewSidebar(theme),
		statusBar: components.NewStatusBar(theme),
		banner:    components.NewErrorBanner(theme),
		picker:    components.NewModelPicker(nil, st.Model(), theme),
		keyMap:    DefaultKeyMap(),
		changes:   make(chan struct{}, 1),
	}

	wake := func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	}
	st.Subscribe(wake)
	session.OnChange(func(auth.Status) { wake() })

	return m
}

// Init starts the spinner, arms the change listener, and kicks off the
// initial data loads.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForChange(),
		m.loadInitialData(),
		m.loadModels(),
	)
}

// streamBatchInterval caps repaint frequency at ~30fps. Streaming
// chunks arrive far faster than the terminal can usefully redraw.
const streamBatchInterval = 33 * time.Millisecond

// waitForChange blocks until the store or session reports a change,
// then absorbs the burst that typically follows it.
func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		time.Sleep(streamBatchInterval)
		select {
		case <-m.changes:
		default:
		}
		return stateChangedMsg{}
	}
}

// loadInitialData seeds the sidebar from cache, then fetches live.
func (m *Model) loadInitialData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		m.store.LoadCachedMetadata(ctx)
		m.store.LoadMetadata(ctx)
		return stateChangedMsg{}
	}
}

// loadModels fetches the selectable model list.
func (m *Model) loadModels() tea.Cmd {
	return func() tea.Msg {
		models, _ := m.client.ListModels(context.Background())
		return modelsLoadedMsg{models: models}
	}
}

// sendMessage dispatches one send through the store off the UI loop.
func (m *Model) sendMessage(content string) tea.Cmd {
	return func() tea.Msg {
		m.store.SendMessage(context.Background(), content)
		return stateChangedMsg{}
	}
}

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case stateChangedMsg:
		m.refresh()
		return m, m.waitForChange()

	case modelsLoadedMsg:
		m.picker.SetModels(msg.models)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showPicker {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.NewChat):
		m.store.NewChat()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.Models):
		m.showPicker = true
		return m, nil

	case key.Matches(msg, m.keyMap.Login):
		m.session.Login()
		return m, nil

	case key.Matches(msg, m.keyMap.Logout):
		return m, func() tea.Msg {
			m.session.Logout(context.Background())
			return stateChangedMsg{}
		}

	case key.Matches(msg, m.keyMap.Back):
		m.nav.Back()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.Forward):
		m.nav.Forward()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.FocusSide):
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Dismiss):
		m.store.ClearBanner()
		m.refresh()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.sidebar.CursorUp()
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.sidebar.CursorDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		if meta := m.sidebar.Selected(); meta != nil {
			id := meta.ID
			return m, func() tea.Msg {
				m.store.SelectConversation(context.Background(), id)
				return stateChangedMsg{}
			}
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Delete):
		if meta := m.sidebar.Selected(); meta != nil {
			id := meta.ID
			return m, func() tea.Msg {
				m.store.DeleteConversation(context.Background(), id)
				return stateChangedMsg{}
			}
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		content := m.input.Value()
		if content == "" || m.store.Sending() {
			return m, nil
		}
		m.input.Reset()
		return m, m.sendMessage(content)

	case key.Matches(msg, m.keyMap.Up),
		key.Matches(msg, m.keyMap.Down),
		key.Matches(msg, m.keyMap.PageUp),
		key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.picker.CursorUp()
	case key.Matches(msg, m.keyMap.Down):
		m.picker.CursorDown()
	case key.Matches(msg, m.keyMap.Submit):
		if id := m.picker.Selected(); id != "" {
			m.store.SetModel(id)
		}
		m.showPicker = false
	case key.Matches(msg, m.keyMap.Dismiss), key.Matches(msg, m.keyMap.Quit):
		m.showPicker = false
	}
	return m, nil
}

// resize recomputes every pane's dimensions.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	sidebarWidth := width / 4
	if sidebarWidth < 20 {
		sidebarWidth = 20
	}
	if sidebarWidth > 36 {
		sidebarWidth = 36
	}
	// Header, banner slot, input, status bar.
	contentHeight := height - 5
	if contentHeight < 3 {
		contentHeight = 3
	}

	m.sidebar.SetSize(sidebarWidth, contentHeight)
	m.viewport.Width = width - sidebarWidth - 2
	m.viewport.Height = contentHeight
	m.input.Width = width - 6
	m.statusBar.SetWidth(width)
	m.banner.SetWidth(width)

	m.refresh()
}

// refresh re-derives all rendered state from the store and session.
func (m *Model) refresh() {
	m.sidebar.SetMetas(m.store.Metas())
	m.sidebar.SetActive(m.store.ActiveID())

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	// Follow the stream unless the user scrolled away.
	if atBottom {
		m.viewport.GotoBottom()
	}
}
