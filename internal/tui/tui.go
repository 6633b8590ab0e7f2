// Package tui provides the inspector's terminal user interface.
//
// MainModel is the root Bubble Tea model. It draws the toolbar (title,
// settings button and token status), the inspector body, and hosts the
// settings dialog as a modal overlay. Both the main model and the dialog
// subscribe to the settings store, so a token saved or cleared anywhere is
// reflected in every view before the next render.
package tui

import (
	"time"

	"inspector/internal/config"
	"inspector/internal/logging"
	"inspector/internal/settings"
	"inspector/internal/tui/components"
	"inspector/internal/tui/helpdoc"
	"inspector/internal/tui/helpers"
	"inspector/internal/tui/settingsdialog"
	"inspector/internal/tui/styles"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	statusConfigured = "✓ OpenAI token configured"
	statusMissing    = "✗ No OpenAI token"
)

type KeyMap struct {
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "force quit")),
	}
}

// MainModel is the root model for the inspector.
type MainModel struct {
	config *config.Config
	logger *logging.AppLogger
	store  *settings.Store

	dialog *settingsdialog.Model
	layout components.LayoutModel
	keys   KeyMap

	presence    settings.TokenPresence
	unsubscribe func()

	helpDoc    helpdoc.Doc
	helpStyle  string
	showHelp   bool
	helpCache  string
	helpCacheW int

	windowWidth  int
	windowHeight int
	quitting     bool
}

func NewMainModel(ctx helpers.UIContext) *MainModel {
	layout := components.NewLayout(components.LayoutConfig{
		MarginX:  2,
		MarginY:  1,
		MaxWidth: 100,
	})
	if ctx.HasValidDimensions() {
		layout, _ = layout.Update(tea.WindowSizeMsg{Width: ctx.Width, Height: ctx.Height})
	}

	doc, err := helpdoc.Load()
	if err != nil {
		ctx.Logger.Error("Failed to load help page", "error", err)
	}

	return &MainModel{
		config:       ctx.Config,
		logger:       ctx.Logger,
		store:        ctx.Store,
		dialog:       settingsdialog.NewModel(ctx),
		layout:       layout,
		keys:         DefaultKeyMap(),
		helpDoc:      doc,
		windowWidth:  ctx.Width,
		windowHeight: ctx.Height,
	}
}

// Init subscribes the toolbar status and the settings dialog to the store.
func (m *MainModel) Init() tea.Cmd {
	if m.unsubscribe == nil {
		m.unsubscribe = m.store.Subscribe(func(d settings.Data) {
			m.presence = settings.PresenceOf(d.Settings)
		})
	}
	if m.helpStyle == "" {
		m.helpStyle = helpdoc.DetectStyle(50 * time.Millisecond)
		m.logger.Debug("Glamour style selected", "style", m.helpStyle)
	}
	m.logger.Info("MainModel initialized")
	return m.dialog.Init()
}

// Close releases every store subscription held by the UI.
func (m *MainModel) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.dialog.Close()
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.logger.LogMessage(msg)
	m.layout, _ = m.layout.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		_, cmd := m.dialog.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m.quit()
		}
		m.layout = m.layout.ClearError()

		if handled, cmd := m.dialog.HandleKey(msg); handled {
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.logger.LogUserAction("toggle_help", boolLabel(m.showHelp))
		}
		return m, nil

	case settingsdialog.SettingsErrorMsg:
		m.logger.Error("Settings update failed", "error", msg.Err)
		m.layout = m.layout.SetError(msg.Err)
		return m, nil
	}

	if m.dialog.IsOpen() {
		_, cmd := m.dialog.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *MainModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *MainModel) View() string {
	if m.quitting {
		return "\n  Goodbye!\n"
	}

	toolbar := m.toolbarView()
	var body string
	if m.dialog.IsOpen() {
		bodyHeight := max(m.windowHeight-lipgloss.Height(toolbar), 0)
		body = m.dialog.Overlay(m.windowWidth, bodyHeight)
	} else {
		m.layout = m.layout.SetConfig(components.LayoutConfig{
			Title:    "Inspector",
			Subtitle: "Requests made by the inspector use the token configured in Settings",
			HelpText: "s settings • ? help • q quit • ctrl+c force quit",
		})
		body = m.layout.Render(m.bodyView())
	}

	return lipgloss.JoinVertical(lipgloss.Left, toolbar, body)
}

func (m *MainModel) toolbarView() string {
	status := styles.ErrorStyle.Render(statusMissing)
	if m.presence == settings.Present {
		status = styles.SuccessStyle.Render(statusConfigured)
	}

	title := styles.DialogTitleStyle.Render("inspector")
	bar := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", m.dialog.ButtonView(), "  ", status)
	if m.windowWidth > 0 {
		return styles.ToolbarStyle.Width(m.windowWidth).Render(bar)
	}
	return styles.ToolbarStyle.Render(bar)
}

func (m *MainModel) bodyView() string {
	var content string
	if m.presence == settings.Present {
		content = "OpenAI requests are enabled."
	} else {
		content = "OpenAI requests are disabled until a token is added. Press s to open Settings."
	}
	pane := styles.PaneStyle.Width(m.layout.ContentWidth() - 4).Render(content)

	if !m.showHelp {
		return pane
	}
	return lipgloss.JoinVertical(lipgloss.Left, pane, m.helpView())
}

// helpView renders the help page, re-rendering only when the width changes.
func (m *MainModel) helpView() string {
	width := m.layout.ContentWidth()
	if m.helpCache != "" && m.helpCacheW == width {
		return m.helpCache
	}
	out, err := m.helpDoc.Render(m.helpStyle, width)
	if err != nil {
		m.logger.Error("Failed to render help", "error", err)
		return styles.ErrorStyle.Render(err.Error())
	}
	m.helpCache, m.helpCacheW = out, width
	return out
}

// Presence reports the token presence the toolbar is showing.
func (m *MainModel) Presence() settings.TokenPresence {
	return m.presence
}

func (m *MainModel) Dialog() *settingsdialog.Model {
	return m.dialog
}

func boolLabel(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
