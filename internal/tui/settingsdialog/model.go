package settingsdialog

import (
	"strings"

	"inspector/internal/logging"
	"inspector/internal/settings"
	"inspector/internal/tui/helpers"
	"inspector/internal/tui/styles"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	dialogMaxWidth = 64
	dialogMinWidth = 36

	tokenLabel = "OpenAI API token"
)

// TokenField is the settings key the form input is saved under.
const TokenField = settings.OpenAIAPITokenKey

// SettingsErrorMsg reports a store failure from save or clear.
type SettingsErrorMsg struct {
	Err error
}

// Model is the Bubble Tea host for a Controller. While the dialog is open it
// captures every key press.
type Model struct {
	ctrl   *Controller
	logger *logging.AppLogger

	keys  KeyMap
	help  help.Model
	input textinput.Model

	width  int
	height int
}

func NewModel(ctx helpers.UIContext) *Model {
	ti := textinput.New()
	ti.Placeholder = "sk-..."
	ti.Prompt = "> "
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 256

	m := &Model{
		ctrl:   NewController(ctx.Store, ctx.Logger),
		logger: ctx.Logger,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		input:  ti,
	}
	if ctx.HasValidDimensions() {
		m.resize(ctx.Width, ctx.Height)
	}
	return m
}

// Init mounts the controller on the store.
func (m *Model) Init() tea.Cmd {
	m.ctrl.Mount()
	return nil
}

// Close unmounts the controller. The model must not be used afterwards.
func (m *Model) Close() {
	m.ctrl.Unmount()
}

func (m *Model) Controller() *Controller {
	return m.ctrl
}

func (m *Model) IsOpen() bool {
	return m.ctrl.IsOpen()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		_, cmd := m.HandleKey(msg)
		return m, cmd
	}

	if m.ctrl.View() == ViewForm {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// HandleKey applies a key press to the dialog. handled is false only when
// the dialog is closed and the key is not one of its own, so the caller
// may use it.
func (m *Model) HandleKey(msg tea.KeyMsg) (handled bool, cmd tea.Cmd) {
	view := m.ctrl.View()
	m.keys.forView(view)

	if key.Matches(msg, m.keys.Toggle) || key.Matches(msg, m.keys.Open) {
		m.logger.LogUserAction("settings_toggle", view.String())
		m.ctrl.ToggleDialog()
		return true, m.afterViewChange()
	}

	switch view {
	case ViewButtonOnly:
		return false, nil

	case ViewForm:
		switch {
		case key.Matches(msg, m.keys.Save):
			m.logger.LogUserAction("settings_save", TokenField)
			err := m.ctrl.OnSave(m.input.Value())
			m.input.Reset()
			return true, tea.Batch(m.afterViewChange(), errCmd(err))
		case key.Matches(msg, m.keys.Dismiss):
			m.logger.LogUserAction("settings_dismiss", view.String())
			m.ctrl.OnDismiss()
			return true, m.afterViewChange()
		}
		m.input, cmd = m.input.Update(msg)
		return true, cmd

	case ViewMasked:
		switch {
		case key.Matches(msg, m.keys.Clear):
			m.logger.LogUserAction("settings_clear", view.String())
			err := m.ctrl.OnClear()
			m.input.Reset()
			return true, tea.Batch(m.afterViewChange(), errCmd(err))
		case key.Matches(msg, m.keys.Dismiss):
			m.logger.LogUserAction("settings_dismiss", view.String())
			m.ctrl.OnDismiss()
			return true, m.afterViewChange()
		}
	}
	return true, nil
}

// afterViewChange focuses the input whenever the form is showing.
func (m *Model) afterViewChange() tea.Cmd {
	if m.ctrl.View() == ViewForm {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func errCmd(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return func() tea.Msg {
		return SettingsErrorMsg{Err: err}
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = m.dialogWidth() - 4
	m.input.Width = max(m.dialogWidth()-lipgloss.Width(m.input.Prompt)-10, 10)
}

func (m *Model) dialogWidth() int {
	if m.width <= 0 {
		return dialogMaxWidth
	}
	return min(dialogMaxWidth, max(dialogMinWidth, m.width-8))
}

// ButtonView renders the toolbar button that opens the dialog.
func (m *Model) ButtonView() string {
	label := "⚙ Settings"
	if m.ctrl.IsOpen() {
		return styles.ToolbarButtonActiveStyle.Render(label)
	}
	return styles.ToolbarButtonStyle.Render(label + " [s]")
}

// View renders the modal box, or nothing while the dialog is closed.
func (m *Model) View() string {
	view := m.ctrl.View()
	if view == ViewButtonOnly {
		return ""
	}
	m.keys.forView(view)

	var content strings.Builder
	content.WriteString(m.header())
	content.WriteString("\n\n")
	content.WriteString(styles.LabelStyle.Render(tokenLabel))
	content.WriteString("\n")

	switch view {
	case ViewMasked:
		content.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
			styles.MaskedValueStyle.Render(MaskedValue),
			"  ",
			styles.ToolbarButtonStyle.Render("[c] Clear"),
		))
		content.WriteString("\n")
		content.WriteString(styles.FaintStyle.Render("A token is stored. Clear it to enter a new one."))
	case ViewForm:
		content.WriteString(styles.InputStyle.Render(m.input.View()))
		content.WriteString("\n")
		content.WriteString(styles.FaintStyle.Render("Saved as " + TokenField + " and used for OpenAI requests."))
	}

	content.WriteString("\n\n")
	content.WriteString(m.footer(view))
	content.WriteString("\n")
	content.WriteString(m.help.View(m.keys))

	return styles.DialogStyle.Width(m.dialogWidth()).Render(content.String())
}

func (m *Model) header() string {
	title := styles.DialogTitleStyle.Render("Settings")
	closeIcon := styles.FaintStyle.Render("[esc] ✕")
	gap := max(m.dialogWidth()-lipgloss.Width(title)-lipgloss.Width(closeIcon)-6, 1)
	return title + strings.Repeat(" ", gap) + closeIcon
}

func (m *Model) footer(view View) string {
	save := "[enter] Save"
	if view != ViewForm {
		save = styles.FaintStyle.Render(save)
	}
	return save + "   [esc] Cancel"
}

// Overlay renders the dialog centred in a width×height area.
func (m *Model) Overlay(width, height int) string {
	box := strings.TrimRight(m.View(), "\n")
	if width <= 0 || height <= 0 || box == "" {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
