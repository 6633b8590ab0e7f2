package styles

import "github.com/charmbracelet/lipgloss"

// Centralized Lip Gloss styles for the inspector TUI.
// All colors are specified using hex codes.

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff5fd2")).
			MarginBottom(1).
			PaddingLeft(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginBottom(1).
			PaddingLeft(1)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5fd7ff")).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff005f")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff5f")).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Faint(true).
			Foreground(lipgloss.Color("#a8a8a8")).
			MarginTop(1).
			Padding(0, 1)

	FaintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	// Toolbar across the top of the inspector
	ToolbarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#303030")).
			Padding(0, 1)

	ToolbarButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d0d0d0")).
				Padding(0, 1)

	// Toolbar button while the dialog it opens is showing
	ToolbarButtonActiveStyle = ToolbarButtonStyle.
					Foreground(lipgloss.Color("#000000")).
					Background(lipgloss.Color("#5fd7ff"))

	// Modal dialog frame
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ff5faf")).
			Padding(1, 2)

	DialogTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ff5fd2"))

	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#d0d0d0"))

	MaskedValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8a8a8")).
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("#5f5fff")).
				Padding(0, 1)

	// Shared pane style for the inspector body.
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5f5fff")).
			PaddingLeft(2).
			PaddingRight(1)
)
