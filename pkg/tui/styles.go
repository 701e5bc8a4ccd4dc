package tui

import "github.com/charmbracelet/lipgloss"

// Base styles shared by the Milgrim panes
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorFgDim)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Pane focus styles - for two-pane layouts
	PaneFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.ThickBorder()).
				BorderForeground(ColorPrimary)

	PaneUnfocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorMuted)

	// List item styles
	SelectedStyle = lipgloss.NewStyle().
			Background(ColorBgLight).
			Foreground(ColorFg).
			Bold(true)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(ColorFgDim)

	// Help styles
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)
)

// Diff pane styles
var (
	DiffAddedStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	DiffRemovedStyle = lipgloss.NewStyle().Foreground(ColorError)
	DiffContextStyle = lipgloss.NewStyle().Foreground(ColorFgDim)
	DiffFileStyle    = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	DiffHunkStyle    = lipgloss.NewStyle().Foreground(ColorWarning)
	DiffInfoStyle    = lipgloss.NewStyle().Foreground(ColorMuted)

	CursorLineStyle = lipgloss.NewStyle().
			Background(ColorBgLight).
			Bold(true)

	VisualLineStyle = lipgloss.NewStyle().
			Background(ColorMuted).
			Foreground(ColorBg)

	// Badge shown next to a workspace with changes not yet viewed
	UnseenBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)
)
