package tui

import "github.com/charmbracelet/lipgloss"

// Palette. Chart bars take their colors from the report palette instead.
var (
	colorPrimary   = lipgloss.Color("#4E79A7")
	colorSecondary = lipgloss.Color("#59A14F")
	colorMuted     = lipgloss.Color("#6B7280")
	colorWarning   = lipgloss.Color("#F28E2B")
	colorError     = lipgloss.Color("#E15759")
	colorFg        = lipgloss.Color("#D8DEE9")
	colorSubtle    = lipgloss.Color("#3B4252")
	colorHighlight = lipgloss.Color("#EDC948")
)

var (
	// View tabs in the header
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Level tabs on the breakdown view
	activeLevelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorSecondary).
				Padding(0, 1)

	inactiveLevelStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = panelStyle.
				BorderForeground(colorPrimary)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHighlight)

	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	treeRootStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	treeEnumeratorStyle = lipgloss.NewStyle().
				Foreground(colorSubtle).
				MarginRight(1)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)
