// Package tui is the interactive terminal calculator.
package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
const (
	ColorHeader    = lipgloss.Color("63")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("252")
	ColorHighlight = lipgloss.Color("212")
	ColorOK        = lipgloss.Color("42")
	ColorWarning   = lipgloss.Color("214")
	ColorError     = lipgloss.Color("196")
	ColorMuted     = lipgloss.Color("240")
	ColorBorder    = lipgloss.Color("238")
)

// Glyphs.
const (
	IconFocus    = "›"
	IconArrowL   = "◂"
	IconArrowR   = "▸"
	IconChecked  = "[x]"
	IconUnticked = "[ ]"
	barFull      = "█"
	barEmpty     = "░"
)

// Shared styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeader).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	HeaderStyle  = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	LabelStyle   = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	FocusStyle   = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	SavingsStyle = lipgloss.NewStyle().Foreground(ColorOK).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)
