package tui

import "github.com/charmbracelet/lipgloss"

var (
	green  = lipgloss.Color("#3fb950")
	blue   = lipgloss.Color("#58a6ff")
	yellow = lipgloss.Color("#d29922")
	red    = lipgloss.Color("#f85149")
	muted  = lipgloss.Color("#8b949e")
	text   = lipgloss.Color("#c9d1d9")
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(green).Bold(true)
	titleStyle   = lipgloss.NewStyle().Foreground(blue).Bold(true)
	textStyle    = lipgloss.NewStyle().Foreground(text)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	errorStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(muted).Italic(true)
	priceStyle   = lipgloss.NewStyle().Foreground(green)
	warnStyle    = lipgloss.NewStyle().Foreground(yellow)
	commandStyle = lipgloss.NewStyle().Foreground(blue).Width(20)

	statusStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(muted).
			Foreground(text)
)

const prompt = "visitor@portfolio:~$ "
