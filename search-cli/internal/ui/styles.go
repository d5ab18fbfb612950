package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#6b7280")
	danger = lipgloss.Color("#e53935")
)

// Styles groups the lipgloss styles of the search screen.
type Styles struct {
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Row       lipgloss.Style
	Selected  lipgloss.Style
	Subtitle  lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	Mark      lipgloss.Style
}

// DefaultStyles returns the styles used by the search screen.
func DefaultStyles() Styles {
	return Styles{
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(muted),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#101F38")).Background(accent),
		Row:       lipgloss.NewStyle().PaddingLeft(2),
		Selected:  lipgloss.NewStyle().PaddingLeft(1).Bold(true).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(accent),
		Subtitle:  lipgloss.NewStyle().Foreground(muted),
		Status:    lipgloss.NewStyle().Foreground(muted).Italic(true),
		Error:     lipgloss.NewStyle().Foreground(danger).Bold(true),
		Help:      lipgloss.NewStyle().Foreground(muted),
		Mark:      lipgloss.NewStyle().Foreground(accent),
	}
}
