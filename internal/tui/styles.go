package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Accent color for the banner and prompts.
const accentTeal = "#00B8A9"

var bannerArt = []string{
	" ██████╗ ███╗   ███╗ ██████╗ ██████╗  ██████╗██╗  ██╗ █████╗ ████████╗",
	"██╔═══██╗████╗ ████║██╔═══██╗██╔══██╗██╔════╝██║  ██║██╔══██╗╚══██╔══╝",
	"██║   ██║██╔████╔██║██║   ██║██████╔╝██║     ███████║███████║   ██║   ",
	"██║   ██║██║╚██╔╝██║██║   ██║██╔═══╝ ██║     ██╔══██║██╔══██║   ██║   ",
	"╚██████╔╝██║ ╚═╝ ██║╚██████╔╝██║     ╚██████╗██║  ██║██║  ██║   ██║   ",
	" ╚═════╝ ╚═╝     ╚═╝ ╚═════╝ ╚═╝      ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝   ",
}

// Styles contains all lipgloss styles for the TUI.
type Styles struct {
	Banner    lipgloss.Style
	User      lipgloss.Style
	Bot       lipgloss.Style
	SQL       lipgloss.Style
	SQLBlock  lipgloss.Style
	System    lipgloss.Style
	Error     lipgloss.Style
	Prompt    lipgloss.Style
	Label     lipgloss.Style
	Separator lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accentTeal)),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Bot:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		SQL:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		SQLBlock:  lipgloss.NewStyle().Foreground(lipgloss.Color("222")).PaddingLeft(2),
		System:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Label:     lipgloss.NewStyle().Bold(true),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// RenderBanner returns the ASCII art banner as a styled string.
func (s Styles) RenderBanner() string {
	var b strings.Builder
	for _, line := range bannerArt {
		_, _ = b.WriteString(s.Banner.Render(line))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}

var welcomeTips = []string{
	"Ask questions about the OMOP healthcare database in plain English.",
	"Each answer shows the generated SQL query and a short summary.",
	"  • /help for commands, /stats for session stats",
	"  • Ctrl+C clears input, Ctrl+D exits",
}

// RenderWelcomeTips returns the getting-started hints under the banner.
func (s Styles) RenderWelcomeTips() string {
	return s.System.Render(strings.Join(welcomeTips, "\n"))
}
