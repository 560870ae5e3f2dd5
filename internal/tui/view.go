package tui

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/ragibmahsan/omop-healthcare-ui/internal/chat"
)

// View implements tea.Model. Uses AltScreen with a viewport for the
// scrollable transcript.
func (m *Model) View() tea.View {
	if m.state == stateSignIn {
		return m.signInView()
	}

	var b strings.Builder

	_, _ = b.WriteString(m.viewport.View())
	_, _ = b.WriteString("\n")

	_, _ = b.WriteString(m.renderSeparator())
	_, _ = b.WriteString("\n")

	_, _ = b.WriteString(m.styles.Prompt.Render("> "))
	_, _ = b.WriteString(m.input.View())
	_, _ = b.WriteString("\n")

	_, _ = b.WriteString(m.renderSeparator())
	_, _ = b.WriteString("\n")

	_, _ = b.WriteString(m.renderStatusBar())

	v := tea.NewView(b.String())
	v.AltScreen = true
	return v
}

// signInView renders the manual credential form.
func (m *Model) signInView() tea.View {
	var b strings.Builder

	_, _ = b.WriteString(m.styles.RenderBanner())
	_, _ = b.WriteString("\n")
	_, _ = b.WriteString(m.styles.System.Render("Sign in with an AWS access key to start chatting."))
	_, _ = b.WriteString("\n\n")

	_, _ = b.WriteString(m.styles.Label.Render("Access key ID"))
	_, _ = b.WriteString("\n  ")
	_, _ = b.WriteString(m.accessInput.View())
	_, _ = b.WriteString("\n\n")

	_, _ = b.WriteString(m.styles.Label.Render("Secret access key"))
	_, _ = b.WriteString("\n  ")
	_, _ = b.WriteString(m.secretInput.View())
	_, _ = b.WriteString("\n\n")

	if m.signInError != "" {
		_, _ = b.WriteString(m.styles.Error.Render(m.signInError))
		_, _ = b.WriteString("\n\n")
	}

	_, _ = b.WriteString(m.styles.System.Render("Tab to switch fields, Enter to sign in, Ctrl+D to exit."))

	v := tea.NewView(b.String())
	v.AltScreen = true
	return v
}

// rebuildViewportContent reconstructs the viewport from the session
// transcript and transient state. The transcript itself is owned by the
// session; the view only reads it.
func (m *Model) rebuildViewportContent() {
	var b strings.Builder

	_, _ = b.WriteString(m.styles.RenderBanner())
	_, _ = b.WriteString("\n")
	_, _ = b.WriteString(m.styles.RenderWelcomeTips())
	_, _ = b.WriteString("\n\n")

	for _, msg := range m.session.Transcript() {
		switch {
		case msg.Sender == chat.SenderUser:
			_, _ = b.WriteString(m.styles.User.Render("You> "))
			_, _ = b.WriteString(msg.Text)
		case msg.Kind == chat.KindSQL:
			_, _ = b.WriteString(m.styles.SQL.Render("SQL"))
			_, _ = b.WriteString("\n")
			_, _ = b.WriteString(m.styles.SQLBlock.Render(msg.Text))
		default:
			_, _ = b.WriteString(m.styles.Bot.Render("Bot> "))
			_, _ = b.WriteString(msg.Text)
		}
		_, _ = b.WriteString("\n\n")
	}

	if m.notice != "" {
		_, _ = b.WriteString(m.styles.System.Render(m.notice))
		_, _ = b.WriteString("\n\n")
	}

	if m.state == stateWaiting {
		_, _ = b.WriteString(m.spinner.View())
		_, _ = b.WriteString(" Translating...\n\n")
	}

	m.viewport.SetContent(b.String())
}

// renderSeparator returns a horizontal line separator.
func (m *Model) renderSeparator() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return m.styles.Separator.Render(strings.Repeat("─", width))
}

// renderStatusBar returns state-appropriate keyboard shortcut help.
func (m *Model) renderStatusBar() string {
	var bindings []key.Binding
	switch m.state {
	case stateWaiting:
		bindings = []key.Binding{m.keys.ScrollUp, m.keys.ScrollDown, m.keys.Quit}
	default:
		bindings = []key.Binding{
			m.keys.Submit, m.keys.History,
			m.keys.Clear, m.keys.Quit, m.keys.ScrollUp,
		}
	}
	return m.help.ShortHelpView(bindings)
}
