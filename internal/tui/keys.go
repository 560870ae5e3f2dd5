package tui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// Slash command constants.
const (
	cmdHelp    = "/help"
	cmdStats   = "/stats"
	cmdSignOut = "/signout"
	cmdExit    = "/exit"
	cmdQuit    = "/quit"
)

// keyMap holds key bindings for help bar display.
type keyMap struct {
	Submit     key.Binding
	History    key.Binding
	NextField  key.Binding
	Clear      key.Binding
	Quit       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		History:    key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "history")),
		NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Clear:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "clear")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "exit")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
	}
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	k := msg.Key()

	if k.Mod&tea.ModCtrl != 0 {
		switch k.Code {
		case 'c':
			return m.handleCtrlC()
		case 'd':
			return m, tea.Quit
		}
	}

	if m.state == stateSignIn {
		return m.handleSignInKey(msg)
	}

	switch k.Code {
	case tea.KeyEnter:
		if m.state == stateInput {
			return m.handleSubmit()
		}
		// A request is outstanding; swallow the submit.
		return m, nil

	case tea.KeyUp:
		if m.state == stateInput {
			return m.navigateHistory(-1)
		}

	case tea.KeyDown:
		if m.state == stateInput {
			return m.navigateHistory(1)
		}

	case tea.KeyPgUp:
		m.viewport.PageUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.PageDown()
		return m, nil
	}

	// Pass remaining keys to the input so the next question can be typed
	// even while a request is in flight.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSignInKey drives the two-field credential form. Tab switches
// fields, Enter advances and finally submits once both are non-empty.
func (m *Model) handleSignInKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	k := msg.Key()

	switch k.Code {
	case tea.KeyTab:
		m.focusNextField()
		return m, nil

	case tea.KeyEnter:
		if m.signInFocus == fieldAccessKey {
			m.focusNextField()
			return m, nil
		}
		return m.handleSignIn()
	}

	var cmd tea.Cmd
	switch m.signInFocus {
	case fieldAccessKey:
		m.accessInput, cmd = m.accessInput.Update(msg)
	case fieldSecretKey:
		m.secretInput, cmd = m.secretInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusNextField() {
	if m.signInFocus == fieldAccessKey {
		m.signInFocus = fieldSecretKey
		m.accessInput.Blur()
		m.secretInput.Focus()
	} else {
		m.signInFocus = fieldAccessKey
		m.secretInput.Blur()
		m.accessInput.Focus()
	}
}

func (m *Model) handleCtrlC() (tea.Model, tea.Cmd) {
	now := time.Now()

	// Double Ctrl+C within a second quits.
	if now.Sub(m.lastCtrlC) < time.Second {
		return m, tea.Quit
	}
	m.lastCtrlC = now

	switch m.state {
	case stateSignIn:
		m.accessInput.SetValue("")
		m.secretInput.SetValue("")
	default:
		m.input.Reset()
	}
	return m, nil
}

func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		// Whitespace-only input is a silent no-op.
		return m, nil
	}

	if strings.HasPrefix(question, "/") {
		return m.handleSlashCommand(question)
	}

	m.history = append(m.history, question)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.historyIdx = len(m.history)

	m.input.Reset()
	m.state = stateWaiting

	return m, tea.Batch(
		m.spinner.Tick,
		m.submitQuestion(question),
	)
}

func (m *Model) handleSlashCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case cmdHelp:
		m.notice = "Commands: " + cmdHelp + ", " + cmdStats + ", " + cmdSignOut + ", " + cmdExit +
			"\nShortcuts: Enter send, ↑/↓ history, PgUp/PgDn scroll, Ctrl+C clear, Ctrl+D exit"
	case cmdStats:
		m.notice = formatStats(m.session.Stats())
	case cmdSignOut:
		m.signOut()
	case cmdExit, cmdQuit:
		return m, tea.Quit
	default:
		m.notice = "Unknown command: " + cmd
	}
	m.input.Reset()
	m.rebuildViewportContent()
	m.viewport.GotoBottom()
	return m, nil
}

func (m *Model) navigateHistory(delta int) (tea.Model, tea.Cmd) {
	if len(m.history) == 0 {
		return m, nil
	}

	m.historyIdx += delta
	if m.historyIdx < 0 {
		m.historyIdx = 0
	}
	if m.historyIdx > len(m.history) {
		m.historyIdx = len(m.history)
	}

	if m.historyIdx == len(m.history) {
		m.input.SetValue("")
	} else {
		m.input.SetValue(m.history[m.historyIdx])
		m.input.CursorEnd()
	}

	return m, nil
}
