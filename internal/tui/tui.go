// Package tui provides the Bubble Tea terminal interface for the OMOP
// chat client.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ragibmahsan/omop-healthcare-ui/internal/chat"
	"github.com/ragibmahsan/omop-healthcare-ui/internal/metrics"
)

// state is the TUI state machine.
type state int

const (
	stateSignIn  state = iota // Manual credential form
	stateInput                // Awaiting user input
	stateWaiting              // Request in flight
)

// maxHistory bounds the input history kept for up/down navigation.
const maxHistory = 100

// signInField identifies the focused credential form field.
type signInField int

const (
	fieldAccessKey signInField = iota
	fieldSecretKey
)

// Layout constants for viewport height calculation.
const (
	separatorLines = 2
	helpLines      = 1
	promptLines    = 1
	minViewport    = 3
)

// submitDoneMsg reports a finished Submit call. The session has already
// folded any failure into the transcript, so there is no error payload
// beyond the policy sentinels.
type submitDoneMsg struct {
	err error
}

// Model is the Bubble Tea model for the chat interface.
type Model struct {
	session *chat.Session
	ctx     context.Context

	// Chat input
	input      textarea.Model
	history    []string
	historyIdx int

	// Sign-in form (manual credential variant)
	accessInput textinput.Model
	secretInput textinput.Model
	signInFocus signInField
	signInError string

	state     state
	lastCtrlC time.Time

	// Transient system line shown under the transcript (slash command
	// output); replaced on each command, not part of the transcript.
	notice string

	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	width  int
	height int

	styles Styles
}

// New creates the TUI model. The session decides the starting state: a
// signed-in session goes straight to the chat input, a signed-out one
// starts at the credential form.
func New(ctx context.Context, session *chat.Session) (*Model, error) {
	if session == nil {
		return nil, errors.New("tui.New: session is required")
	}
	if ctx == nil {
		return nil, errors.New("tui.New: ctx is required")
	}

	ta := textarea.New()
	ta.Placeholder = "Ask about the OMOP database..."
	ta.SetHeight(1)
	ta.SetWidth(120)
	ta.MaxWidth = 0
	ta.ShowLineNumbers = false

	cleanStyle := textarea.StyleState{
		Base:        lipgloss.NewStyle(),
		Text:        lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Prompt:      lipgloss.NewStyle(),
	}
	ta.SetStyles(textarea.Styles{
		Focused: cleanStyle,
		Blurred: cleanStyle,
	})
	ta.Focus()

	access := textinput.New()
	access.Placeholder = "Access key ID"

	secret := textinput.New()
	secret.Placeholder = "Secret access key"
	secret.EchoMode = textinput.EchoPassword

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(viewport.WithWidth(80), viewport.WithHeight(20))
	vp.MouseWheelEnabled = true
	vp.SoftWrap = true
	vp.KeyMap = viewport.KeyMap{} // keys routed explicitly in handleKey

	m := &Model{
		session:     session,
		ctx:         ctx,
		input:       ta,
		accessInput: access,
		secretInput: secret,
		spinner:     sp,
		viewport:    vp,
		help:        help.New(),
		keys:        newKeyMap(),
		styles:      DefaultStyles(),
		history:     make([]string, 0, maxHistory),
		width:       80,
	}

	if session.SignedIn() {
		m.state = stateInput
	} else {
		m.state = stateSignIn
		m.accessInput.Focus()
	}

	m.rebuildViewportContent()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.state == stateSignIn {
		return m.accessInput.Focus()
	}
	return tea.Batch(
		textarea.Blink,
		m.input.Focus(),
	)
}

// submitQuestion runs one Submit call off the UI loop. The call blocks
// until the backend answers or fails; there is no cancellation path.
func (m *Model) submitQuestion(question string) tea.Cmd {
	session := m.session
	ctx := m.ctx
	return func() tea.Msg {
		_, err := session.Submit(ctx, question)
		return submitDoneMsg{err: err}
	}
}

// handleSignIn validates the form and installs the key pair. Empty fields
// keep the form up, the same way a required form field blocks a submit.
func (m *Model) handleSignIn() (tea.Model, tea.Cmd) {
	access := m.accessInput.Value()
	secret := m.secretInput.Value()
	if access == "" || secret == "" {
		m.signInError = "Both fields are required."
		return m, nil
	}

	if err := m.session.SignIn(access, secret); err != nil {
		m.signInError = err.Error()
		return m, nil
	}

	m.signInError = ""
	m.secretInput.SetValue("")
	m.state = stateInput
	m.rebuildViewportContent()
	return m, tea.Batch(textarea.Blink, m.input.Focus())
}

// signOut resets the session and returns to the credential form when the
// provider supports manual entry.
func (m *Model) signOut() {
	m.session.SignOut()
	m.notice = ""
	m.history = m.history[:0]
	m.historyIdx = 0
	if !m.session.SignedIn() {
		m.state = stateSignIn
		m.accessInput.SetValue("")
		m.secretInput.SetValue("")
		m.signInFocus = fieldAccessKey
		m.accessInput.Focus()
		m.input.Blur()
	}
	m.rebuildViewportContent()
}

// formatStats renders a metrics snapshot for the /stats command.
func formatStats(snap metrics.Snapshot) string {
	line := func(name string, op *metrics.OperationSnapshot) string {
		if op == nil {
			return fmt.Sprintf("%-12s no data", name)
		}
		return fmt.Sprintf("%-12s %d calls (%d failed), avg %.0fms, min %dms, max %dms",
			name, op.Count, op.Failures, op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
	}

	return fmt.Sprintf("Session stats (uptime %.0fs)\n%s\n%s",
		snap.UptimeSeconds,
		line("credentials", snap.Credentials),
		line("invoke", snap.Invoke))
}
