package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragibmahsan/omop-healthcare-ui/internal/chat"
	"github.com/ragibmahsan/omop-healthcare-ui/internal/credentials"
	"github.com/ragibmahsan/omop-healthcare-ui/internal/nlsql"
)

type stubQuerier struct {
	result nlsql.Result
	err    error
}

func (s *stubQuerier) Translate(ctx context.Context, question string) (nlsql.Result, error) {
	return s.result, s.err
}

func newTestModel(t *testing.T, signedIn bool) *Model {
	t.Helper()

	creds := credentials.NewStatic()
	if signedIn {
		require.NoError(t, creds.SetKeys("AKIAEXAMPLE", "secret"))
	}
	session := chat.NewSession(
		&stubQuerier{result: nlsql.Result{SQLQuery: "SELECT 1", Summary: "ok"}},
		creds,
	)

	m, err := New(context.Background(), session)
	require.NoError(t, err)
	return m
}

func TestNewRequiresSession(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewStartsAtSignInWhenSignedOut(t *testing.T) {
	m := newTestModel(t, false)
	assert.Equal(t, stateSignIn, m.state)
}

func TestNewStartsAtInputWhenSignedIn(t *testing.T) {
	m := newTestModel(t, true)
	assert.Equal(t, stateInput, m.state)
}

func TestHandleSubmitEmptyInputIsNoOp(t *testing.T) {
	m := newTestModel(t, true)
	m.input.SetValue("   ")

	_, cmd := m.handleSubmit()

	assert.Nil(t, cmd)
	assert.Equal(t, stateInput, m.state)
	assert.Empty(t, m.history)
	assert.Len(t, m.session.Transcript(), 1)
}

func TestHandleSubmitSendsQuestion(t *testing.T) {
	m := newTestModel(t, true)
	m.input.SetValue("How many patients are there?")

	_, cmd := m.handleSubmit()

	require.NotNil(t, cmd)
	assert.Equal(t, stateWaiting, m.state)
	assert.Equal(t, []string{"How many patients are there?"}, m.history)
	assert.Empty(t, m.input.Value(), "input cleared on submit")
}

func TestSubmitQuestionCommand(t *testing.T) {
	m := newTestModel(t, true)

	msg := m.submitQuestion("How many patients are there?")()

	done, ok := msg.(submitDoneMsg)
	require.True(t, ok)
	assert.NoError(t, done.err)

	transcript := m.session.Transcript()
	require.Len(t, transcript, 4) // greeting + user + sql + summary
	assert.Equal(t, chat.KindSQL, transcript[2].Kind)
	assert.Equal(t, chat.KindSummary, transcript[3].Kind)
}

func TestSubmitDoneReturnsToInput(t *testing.T) {
	m := newTestModel(t, true)
	m.state = stateWaiting

	model, _ := m.Update(submitDoneMsg{})

	assert.Equal(t, stateInput, model.(*Model).state)
}

func TestHandleSlashCommands(t *testing.T) {
	tests := []struct {
		name       string
		cmd        string
		wantQuit   bool
		wantNotice string
	}{
		{"help", "/help", false, "Commands:"},
		{"stats", "/stats", false, "Session stats"},
		{"exit", "/exit", true, ""},
		{"quit", "/quit", true, ""},
		{"unknown", "/frobnicate", false, "Unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, true)

			_, cmd := m.handleSlashCommand(tt.cmd)

			if tt.wantQuit {
				require.NotNil(t, cmd)
			} else {
				assert.Nil(t, cmd)
				assert.Contains(t, m.notice, tt.wantNotice)
			}
		})
	}
}

func TestSignOutCommandReturnsToForm(t *testing.T) {
	m := newTestModel(t, true)

	msg := m.submitQuestion("a question")()
	_, _ = m.Update(msg)
	require.Len(t, m.session.Transcript(), 4)

	_, _ = m.handleSlashCommand("/signout")

	assert.Equal(t, stateSignIn, m.state)
	assert.Len(t, m.session.Transcript(), 1, "transcript reset to greeting")
	assert.Empty(t, m.history)
}

func TestHandleSignIn(t *testing.T) {
	m := newTestModel(t, false)

	// Empty fields keep the form up.
	_, _ = m.handleSignIn()
	assert.Equal(t, stateSignIn, m.state)
	assert.NotEmpty(t, m.signInError)

	m.accessInput.SetValue("AKIAEXAMPLE")
	m.secretInput.SetValue("secret")
	_, cmd := m.handleSignIn()

	require.NotNil(t, cmd)
	assert.Equal(t, stateInput, m.state)
	assert.Empty(t, m.signInError)
	assert.True(t, m.session.SignedIn())
	assert.Empty(t, m.secretInput.Value(), "secret field cleared after sign-in")
}

func TestNavigateHistory(t *testing.T) {
	m := newTestModel(t, true)
	m.history = []string{"first", "second"}
	m.historyIdx = 2

	_, _ = m.navigateHistory(-1)
	assert.Equal(t, "second", m.input.Value())

	_, _ = m.navigateHistory(-1)
	assert.Equal(t, "first", m.input.Value())

	// Clamped at the oldest entry.
	_, _ = m.navigateHistory(-1)
	assert.Equal(t, "first", m.input.Value())

	_, _ = m.navigateHistory(1)
	_, _ = m.navigateHistory(1)
	assert.Empty(t, m.input.Value(), "past the newest entry clears the input")
}

func TestRebuildViewportRendersKinds(t *testing.T) {
	m := newTestModel(t, true)

	msg := m.submitQuestion("How many patients are there?")()
	_, _ = m.Update(msg)

	// The viewport content carries the user question, the SQL block, and
	// the summary.
	var b strings.Builder
	for _, entry := range m.session.Transcript() {
		b.WriteString(entry.Text)
	}
	assert.Contains(t, b.String(), "How many patients are there?")
	assert.Contains(t, b.String(), "SELECT 1")
	assert.Contains(t, b.String(), "ok")
}
