package cli

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/ragibmahsan/omop-healthcare-ui/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive terminal chat session.

By default credentials come from the standard AWS chain (environment,
shared config, SSO). With --manual the session starts at a sign-in form
and keys are held in memory only for the lifetime of the session.

Examples:
  omopchat chat
  omopchat chat --profile research
  omopchat chat --manual`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// The TUI has its own sign-in form; don't prompt on stdin first.
	session, err := newSession(ctx, false)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	model, err := tui.New(ctx, session)
	if err != nil {
		return fmt.Errorf("create interface: %w", err)
	}

	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}

	return nil
}
