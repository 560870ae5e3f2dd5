package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ragibmahsan/omop-healthcare-ui/internal/chat"
	"github.com/ragibmahsan/omop-healthcare-ui/internal/metrics"
)

var askOutputFile string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question and print the SQL and summary",
	Long: `Ask one question about the OMOP database and print the generated SQL
query and summary without starting an interactive session.

Examples:
  omopchat ask "How many diabetic patients are over 65?"
  omopchat ask "Average length of stay by care site" -o answer.txt
  omopchat ask --manual "How many patients take metformin?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askOutputFile, "output", "o", "", "write output to file")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	ctx := context.Background()

	session, err := newSession(ctx, true)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	appended, err := session.Submit(ctx, question)
	switch {
	case errors.Is(err, chat.ErrEmptyQuestion):
		return fmt.Errorf("question is empty")
	case errors.Is(err, chat.ErrSignedOut):
		return fmt.Errorf("no credentials: pass --manual or configure the AWS credential chain")
	case err != nil:
		return err
	}

	output := formatAnswer(appended)

	if askOutputFile != "" {
		if err := os.WriteFile(askOutputFile, []byte(output), 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("Answer written to %s\n", askOutputFile)
	} else {
		fmt.Print(output)
	}

	if verbose {
		printStats(session.Stats())
	}

	return nil
}

// formatAnswer renders the bot messages appended by one submit. A failed
// request yields the single untagged apology message.
func formatAnswer(appended []chat.Message) string {
	var b strings.Builder
	for _, msg := range appended {
		if msg.Sender != chat.SenderBot {
			continue
		}
		switch msg.Kind {
		case chat.KindSQL:
			b.WriteString("SQL:\n")
			b.WriteString("  " + strings.ReplaceAll(msg.Text, "\n", "\n  "))
			b.WriteString("\n\n")
		case chat.KindSummary:
			b.WriteString("Summary:\n")
			b.WriteString("  " + msg.Text)
			b.WriteString("\n")
		default:
			b.WriteString(msg.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func printStats(snap metrics.Snapshot) {
	fmt.Fprintln(os.Stderr)
	if snap.Credentials != nil {
		fmt.Fprintf(os.Stderr, "credentials: %dms\n", snap.Credentials.TotalTimeMs)
	}
	if snap.Invoke != nil {
		fmt.Fprintf(os.Stderr, "invoke:      %dms\n", snap.Invoke.TotalTimeMs)
	}
}
