// Package cli provides the command-line interface for omopchat.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ragibmahsan/omop-healthcare-ui/internal/chat"
	"github.com/ragibmahsan/omop-healthcare-ui/internal/config"
	"github.com/ragibmahsan/omop-healthcare-ui/internal/credentials"
	"github.com/ragibmahsan/omop-healthcare-ui/internal/metrics"
	"github.com/ragibmahsan/omop-healthcare-ui/internal/nlsql"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	flagRegion   string
	flagFunction string
	flagProfile  string
	flagConfig   string
	flagManual   bool
	verbose      bool

	// Global config, logger, and runtime stats
	cfg       config.Config
	logger    *slog.Logger
	logClose  func() error
	collector *metrics.Collector
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "omopchat",
	Short: "Chat client for the OMOP natural-language-to-SQL service",
	Long: `Omopchat is a terminal chat client for an OMOP healthcare database.

Questions are sent to the IST2SQL Lambda function, which translates them
into SQL and a plain-text summary. All translation and database access
happens on the backend; this client only holds the conversation.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if flagConfig != "" {
			var err error
			cfg, err = config.LoadFile(cfg, flagConfig)
			if err != nil {
				return err
			}
		}

		// Flags win over config file and environment.
		if flagRegion != "" {
			cfg.Region = flagRegion
		}
		if flagFunction != "" {
			cfg.FunctionName = flagFunction
		}
		if flagProfile != "" {
			cfg.Profile = flagProfile
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		logger, logClose = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		collector = metrics.NewCollector()

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logClose != nil {
			if err := logClose(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// newSession builds the credential provider, the invoke client, and a
// chat session from the loaded configuration. With --manual, credentials
// come from the environment or an interactive prompt; otherwise the
// default AWS chain is used and the session starts signed in.
func newSession(ctx context.Context, promptForKeys bool) (*chat.Session, error) {
	var provider credentials.Provider

	if flagManual {
		static := credentials.NewStatic()
		access, secret := cfg.AccessKeyID, cfg.SecretAccessKey
		if access == "" && promptForKeys {
			var err error
			access, secret, err = promptKeys()
			if err != nil {
				return nil, err
			}
		}
		if access != "" {
			if err := static.SetKeys(access, secret); err != nil {
				return nil, err
			}
		}
		provider = static
	} else {
		hosted, err := credentials.NewHosted(ctx, cfg.Region, cfg.Profile)
		if err != nil {
			return nil, err
		}
		provider = hosted
	}

	client := nlsql.New(cfg.Region, provider, cfg.FunctionName, logger)

	return chat.NewSession(client, provider,
		chat.WithLogger(logger),
		chat.WithGreeting(cfg.Greeting),
		chat.WithMetrics(collector),
	), nil
}

// promptKeys reads an access-key/secret pair from the terminal. The
// secret is read without echo.
func promptKeys() (string, string, error) {
	fmt.Print("Access key ID: ")
	reader := bufio.NewReader(os.Stdin)
	access, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("read access key: %w", err)
	}
	access = strings.TrimSpace(access)

	fmt.Print("Secret access key: ")
	secretBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("read secret key: %w", err)
	}

	return access, strings.TrimSpace(string(secretBytes)), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRegion, "region", "", "AWS region of the translation function")
	rootCmd.PersistentFlags().StringVar(&flagFunction, "function", "", "translation function name (default IST2SQL)")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "AWS shared config profile")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flagManual, "manual", false, "use manually entered credentials instead of the AWS credential chain")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
}
