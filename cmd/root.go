package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/doms3/chatty/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatty",
	Short: "Persistent chat sessions with an OpenAI-compatible completion API",
	Long: `A small CLI that keeps chat sessions on disk and extends them one
exchange at a time.

Text for the next user message is read from standard input; the reply is
printed on standard output and saved to the session.

Quick Start:
  echo "Hello" | chatty new greetings --prompt system.txt
  echo "And again" | chatty              # extend the last session
  chatty list                            # list all sessions
  chatty show greetings                  # view a session

Sessions live in $XDG_DATA_HOME/chatty (or ~/.local/share/chatty).
The API key is read from OPENAI_API_KEY, or from a .env file.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(true)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return chatSession(cmd, "")
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	internal.SyncLogger()
	if err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// reportError prints err for the user and returns the exit status for it
func reportError(w io.Writer, err error) int {
	internal.PrintError(w, "chatty: "+internal.Describe(err))
	return internal.ExitStatus(err)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
