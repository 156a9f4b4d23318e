package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/doms3/chatty/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckDetails bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that chatty can find its data, config and credentials",
	Long: `Check the health of chatty by verifying:
  • Data home and sessions directory
  • Configuration file and environment overrides
  • API credential
  • Usage ledger
  • Session files

A missing credential or empty data home is reported as a warning; an invalid
configuration or unreadable ledger fails the check.`,
	Args: cobra.NoArgs,
	// Runs without the config so that a broken config can be reported.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(false)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := false

		fmt.Fprintln(out, sectionStyle.Render("chatty health check"))
		fmt.Fprintln(out)

		// Step 1: Data home
		fmt.Fprintln(out, infoStyle.Render("Step 1: Checking data home..."))
		if paths.HomeExists() {
			fmt.Fprintln(out, successStyle.Render("✅ Data home found"))
			if paths.SessionsDirExists() {
				fmt.Fprintln(out, successStyle.Render("✅ Sessions directory found"))
			} else {
				fmt.Fprintln(out, warningStyle.Render("⚠️  Sessions directory does not exist yet"))
			}
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Data home does not exist yet"))
			fmt.Fprintln(out, "   It is created with the first session.")
		}
		detail(out, "Data home: %s", paths.Home)
		detail(out, "Sessions: %s", paths.Sessions)
		fmt.Fprintln(out)

		// Step 2: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 2: Loading configuration..."))
		cfg, err := internal.LoadConfig(paths.Config)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Invalid configuration:"), err)
			failed = true
		} else {
			fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
			detail(out, "Config: %s", paths.Config)
			detail(out, "Endpoint: %s", cfg.Endpoint)
			detail(out, "Model: %s, temperature %g", cfg.Model, cfg.Temperature)
			if cfg.Timeout > 0 {
				detail(out, "Timeout: %s", cfg.Timeout)
			}
		}
		fmt.Fprintln(out)

		// Step 3: Credential
		fmt.Fprintln(out, infoStyle.Render("Step 3: Checking API credential..."))
		if os.Getenv(internal.CredentialEnv) != "" {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %s is set", internal.CredentialEnv)))
		} else {
			fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  %s is not set", internal.CredentialEnv)))
			fmt.Fprintln(out, "   Requests will be sent without an Authorization header.")
		}
		fmt.Fprintln(out)

		// Step 4: Usage ledger
		fmt.Fprintln(out, infoStyle.Render("Step 4: Checking usage ledger..."))
		if rows, err := countLedgerRows(paths.UsageDB); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(out, warningStyle.Render("⚠️  No usage recorded yet"))
			} else {
				fmt.Fprintln(out, errorStyle.Render("❌ Usage ledger unreadable:"), err)
				failed = true
			}
		} else {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Usage ledger holds %d exchange(s)", rows)))
		}
		detail(out, "Ledger: %s", paths.UsageDB)
		fmt.Fprintln(out)

		// Step 5: Sessions
		fmt.Fprintln(out, infoStyle.Render("Step 5: Listing sessions..."))
		files, err := store.List()
		switch {
		case err != nil:
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to list sessions:"), err)
			failed = true
		case len(files) == 0:
			fmt.Fprintln(out, warningStyle.Render("⚠️  No sessions found"))
		default:
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d session(s)", len(files))))
			for i, file := range files {
				if i == 5 {
					detail(out, "... and %d more", len(files)-5)
					break
				}
				detail(out, "[%d] %s (%d bytes)", i+1, file.Name, file.Size)
			}
		}
		if last, err := store.LastName(); err == nil {
			detail(out, "Last session: %s", last)
		}
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("Summary"))
		fmt.Fprintln(out)
		if failed {
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			return errors.New("health check failed")
		}
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

// detail prints an indented line when --details is set
func detail(out io.Writer, format string, args ...interface{}) {
	if healthcheckDetails {
		fmt.Fprintf(out, "   "+format+"\n", args...)
	}
}

// countLedgerRows opens the ledger read-only and counts its exchanges
func countLedgerRows(path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}
	db, err := internal.OpenDatabaseReadOnly(path)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var rows int
	if err := db.QueryRow("SELECT COUNT(*) FROM usage").Scan(&rows); err != nil {
		return 0, err
	}
	return rows, nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckDetails, "details", "d", false, "Show detailed diagnostic information")
}
