package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/doms3/chatty/internal"
	"github.com/spf13/cobra"
)

var usageSession string

// usageCmd represents the usage command
var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show token usage",
	Long: `Show the prompt and completion tokens spent per session. With --session
every exchange of that session is listed. One-off exchanges from 'chatty once'
are grouped under (once).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if _, err := os.Stat(paths.UsageDB); errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(out, headerStyle.Render("No usage recorded"))
			return nil
		}

		ledger, err := internal.OpenLedger(paths.UsageDB)
		if err != nil {
			return err
		}
		defer ledger.Close()

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		if cmd.Flags().Changed("session") {
			records, err := ledger.Records(cmd.Context(), usageSession)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(w, titleStyle.Render("Time")+"\t"+titleStyle.Render("Model")+"\t"+titleStyle.Render("Prompt")+"\t"+titleStyle.Render("Completion")+"\t")
			_, _ = fmt.Fprintln(w, strings.Repeat("─", 70))
			for _, r := range records {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t\n", dateStyle.Render(r.CreatedAt.Local().Format(time.DateTime)), modelStyle.Render(r.Model), r.PromptTokens, r.CompletionTokens)
			}
			return w.Flush()
		}

		totals, err := ledger.Totals(cmd.Context())
		if err != nil {
			return err
		}
		if len(totals) == 0 {
			fmt.Fprintln(out, headerStyle.Render("No usage recorded"))
			return nil
		}

		_, _ = fmt.Fprintln(w, titleStyle.Render("Session")+"\t"+titleStyle.Render("Exchanges")+"\t"+titleStyle.Render("Prompt")+"\t"+titleStyle.Render("Completion")+"\t"+titleStyle.Render("Total")+"\t"+titleStyle.Render("Last used")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))
		var sum int
		for _, t := range totals {
			name := t.Session
			if name == "" {
				name = "(once)"
			}
			total := t.PromptTokens + t.CompletionTokens
			sum += total
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t\n",
				nameStyle.Render(name),
				strconv.Itoa(t.Exchanges),
				t.PromptTokens,
				t.CompletionTokens,
				countStyle.Render(strconv.Itoa(total)),
				formatModified(t.LastUsed, time.Now()))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, hintStyle.Render(fmt.Sprintf("%d token(s) in total", sum)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
	usageCmd.Flags().StringVarP(&usageSession, "session", "s", "", "List the exchanges of one session")
}
