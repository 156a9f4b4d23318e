package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/doms3/chatty/internal"
	"github.com/spf13/cobra"
)

var (
	listClearCache bool
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	lastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	modelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	Long: `List every saved session with its model, message count and last
modification time. The last used session is marked with *.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cacheManager := internal.NewCacheManager(paths.Index)

		// Clear cache if requested
		if listClearCache {
			if err := cacheManager.ClearCache(); err != nil {
				internal.LogWarn("Failed to clear cache: %v", err)
			} else {
				internal.LogInfo("Cache cleared")
			}
		}

		index, err := cacheManager.Refresh(store)
		if err != nil {
			return err
		}

		last, err := store.LastName()
		if err != nil {
			internal.LogDebug("No last session: %v", err)
		}

		displaySessionsFromIndex(cmd.OutOrStdout(), index, last)
		return nil
	},
}

func displaySessionsFromIndex(out io.Writer, index *internal.SessionIndex, last string) {
	if len(index.Sessions) == 0 {
		fmt.Fprintln(out, headerStyle.Render("No sessions found"))
		fmt.Fprintln(out, hintStyle.Render("Start one with `chatty new <name> --prompt <file>`"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Found %d session(s)", len(index.Sessions))))
	fmt.Fprintln(out)

	// Use tabwriter for aligned columns with better spacing
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, " \t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Model")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Modified")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, entry := range index.Sessions {
		marker := " "
		if entry.Name == last {
			marker = lastStyle.Render("*")
		}

		name := entry.Name
		// Truncate long names but keep them readable
		if len(name) > 40 {
			name = name[:37] + "..."
		}

		model := modelStyle.Render(entry.Model)
		msgCount := countStyle.Render(strconv.Itoa(entry.MessageCount))
		if entry.Error != "" {
			model = dateStyle.Render("unreadable")
			msgCount = dateStyle.Render("—")
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", marker, nameStyle.Render(name), model, msgCount, formatModified(entry.ModTime, time.Now()))
	}

	_ = w.Flush()
}

// formatModified renders t relative to now: clock time for today, weekday
// within a week, date within a year, full date otherwise.
func formatModified(t, now time.Time) string {
	if t.IsZero() {
		return dateStyle.Render("—")
	}
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return dateStyle.Render(t.Format("Today 15:04"))
	case diff < 7*24*time.Hour:
		return dateStyle.Render(t.Format("Mon 15:04"))
	case diff < 365*24*time.Hour:
		return dateStyle.Render(t.Format("Jan 02 15:04"))
	default:
		return dateStyle.Render(t.Format("2006-01-02"))
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listClearCache, "clear-cache", false, "Rebuild the session index from scratch")
}
