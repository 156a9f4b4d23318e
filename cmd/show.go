package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/doms3/chatty/internal/aichat"
	"github.com/spf13/cobra"
)

var (
	limit int
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	systemMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Bold(true).
				Padding(0, 1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	positionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the messages of a session",
	Long: `Display the messages of a saved session. With --limit only the most recent
messages are shown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, session, err := loadSession(args[0])
		if err != nil {
			return err
		}
		sf.Close()

		out := cmd.OutOrStdout()
		displaySessionHeader(out, sf.Name, session)

		messages := session.Messages()
		total := len(messages)
		first := 0
		if limit > 0 && limit < total {
			first = total - limit
			fmt.Fprintln(out, positionStyle.Render(fmt.Sprintf("... (%d earlier message(s))", first)))
			fmt.Fprintln(out)
		}

		for i := first; i < total; i++ {
			displayMessage(out, i+1, messages[i], total)
		}
		return nil
	},
}

func displaySessionHeader(out io.Writer, name string, session *aichat.Session) {
	fmt.Fprintln(out, sessionHeaderStyle.Render(name))

	metaParts := []string{
		fmt.Sprintf("Model: %s", session.Model),
		fmt.Sprintf("Temperature: %g", session.Temperature),
		fmt.Sprintf("Messages: %d", session.Len()),
		fmt.Sprintf("Free: %d bytes", session.Remaining()),
	}
	fmt.Fprintln(out, sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Fprintln(out)
}

func displayMessage(out io.Writer, index int, msg aichat.Message, total int) {
	var actorStyle lipgloss.Style
	var actorLabel string

	switch msg.Role {
	case aichat.RoleSystem:
		actorStyle = systemMessageStyle
		actorLabel = "System"
	case aichat.RoleUser:
		actorStyle = userMessageStyle
		actorLabel = "User"
	default:
		actorStyle = assistantMessageStyle
		actorLabel = "Assistant"
	}

	fmt.Fprintln(out, actorStyle.Render(actorLabel)+" "+positionStyle.Render(fmt.Sprintf("[%d/%d]", index, total)))

	content := strings.TrimSpace(msg.Text)
	if content != "" {
		// Wrap long lines
		content = wrapText(content, 80)
		fmt.Fprintln(out, messageContentStyle.Render(content))
	} else {
		fmt.Fprintln(out, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	}

	fmt.Fprintln(out)
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			switch {
			case currentLine == "":
				currentLine = word
			case len(currentLine)+len(word)+1 > width:
				wrapped = append(wrapped, currentLine)
				currentLine = word
			default:
				currentLine += " " + word
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the last n messages")
}
