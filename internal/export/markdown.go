package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/doms3/chatty/internal/aichat"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

var roleHeadings = map[aichat.Role]string{
	aichat.RoleSystem:    "System",
	aichat.RoleUser:      "User",
	aichat.RoleAssistant: "Assistant",
}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(name string, session *aichat.Session, w io.Writer) error {
	bw := bufio.NewWriter(w)

	title := name
	if title == "" {
		title = "(unsaved)"
	}
	_, _ = fmt.Fprintf(bw, "# Session %s\n\n", title)
	_, _ = fmt.Fprintf(bw, "**Model:** %s  \n", session.Model)
	_, _ = fmt.Fprintf(bw, "**Temperature:** %g  \n", session.Temperature)
	_, _ = fmt.Fprintf(bw, "**Messages:** %d\n\n", session.Len())

	_, _ = fmt.Fprintf(bw, "---\n\n")

	messages := session.Messages()
	for i, msg := range messages {
		_, _ = fmt.Fprintf(bw, "**%s:**\n\n%s\n\n", roleHeadings[msg.Role], escapeMarkdown(msg.Text))

		// Add horizontal rule after each message (except the last one)
		if i < len(messages)-1 {
			_, _ = fmt.Fprintf(bw, "---\n\n")
		}
	}

	return bw.Flush()
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			if strings.HasPrefix(line, "---") {
				line = "\\" + line
			}
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
