package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/doms3/chatty/internal/aichat"
)

// JSONLExporter exports sessions in JSONL format (one message per line)
type JSONLExporter struct{}

type jsonlMessage struct {
	Index   int    `json:"index"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Export exports a session to JSONL format
func (e *JSONLExporter) Export(_ string, session *aichat.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for i, msg := range session.Messages() {
		line := jsonlMessage{Index: i, Role: msg.Role.String(), Content: msg.Text}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode message %d: %w", i, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
