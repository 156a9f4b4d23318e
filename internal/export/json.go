package export

import (
	"io"

	"github.com/doms3/chatty/internal/aichat"
)

// JSONExporter writes the session document itself, pretty-printed. Its
// output can be fed back through import.
type JSONExporter struct{}

// Export exports a session to JSON format
func (e *JSONExporter) Export(_ string, session *aichat.Session, w io.Writer) error {
	return session.WriteJSON(w, true)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
