package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/doms3/chatty/internal/aichat"
	"github.com/doms3/chatty/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestJSONExporter_Export(t *testing.T) {
	session := testutil.ConversationSession(t)
	session.Model = aichat.ModelGPT35Turbo16k

	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export("work", session, &buf); err != nil {
		t.Fatalf("JSONExporter.Export() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "\n  \"messages\": [") {
		t.Errorf("Output should be pretty-printed with indentation:\n%s", output)
	}

	// The export is a session document that imports back unchanged.
	back, err := aichat.ReadJSON(&buf)
	if err != nil {
		t.Fatalf("exported JSON does not import: %v", err)
	}
	if back.Model != aichat.ModelGPT35Turbo16k {
		t.Errorf("imported model = %v", back.Model)
	}
	if diff := cmp.Diff(session.Messages(), back.Messages()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	exporter := &JSONExporter{}
	if got := exporter.Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %v, want json", got)
	}
}
