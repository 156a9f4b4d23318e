package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/doms3/chatty/testutil"
)

func TestJSONLExporter_Export(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
		want  []string
	}{
		{
			name: "empty session",
			want: []string{},
		},
		{
			name:  "conversation",
			pairs: []string{"system", "You are terse.", "user", "Hi", "assistant", "Hello!"},
			want: []string{
				`{"index":0,"role":"system","content":"You are terse."}`,
				`{"index":1,"role":"user","content":"Hi"}`,
				`{"index":2,"role":"assistant","content":"Hello!"}`,
			},
		},
		{
			name:  "multi-line content stays on one line",
			pairs: []string{"user", "line one\nline <two>"},
			want: []string{
				`{"index":0,"role":"user","content":"line one\nline <two>"}`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&JSONLExporter{}).Export("s", testutil.NewSession(t, tt.pairs...), &buf); err != nil {
				t.Fatalf("JSONLExporter.Export() error = %v", err)
			}

			output := buf.String()
			if len(tt.want) == 0 {
				if output != "" {
					t.Errorf("Empty session should produce empty output, got: %q", output)
				}
				return
			}
			lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(tt.want), output)
			}
			for i := range lines {
				if lines[i] != tt.want[i] {
					t.Errorf("line %d = %s, want %s", i, lines[i], tt.want[i])
				}
			}
		})
	}
}

func TestJSONLExporter_Extension(t *testing.T) {
	if got := (&JSONLExporter{}).Extension(); got != "jsonl" {
		t.Errorf("JSONLExporter.Extension() = %v, want jsonl", got)
	}
}
