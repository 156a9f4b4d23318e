package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/doms3/chatty/testutil"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		wantExt string
		wantErr bool
	}{
		{format: "jsonl", wantExt: "jsonl"},
		{format: "md", wantExt: "md"},
		{format: "markdown", wantExt: "md"},
		{format: "yaml", wantExt: "yaml"},
		{format: "json", wantExt: "json"},
		{format: "xml", wantErr: true},
		{format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewExporter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if exporter != nil {
					t.Errorf("NewExporter() returned exporter %T, want nil", exporter)
				}
				if !strings.Contains(err.Error(), "supported: json, jsonl, md, yaml") {
					t.Errorf("NewExporter() error should list formats, got %v", err)
				}
				return
			}
			if got := exporter.Extension(); got != tt.wantExt {
				t.Errorf("Exporter.Extension() = %v, want %v", got, tt.wantExt)
			}
		})
	}
}

func TestExporters_EmptySession(t *testing.T) {
	for _, format := range []string{"json", "jsonl", "md", "yaml"} {
		t.Run(format, func(t *testing.T) {
			exporter, err := NewExporter(format)
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := exporter.Export("empty", testutil.NewSession(t), &buf); err != nil {
				t.Errorf("Export() error = %v", err)
			}
		})
	}
}
