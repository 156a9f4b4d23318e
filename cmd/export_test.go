package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doms3/chatty/testutil"
)

func TestExportCommand(t *testing.T) {
	env := newTestEnv(t)
	env.writeSession("math", testutil.ConversationSession(t), true)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name:    "invalid format",
			args:    []string{"export", "math", "--format", "invalid"},
			wantErr: true,
		},
		{
			name:    "missing session",
			args:    []string{"export", "ghost"},
			wantErr: true,
		},
		{
			name: "json is the session document",
			args: []string{"export", "math"},
			want: "{\n  \"model\": \"gpt-3.5-turbo\",",
		},
		{
			name: "last session by default",
			args: []string{"export", "-f", "jsonl"},
			want: `{"index":0,"role":"system","content":"You are terse."}`,
		},
		{
			name: "yaml",
			args: []string{"export", "math", "-f", "yaml"},
			want: "name: math",
		},
		{
			name: "markdown",
			args: []string{"export", "math", "-f", "md"},
			want: "# Session math",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := run(t, "", tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("export error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(stdout, tt.want) {
				t.Errorf("export output missing %q:\n%s", tt.want, stdout)
			}
		})
	}
}

func TestExportCommand_OutputFile(t *testing.T) {
	env := newTestEnv(t)
	env.writeSession("math", testutil.ConversationSession(t), false)
	path := filepath.Join(testutil.CreateTempDir(t), "math.json")

	stdout, _, err := run(t, "", "export", "math", "-o", path)
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if stdout != "" {
		t.Errorf("nothing should go to stdout, got %q", stdout)
	}
	if got := testutil.LoadSessionFile(t, path).Len(); got != 5 {
		t.Errorf("exported session has %d messages", got)
	}
}

func TestExportCommand_All(t *testing.T) {
	env := newTestEnv(t)
	env.writeSession("alpha", testutil.ConversationSession(t), false)
	env.writeSession("beta", testutil.NewSession(t, "user", "Hi"), false)
	testutil.WriteFile(t, env.paths.SessionPath("broken"), []byte("{"))
	dir := filepath.Join(testutil.CreateTempDir(t), "out")

	if _, _, err := run(t, "", "export", "--all", "--output-dir", dir, "-f", "md"); err != nil {
		t.Fatalf("export --all error = %v", err)
	}

	for _, name := range []string{"alpha.md", "beta.md"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "broken.md")); err == nil {
		t.Error("an unreadable session should be skipped")
	}

	if _, _, err := run(t, "", "export", "alpha", "--all"); err == nil {
		t.Error("--all with a session name should fail")
	}
}
