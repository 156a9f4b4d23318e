package internal

import (
	"path/filepath"
	"testing"

	"github.com/doms3/chatty/testutil"
)

func TestDetectPaths_XDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("HOME", "/home/someone")

	paths, err := DetectPaths()
	if err != nil {
		t.Fatalf("DetectPaths() error = %v", err)
	}
	if paths.Home != "/data/chatty" {
		t.Errorf("Home = %v, want /data/chatty", paths.Home)
	}
}

func TestDetectPaths_Home(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/someone")

	paths, err := DetectPaths()
	if err != nil {
		t.Fatalf("DetectPaths() error = %v", err)
	}
	if want := "/home/someone/.local/share/chatty"; paths.Home != want {
		t.Errorf("Home = %v, want %v", paths.Home, want)
	}
}

func TestDetectPaths_NoHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "")

	if _, err := DetectPaths(); err == nil {
		t.Error("DetectPaths() should fail without XDG_DATA_HOME or HOME")
	}
}

func TestNewPaths(t *testing.T) {
	paths := NewPaths("/x")
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"sessions", paths.Sessions, "/x/sessions"},
		{"last session", paths.LastSession, "/x/.last_session"},
		{"index", paths.Index, "/x/index.yaml"},
		{"usage", paths.UsageDB, "/x/usage.db"},
		{"config", paths.Config, "/x/config.yaml"},
		{"session file", paths.SessionPath("work"), "/x/sessions/work"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestPaths_Ensure(t *testing.T) {
	home := filepath.Join(testutil.CreateTempDir(t), "chatty")
	paths := NewPaths(home)

	if paths.HomeExists() {
		t.Fatal("HomeExists() should be false before Ensure()")
	}
	if err := paths.Ensure(); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if !paths.HomeExists() || !paths.SessionsDirExists() {
		t.Error("Ensure() should create the home and sessions directories")
	}
	if err := paths.Ensure(); err != nil {
		t.Errorf("Ensure() second call error = %v", err)
	}
}
