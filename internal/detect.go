package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const appName = "chatty"

// Paths holds the locations chatty keeps its state in
type Paths struct {
	Home        string // data home, e.g. ~/.local/share/chatty
	Sessions    string // one JSON file per session
	LastSession string // symlink to the most recently used session file
	Index       string // YAML session index
	UsageDB     string // sqlite usage ledger
	Config      string // YAML config
}

// NewPaths lays out the chatty state under home
func NewPaths(home string) Paths {
	return Paths{
		Home:        home,
		Sessions:    filepath.Join(home, "sessions"),
		LastSession: filepath.Join(home, ".last_session"),
		Index:       filepath.Join(home, "index.yaml"),
		UsageDB:     filepath.Join(home, "usage.db"),
		Config:      filepath.Join(home, "config.yaml"),
	}
}

// DetectPaths resolves the data home from XDG_DATA_HOME, falling back to
// $HOME/.local/share.
func DetectPaths() (Paths, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return NewPaths(filepath.Join(xdg, appName)), nil
	}
	home := os.Getenv("HOME")
	if home == "" {
		return Paths{}, errors.New("neither XDG_DATA_HOME nor HOME is set")
	}
	return NewPaths(filepath.Join(home, ".local", "share", appName)), nil
}

// Ensure creates the data home and sessions directory
func (p Paths) Ensure() error {
	if err := os.MkdirAll(p.Sessions, 0775); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}
	return nil
}

// SessionPath returns the file path of a named session
func (p Paths) SessionPath(name string) string {
	return filepath.Join(p.Sessions, name)
}

// HomeExists checks if the data home directory exists
func (p Paths) HomeExists() bool {
	info, err := os.Stat(p.Home)
	return err == nil && info.IsDir()
}

// SessionsDirExists checks if the sessions directory exists
func (p Paths) SessionsDirExists() bool {
	info, err := os.Stat(p.Sessions)
	return err == nil && info.IsDir()
}
