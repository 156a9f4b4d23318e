package internal

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/doms3/chatty/internal/aichat"
)

// SessionStore keeps one JSON file per named session and a pointer to the
// most recently used one.
type SessionStore struct {
	paths Paths
}

// SessionInfo describes a session file on disk
type SessionInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// NewSessionStore creates a store rooted at paths
func NewSessionStore(paths Paths) *SessionStore {
	return &SessionStore{paths: paths}
}

// Paths returns the layout the store works in
func (s *SessionStore) Paths() Paths {
	return s.paths
}

// ValidateName rejects names that cannot be used as a single file name
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.HasPrefix(name, saveTempPrefix):
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	}
	return nil
}

// Open opens an existing session for reading and rewriting. An empty name
// opens the last session.
func (s *SessionStore) Open(name string) (*SessionFile, error) {
	if name == "" {
		last, err := s.LastName()
		if err != nil {
			return nil, err
		}
		name = last
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(s.paths.SessionPath(name), os.O_RDWR, 0)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrSessionNotFound
		}
		return nil, &SessionFileError{Name: name, Op: "open", Err: err}
	}
	return &SessionFile{Name: name, path: s.paths.SessionPath(name), f: f}, nil
}

// Create creates a new, empty session file. It never replaces an existing one.
func (s *SessionStore) Create(name string) (*SessionFile, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := s.paths.Ensure(); err != nil {
		return nil, &SessionFileError{Name: name, Op: "create", Err: err}
	}

	f, err := os.OpenFile(s.paths.SessionPath(name), os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			err = ErrSessionExists
		}
		return nil, &SessionFileError{Name: name, Op: "create", Err: err}
	}
	return &SessionFile{Name: name, path: s.paths.SessionPath(name), f: f, created: true}, nil
}

// Delete removes a session file, and the last-session pointer if it pointed
// at that session.
func (s *SessionStore) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	last, lastErr := s.LastName()
	if err := os.Remove(s.paths.SessionPath(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrSessionNotFound
		}
		return &SessionFileError{Name: name, Op: "delete", Err: err}
	}

	if lastErr == nil && last == name {
		if err := os.Remove(s.paths.LastSession); err != nil && !errors.Is(err, fs.ErrNotExist) {
			LogWarn("Failed to remove last session pointer: %v", err)
		}
	}
	return nil
}

// List returns the regular files in the sessions directory, sorted by name
func (s *SessionStore) List() ([]SessionInfo, error) {
	entries, err := os.ReadDir(s.paths.Sessions)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []SessionInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	sessions := make([]SessionInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), saveTempPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			LogDebug("Skipping %s: %v", entry.Name(), err)
			continue
		}
		sessions = append(sessions, SessionInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Name < sessions[j].Name
	})
	return sessions, nil
}

// SetLast points the last-session symlink at name
func (s *SessionStore) SetLast(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.Remove(s.paths.LastSession); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &SessionFileError{Name: name, Op: "link", Err: err}
	}
	if err := os.Symlink(s.paths.SessionPath(name), s.paths.LastSession); err != nil {
		return &SessionFileError{Name: name, Op: "link", Err: err}
	}
	return nil
}

// LastName returns the name of the last used session
func (s *SessionStore) LastName() (string, error) {
	target, err := os.Readlink(s.paths.LastSession)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNoLastSession
		}
		return "", fmt.Errorf("failed to read last session pointer: %w", err)
	}
	return filepath.Base(target), nil
}

// saveTempPrefix marks the files Save writes before renaming them into place
const saveTempPrefix = ".chatty-save-"

// SessionFile is an open session file. Load and Save may be called in any
// order; Save replaces the whole file.
type SessionFile struct {
	Name    string
	path    string
	f       *os.File
	created bool
}

// Load parses the file content into a session
func (sf *SessionFile) Load() (*aichat.Session, error) {
	if _, err := sf.f.Seek(0, io.SeekStart); err != nil {
		return nil, &SessionFileError{Name: sf.Name, Op: "read", Err: fmt.Errorf("%w: %v", aichat.ErrIO, err)}
	}
	session, err := aichat.ReadJSON(sf.f)
	if err != nil {
		return nil, &SessionFileError{Name: sf.Name, Op: "read", Err: err}
	}
	return session, nil
}

// Save writes the session document to a temporary file next to the session
// and renames it over the session file, so a failed write never leaves a
// partial document behind. The SessionFile then refers to the new file.
func (sf *SessionFile) Save(session *aichat.Session) error {
	wrap := func(err error) error {
		return &SessionFileError{Name: sf.Name, Op: "write", Err: fmt.Errorf("%w: %v", aichat.ErrIO, err)}
	}

	tmp, err := os.CreateTemp(filepath.Dir(sf.path), saveTempPrefix+sf.Name+"-*")
	if err != nil {
		return wrap(err)
	}
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := session.WriteJSON(tmp, true); err != nil {
		return fail(&SessionFileError{Name: sf.Name, Op: "write", Err: err})
	}
	if err := tmp.Chmod(0644); err != nil {
		return fail(wrap(err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(wrap(err))
	}
	if err := os.Rename(tmp.Name(), sf.path); err != nil {
		return fail(wrap(err))
	}

	if err := sf.f.Close(); err != nil {
		LogDebug("Closing replaced session file %s: %v", sf.Name, err)
	}
	sf.f = tmp
	return nil
}

// Discard closes the file and, if it was created by this process, removes it
func (sf *SessionFile) Discard() error {
	if err := sf.f.Close(); err != nil {
		return err
	}
	if sf.created {
		return os.Remove(sf.path)
	}
	return nil
}

// Close closes the file
func (sf *SessionFile) Close() error {
	return sf.f.Close()
}
