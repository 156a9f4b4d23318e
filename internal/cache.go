package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/doms3/chatty/internal/aichat"
	"gopkg.in/yaml.v3"
)

const cacheVersion = "1.0"

// CacheManager keeps a YAML index of session metadata so listings do not
// have to parse every session file.
type CacheManager struct {
	indexPath string
}

// CacheMetadata stores metadata about the cache
type CacheMetadata struct {
	CacheVersion string    `yaml:"cache_version"`
	UpdatedAt    time.Time `yaml:"updated_at"`
}

// SessionIndexEntry represents a session entry in the index
type SessionIndexEntry struct {
	Name         string    `yaml:"name"`
	Model        string    `yaml:"model,omitempty"`
	MessageCount int       `yaml:"message_count"`
	Size         int64     `yaml:"size"`
	ModTime      time.Time `yaml:"mod_time"`
	Error        string    `yaml:"error,omitempty"`
}

// SessionIndex represents the YAML index of all sessions
type SessionIndex struct {
	Sessions []SessionIndexEntry `yaml:"sessions"`
	Metadata CacheMetadata       `yaml:"metadata"`
}

// NewCacheManager creates a cache manager for the index file at indexPath
func NewCacheManager(indexPath string) *CacheManager {
	return &CacheManager{indexPath: indexPath}
}

// GetIndexPath returns the path to the session index YAML file
func (cm *CacheManager) GetIndexPath() string {
	return cm.indexPath
}

// LoadIndex loads the session index
func (cm *CacheManager) LoadIndex() (*SessionIndex, error) {
	data, err := os.ReadFile(cm.indexPath)
	if err != nil {
		return nil, err
	}

	var index SessionIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}

	return &index, nil
}

// SaveIndex saves the session index
func (cm *CacheManager) SaveIndex(index *SessionIndex) error {
	if err := os.MkdirAll(filepath.Dir(cm.indexPath), 0775); err != nil {
		return err
	}

	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	return os.WriteFile(cm.indexPath, data, 0644)
}

// Refresh brings the index in line with the session files in store. Files
// whose size and mod time match their entry are not parsed again; entries
// for deleted files are dropped. A missing or unreadable index is rebuilt.
func (cm *CacheManager) Refresh(store *SessionStore) (*SessionIndex, error) {
	files, err := store.List()
	if err != nil {
		return nil, err
	}

	cached := make(map[string]SessionIndexEntry)
	index, err := cm.LoadIndex()
	switch {
	case err == nil && index.Metadata.CacheVersion == cacheVersion:
		for _, entry := range index.Sessions {
			cached[entry.Name] = entry
		}
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		LogWarn("Rebuilding session index: %v", err)
	}

	fresh := &SessionIndex{
		Sessions: make([]SessionIndexEntry, 0, len(files)),
		Metadata: CacheMetadata{CacheVersion: cacheVersion, UpdatedAt: time.Now()},
	}
	changed := len(cached) != len(files)
	for _, file := range files {
		if entry, ok := cached[file.Name]; ok && entry.Size == file.Size && entry.ModTime.Equal(file.ModTime) {
			fresh.Sessions = append(fresh.Sessions, entry)
			continue
		}
		changed = true
		fresh.Sessions = append(fresh.Sessions, indexEntry(store, file))
	}

	sort.Slice(fresh.Sessions, func(i, j int) bool {
		return fresh.Sessions[i].Name < fresh.Sessions[j].Name
	})

	if changed || index == nil {
		if err := cm.SaveIndex(fresh); err != nil {
			LogWarn("Failed to save session index: %v", err)
		}
	}
	return fresh, nil
}

// indexEntry parses one session file into an index entry. Unreadable files
// are still listed, with the reason recorded.
func indexEntry(store *SessionStore, file SessionInfo) SessionIndexEntry {
	entry := SessionIndexEntry{Name: file.Name, Size: file.Size, ModTime: file.ModTime}

	data, err := os.ReadFile(store.Paths().SessionPath(file.Name))
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	session, err := aichat.FromJSON(data)
	if err != nil {
		LogDebug("Session %s does not parse: %v", file.Name, err)
		entry.Error = Describe(err)
		return entry
	}
	entry.Model = session.Model.String()
	entry.MessageCount = session.Len()
	return entry
}

// ClearCache removes the index file
func (cm *CacheManager) ClearCache() error {
	if err := os.Remove(cm.indexPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
