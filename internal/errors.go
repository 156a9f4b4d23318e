package internal

import (
	"errors"
	"fmt"

	"github.com/doms3/chatty/internal/aichat"
)

var (
	// ErrSessionExists is returned when creating a session whose file is already there.
	ErrSessionExists = errors.New("session already exists")
	// ErrSessionNotFound is returned when a named session has no file.
	ErrSessionNotFound = errors.New("session does not exist")
	// ErrNoLastSession is returned when no session has been used yet.
	ErrNoLastSession = errors.New("no last session")
	// ErrInvalidName is returned for session names that cannot be file names.
	ErrInvalidName = errors.New("invalid session name")
)

// SessionFileError represents errors accessing a session file
type SessionFileError struct {
	Name string
	Op   string // "open", "create", "read", "write", "delete", "link"
	Err  error
}

func (e *SessionFileError) Error() string {
	return fmt.Sprintf("session %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *SessionFileError) Unwrap() error {
	return e.Err
}

// ConfigError represents errors loading configuration
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LedgerError represents errors reading or writing the usage ledger
type LedgerError struct {
	Op  string // "open", "record", "totals"
	Err error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("usage ledger %s: %v", e.Op, e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// exitMessages describes each core error kind for the user.
var exitMessages = map[aichat.Kind]string{
	aichat.ErrSessionFull:                 "Reached internal limit of messages in session",
	aichat.ErrSessionBufferFull:           "Reached internal limit of combined length of messages in session",
	aichat.ErrInvalidCharacters:           "Message contains invalid characters",
	aichat.ErrNotImplemented:              "Not implemented",
	aichat.ErrSessionNoMessages:           "Session has no messages",
	aichat.ErrSessionLastMessageAssistant: "Last message in session is already from the assistant",
	aichat.ErrJSONParse:                   "Failed to parse JSON",
	aichat.ErrAPIError:                    "API returned an error",
	aichat.ErrAPIResponse:                 "API returned an unexpected response",
	aichat.ErrIO:                          "I/O error",
	aichat.ErrMemory:                      "Memory allocation error",
}

// ExitStatus maps err onto the process exit status: the kind number for
// session and exchange errors, 1 for anything else and 0 for nil.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	if k := aichat.KindOf(err); k != 0 {
		return int(k)
	}
	return 1
}

// Describe renders err for the user. Core errors lead with the message for
// their kind; detail wrapped around the kind follows it.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	k := aichat.KindOf(err)
	msg, ok := exitMessages[k]
	if !ok {
		return err.Error()
	}
	if detail := err.Error(); detail != k.Error() {
		return msg + " (" + detail + ")"
	}
	return msg
}
