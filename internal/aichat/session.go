// Package aichat holds a bounded, arena-backed chat session and the single
// request/response exchange that extends it with an assistant reply.
package aichat

import (
	"errors"
	"fmt"
	"io"
)

const (
	// MaxMessages is the most messages a session can hold.
	MaxMessages = 4096

	// BufferSize is the arena size shared by all message text in a session.
	// Every stored message also consumes one terminator byte.
	BufferSize = 4096 * 8

	// DefaultTemperature is the sampling temperature of a new session.
	DefaultTemperature = 0.7
)

// Role identifies the author of a message.
type Role int

const (
	RoleSystem Role = iota
	RoleUser
	RoleAssistant
)

func (r Role) String() string {
	switch r {
	case RoleSystem:
		return "system"
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole accepts exactly "system", "user" or "assistant".
func ParseRole(s string) (Role, error) {
	switch s {
	case "system":
		return RoleSystem, nil
	case "user":
		return RoleUser, nil
	case "assistant":
		return RoleAssistant, nil
	}
	return 0, fmt.Errorf("%w: unknown role %q", ErrJSONParse, s)
}

// Model is the completion model a session is sent to.
type Model int

const (
	ModelGPT35Turbo Model = iota
	ModelGPT35Turbo16k
)

func (m Model) String() string {
	if m == ModelGPT35Turbo16k {
		return "gpt-3.5-turbo-16k"
	}
	return "gpt-3.5-turbo"
}

// ParseModel maps a model name onto a Model.
func ParseModel(s string) (Model, error) {
	switch s {
	case "gpt-3.5-turbo":
		return ModelGPT35Turbo, nil
	case "gpt-3.5-turbo-16k":
		return ModelGPT35Turbo16k, nil
	}
	return 0, fmt.Errorf("%w: unknown model %q", ErrJSONParse, s)
}

// Message is a copy of one stored message.
type Message struct {
	Role Role
	Text string
}

// record locates a message's text inside the arena.
type record struct {
	offset int
	length int
	role   Role
}

// Session is an ordered list of messages whose text lives in a single
// fixed-size arena. Messages are appended at the arena cursor and can only be
// removed from the end. A Session is not safe for concurrent use.
type Session struct {
	Model       Model
	Temperature float64

	arena     []byte
	remaining int
	records   []record
}

// New returns an empty session with the default model and temperature.
func New() *Session {
	return &Session{
		Model:       ModelGPT35Turbo,
		Temperature: DefaultTemperature,
		arena:       make([]byte, BufferSize),
		remaining:   BufferSize,
	}
}

// Len returns the number of messages.
func (s *Session) Len() int {
	return len(s.records)
}

// Remaining returns the unused arena bytes.
func (s *Session) Remaining() int {
	return s.remaining
}

func (s *Session) cursor() int {
	return BufferSize - s.remaining
}

// Message returns the i-th message. It panics if i is out of range.
func (s *Session) Message(i int) Message {
	r := s.records[i]
	return Message{Role: r.role, Text: string(s.arena[r.offset : r.offset+r.length])}
}

// Messages returns a copy of all messages in order.
func (s *Session) Messages() []Message {
	msgs := make([]Message, len(s.records))
	for i := range s.records {
		msgs[i] = s.Message(i)
	}
	return msgs
}

// Append copies text into the arena as a new message.
func (s *Session) Append(role Role, text string) error {
	if len(s.records) >= MaxMessages {
		return ErrSessionFull
	}
	if len(text)+1 > s.remaining {
		return ErrSessionBufferFull
	}

	at := s.cursor()
	n := copy(s.arena[at:], text)
	s.arena[at+n] = 0
	s.commit(role, at, n)
	return nil
}

// AppendFrom reads r until EOF directly into the free arena space and stores
// the result as a new message. A read that fills the free space completely
// leaves no room for the terminator and fails with ErrSessionBufferFull, even
// when r had nothing more to give.
func (s *Session) AppendFrom(role Role, r io.Reader) error {
	if len(s.records) >= MaxMessages {
		return ErrSessionFull
	}

	at := s.cursor()
	free := s.arena[at:]
	n, err := io.ReadFull(r, free)
	switch {
	case err == nil:
		return ErrSessionBufferFull
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
	default:
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	free[n] = 0
	s.commit(role, at, n)
	return nil
}

func (s *Session) commit(role Role, at, n int) {
	s.records = append(s.records, record{offset: at, length: n, role: role})
	s.remaining -= n + 1
}

// RemoveLast drops the most recent message and returns its space to the arena.
func (s *Session) RemoveLast() error {
	if len(s.records) == 0 {
		return ErrSessionNoMessages
	}
	last := s.records[len(s.records)-1]
	s.records = s.records[:len(s.records)-1]
	s.remaining += last.length + 1
	return nil
}

// Last returns the most recent message.
func (s *Session) Last() (Message, error) {
	if len(s.records) == 0 {
		return Message{}, ErrSessionNoMessages
	}
	return s.Message(len(s.records) - 1), nil
}

// LastText returns the text of the most recent message.
func (s *Session) LastText() (string, error) {
	m, err := s.Last()
	if err != nil {
		return "", err
	}
	return m.Text, nil
}
