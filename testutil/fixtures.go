package testutil

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/doms3/chatty/internal/aichat"
)

// TerseSessionJSON is a session waiting for its first reply
const TerseSessionJSON = `{"model":"gpt-3.5-turbo","temperature":0.7,"messages":[{"role":"system","content":"You are terse."},{"role":"user","content":"Hi"}]}`

// CompletionJSON is a successful completion response answering "Hello!"
const CompletionJSON = `{"id":"chatcmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hello!"},"finish_reason":"stop"}],"usage":{"prompt_tokens":5,"completion_tokens":2,"total_tokens":7}}`

// APIErrorJSON is an error response from the completion endpoint
const APIErrorJSON = `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`

// NewSession builds a session from alternating role/text pairs
func NewSession(t *testing.T, pairs ...string) *aichat.Session {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatalf("NewSession needs role/text pairs, got %d strings", len(pairs))
	}
	s := aichat.New()
	for i := 0; i < len(pairs); i += 2 {
		role, err := aichat.ParseRole(pairs[i])
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		if err := s.Append(role, pairs[i+1]); err != nil {
			t.Fatalf("NewSession: %v", err)
		}
	}
	return s
}

// ConversationSession is a finished two-turn conversation
func ConversationSession(t *testing.T) *aichat.Session {
	t.Helper()
	return NewSession(t,
		"system", "You are terse.",
		"user", "Hi",
		"assistant", "Hello!",
		"user", "What is 2+2?",
		"assistant", "4",
	)
}

// WriteSessionFixture writes s as a pretty session file under sessionsDir
func WriteSessionFixture(t *testing.T, sessionsDir, name string, s *aichat.Session) string {
	t.Helper()
	var buf bytes.Buffer
	if err := s.WriteJSON(&buf, true); err != nil {
		t.Fatalf("Failed to encode session %s: %v", name, err)
	}
	path := filepath.Join(sessionsDir, name)
	WriteFile(t, path, buf.Bytes())
	return path
}

// LoadSessionFile parses the session file at path
func LoadSessionFile(t *testing.T, path string) *aichat.Session {
	t.Helper()
	s, err := aichat.FromJSON(ReadFile(t, path))
	if err != nil {
		t.Fatalf("Failed to parse session %s: %v", path, err)
	}
	return s
}
