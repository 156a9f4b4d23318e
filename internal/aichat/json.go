package aichat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// document is the on-disk and on-the-wire shape of a session.
type document struct {
	Model       string            `json:"model"`
	Temperature float64           `json:"temperature"`
	Messages    []documentMessage `json:"messages"`
}

type documentMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// importDocument mirrors document but tells missing keys apart from zero values.
type importDocument struct {
	Model       *string          `json:"model"`
	Temperature *float64         `json:"temperature"`
	Messages    *[]importMessage `json:"messages"`
}

type importMessage struct {
	Role    *string `json:"role"`
	Content *string `json:"content"`
}

// FromJSON builds a session from a JSON document holding a "messages" array
// of {role, content} objects. "model" and "temperature" are optional. Every
// message goes through Append, so ErrSessionFull and ErrSessionBufferFull can
// be returned for oversized documents. On any error no session is returned.
func FromJSON(data []byte) (*Session, error) {
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJSONParse, err)
	}
	if doc.Messages == nil {
		return nil, fmt.Errorf("%w: missing \"messages\"", ErrJSONParse)
	}

	s := New()
	if doc.Model != nil {
		m, err := ParseModel(*doc.Model)
		if err != nil {
			return nil, err
		}
		s.Model = m
	}
	if doc.Temperature != nil {
		s.Temperature = *doc.Temperature
	}

	for i, msg := range *doc.Messages {
		if msg.Role == nil || msg.Content == nil {
			return nil, fmt.Errorf("%w: message %d needs both role and content", ErrJSONParse, i)
		}
		role, err := ParseRole(*msg.Role)
		if err != nil {
			return nil, err
		}
		if err := s.Append(role, *msg.Content); err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
	}
	return s, nil
}

// ReadJSON reads r to EOF and passes the bytes to FromJSON.
func ReadJSON(r io.Reader) (*Session, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return FromJSON(data)
}

func (s *Session) document() document {
	doc := document{
		Model:       s.Model.String(),
		Temperature: s.Temperature,
		Messages:    make([]documentMessage, len(s.records)),
	}
	for i := range s.records {
		m := s.Message(i)
		doc.Messages[i] = documentMessage{Role: m.Role.String(), Content: m.Text}
	}
	return doc
}

// MarshalJSON renders the compact request form
// {"model":…,"temperature":…,"messages":[{"role":…,"content":…}]}.
func (s *Session) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.WriteJSON(&buf, false); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteJSON writes the session document to w, indented when pretty is set.
// The output always ends with a newline.
func (s *Session) WriteJSON(w io.Writer, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(s.document()); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}
