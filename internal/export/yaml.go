package export

import (
	"io"

	"github.com/doms3/chatty/internal/aichat"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports sessions in YAML format
type YAMLExporter struct{}

type yamlSession struct {
	Name        string        `yaml:"name,omitempty"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	Messages    []yamlMessage `yaml:"messages"`
}

type yamlMessage struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

// Export exports a session to YAML format
func (e *YAMLExporter) Export(name string, session *aichat.Session, w io.Writer) error {
	doc := yamlSession{
		Name:        name,
		Model:       session.Model.String(),
		Temperature: session.Temperature,
		Messages:    make([]yamlMessage, 0, session.Len()),
	}
	for _, msg := range session.Messages() {
		doc.Messages = append(doc.Messages, yamlMessage{Role: msg.Role.String(), Content: msg.Text})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(doc)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
