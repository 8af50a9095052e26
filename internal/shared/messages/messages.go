package messages

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultMessages []byte

type MessageText struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Render executes title and body as text/template with data.
func (m MessageText) Render(data any) (title, body string, err error) {
	if title, err = render("title", m.Title, data); err != nil {
		return "", "", err
	}
	if body, err = render("body", m.Body, data); err != nil {
		return "", "", err
	}
	return title, body, nil
}

type Messages struct {
	DailyDigest MessageText `yaml:"daily_digest"`
	NoRecords   MessageText `yaml:"no_records"`
}

// Load reads the notifications YAML file. An empty path loads the built-in
// messages; keys missing from the file keep their built-in text.
func Load(path string) (*Messages, error) {
	var m Messages
	if err := yaml.Unmarshal(defaultMessages, &m); err != nil {
		return nil, fmt.Errorf("failed to parse default messages: %w", err)
	}
	if path == "" {
		return &m, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages file: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse messages file: %w", err)
	}
	return &m, nil
}

func render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
