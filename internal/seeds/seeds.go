// Package seeds renders the deterministic fallback text fed to the extraction
// pipeline when a request carries no usable material.
package seeds

import (
	"bytes"
	"embed"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

const (
	Upload = "upload"
	Quick  = "quick"
)

// maximum number of file names mentioned in the upload seed
const maxHintFiles = 2

// stand-alone separators in a subject would be read back as a topic
var subjectSeparator = regexp.MustCompile(`\s+[-–—|]+\s+`)

// marks and points annotations in a subject would be read back as the line's marks
var subjectMarks = regexp.MustCompile(`(?i)[(\[]\s*\d+\s*(?:marks?|pts?)\s*[)\]]|\d+\s*(?:marks?|pts?)\b|\(\s*\d+\s*\)`)

type seedFile struct {
	Name           string   `yaml:"name"`
	DefaultSubject string   `yaml:"default_subject"`
	Lines          []string `yaml:"lines"`
}

type seed struct {
	defaultSubject string
	tmpl           *template.Template
}

// Data fills a seed template.
type Data struct {
	Subject   string
	FileNames []string
}

type Library struct {
	seeds map[string]seed
}

// loads every embedded template
func NewLibrary() (*Library, error) {
	lib := &Library{seeds: make(map[string]seed)}
	if err := lib.load(); err != nil {
		return nil, fmt.Errorf("failed to load seed templates: %w", err)
	}
	return lib, nil
}

func (l *Library) load() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var sf seedFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		if sf.Name == "" {
			sf.Name = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		if len(sf.Lines) == 0 {
			return fmt.Errorf("template %s has no lines", sf.Name)
		}

		tmpl, err := template.New(sf.Name).Parse(strings.Join(sf.Lines, "\n"))
		if err != nil {
			return fmt.Errorf("failed to compile template %s: %w", sf.Name, err)
		}
		l.seeds[sf.Name] = seed{defaultSubject: sf.DefaultSubject, tmpl: tmpl}
	}

	return nil
}

// Render produces the seed text for name. An empty subject falls back to the
// template's default subject.
func (l *Library) Render(name string, data Data) (string, error) {
	s, ok := l.seeds[name]
	if !ok {
		return "", fmt.Errorf("seed template not found: %s", name)
	}

	subject := sanitizeSubject(data.Subject)
	if subject == "" {
		subject = s.defaultSubject
	}

	var buf bytes.Buffer
	err := s.tmpl.Execute(&buf, struct {
		Subject  string
		FileHint string
	}{
		Subject:  subject,
		FileHint: fileHint(data.FileNames),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render seed %s: %w", name, err)
	}
	return buf.String(), nil
}

// DefaultSubject returns the subject used by name when none is given.
func (l *Library) DefaultSubject(name string) string {
	return l.seeds[name].defaultSubject
}

func (l *Library) Names() []string {
	names := make([]string, 0, len(l.seeds))
	for name := range l.seeds {
		names = append(names, name)
	}
	return names
}

func sanitizeSubject(subject string) string {
	subject = subjectMarks.ReplaceAllString(subject, " ")
	subject = strings.Join(strings.Fields(subject), " ")
	subject = subjectSeparator.ReplaceAllString(subject, ", ")
	return strings.Trim(subject, " ,-–—|")
}

func fileHint(names []string) string {
	hint := make([]string, 0, maxHintFiles)
	for _, name := range names {
		if len(hint) == maxHintFiles {
			break
		}
		if name = sanitizeSubject(name); name != "" {
			hint = append(hint, name)
		}
	}
	if len(hint) == 0 {
		return ""
	}
	return " based on " + strings.Join(hint, ", ")
}
