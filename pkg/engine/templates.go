package engine

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed data/exploits.yaml
var exploitsYAML []byte

// ExploitTemplate is a deterministic proof-of-concept for a family of categories
type ExploitTemplate struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Categories     []string `yaml:"categories"`
	Title          string   `yaml:"title"`
	ExploitCode    string   `yaml:"exploit_code"`
	ExpectedResult string   `yaml:"expected_result"`
	DemoSteps      []string `yaml:"demo_steps"`
}

// TemplateSet indexes exploit templates by canonical category
type TemplateSet struct {
	Templates  map[string]ExploitTemplate
	byCategory map[string]string
}

// NewTemplateSet creates an empty template set
func NewTemplateSet() *TemplateSet {
	return &TemplateSet{
		Templates:  make(map[string]ExploitTemplate),
		byCategory: make(map[string]string),
	}
}

// DefaultTemplates returns the embedded template set
func DefaultTemplates() *TemplateSet {
	ts := NewTemplateSet()
	if err := ts.Load(exploitsYAML); err != nil {
		panic(err)
	}
	return ts
}

// Load adds every template of a YAML document. Later templates replace
// earlier ones with the same id or category.
func (ts *TemplateSet) Load(data []byte) error {
	var doc struct {
		Templates []ExploitTemplate `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse exploit templates: %w", err)
	}
	for _, t := range doc.Templates {
		if t.ID == "" {
			return fmt.Errorf("exploit template without id")
		}
		ts.Templates[t.ID] = t
		for _, c := range t.Categories {
			ts.byCategory[c] = t.ID
		}
	}
	return nil
}

// LoadDir reads additional YAML templates from a directory
func (ts *TemplateSet) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && (filepath.Ext(entry.Name()) == ".yaml" || filepath.Ext(entry.Name()) == ".yml") {
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				return err
			}
			if err := ts.Load(data); err != nil {
				return fmt.Errorf("%s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}

// ForCategory returns the template covering a canonical category
func (ts *TemplateSet) ForCategory(category string) (ExploitTemplate, bool) {
	id, ok := ts.byCategory[category]
	if !ok {
		return ExploitTemplate{}, false
	}
	t, ok := ts.Templates[id]
	return t, ok
}

// Render fills the template with the finding's fields
func (t ExploitTemplate) Render(f Finding) (Exploit, error) {
	title, err := renderString(t.ID+"-title", t.Title, f)
	if err != nil {
		return Exploit{}, err
	}
	code, err := renderString(t.ID+"-code", t.ExploitCode, f)
	if err != nil {
		return Exploit{}, err
	}
	expected, err := renderString(t.ID+"-expected", t.ExpectedResult, f)
	if err != nil {
		return Exploit{}, err
	}
	steps := make([]string, 0, len(t.DemoSteps))
	for i, s := range t.DemoSteps {
		step, err := renderString(fmt.Sprintf("%s-step-%d", t.ID, i), s, f)
		if err != nil {
			return Exploit{}, err
		}
		steps = append(steps, step)
	}

	return Exploit{
		FindingID:      f.ID,
		Title:          title,
		Severity:       f.Severity,
		ExploitCode:    code,
		ExpectedResult: expected,
		DemoSteps:      steps,
		Origin:         OriginTemplate,
	}, nil
}

func renderString(name, tmplStr string, data any) (string, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %v", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %v", name, err)
	}
	return buf.String(), nil
}
