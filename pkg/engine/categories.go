package engine

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed data/categories.yaml
var categoriesYAML []byte

// Category is one canonical entry of the category vocabulary
type Category struct {
	Name    string   `yaml:"name"`
	Rules   []string `yaml:"rules"`
	Aliases []string `yaml:"aliases"`
}

// Vocabulary maps tool rule ids and free text onto canonical categories
type Vocabulary struct {
	Categories []Category `yaml:"categories"`
}

var (
	defaultVocab     *Vocabulary
	defaultVocabOnce sync.Once
)

// LoadVocabulary parses a YAML vocabulary document
func LoadVocabulary(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse category vocabulary: %w", err)
	}
	for i := range v.Categories {
		c := &v.Categories[i]
		for j := range c.Aliases {
			c.Aliases[j] = strings.ToLower(c.Aliases[j])
		}
	}
	return &v, nil
}

// DefaultVocabulary returns the embedded vocabulary
func DefaultVocabulary() *Vocabulary {
	defaultVocabOnce.Do(func() {
		v, err := LoadVocabulary(categoriesYAML)
		if err != nil {
			// embedded document is part of the build
			panic(err)
		}
		defaultVocab = v
	})
	return defaultVocab
}

// NormalizeCategory is shorthand for DefaultVocabulary().Normalize
func NormalizeCategory(ruleID, text string) string {
	return DefaultVocabulary().Normalize(ruleID, text)
}

// Normalize resolves a canonical category from a tool rule id and a free-text
// label. Exact rule ids win over aliases; when nothing matches the label (or
// rule id) is cleaned up and returned as is.
func (v *Vocabulary) Normalize(ruleID, text string) string {
	for _, c := range v.Categories {
		for _, r := range c.Rules {
			if ruleID != "" && strings.EqualFold(r, ruleID) {
				return c.Name
			}
		}
	}

	haystack := strings.ToLower(ruleID + " " + text)
	for _, c := range v.Categories {
		for _, a := range c.Aliases {
			if strings.Contains(haystack, a) {
				return c.Name
			}
		}
	}

	// descriptive rule ids ("python.flask.security.xss") make better labels
	// than messages; opaque ones ("B999") do not
	label := text
	if label == "" || strings.ContainsAny(ruleID, "./-_") {
		label = ruleID
	}
	return cleanLabel(label)
}

// Known reports whether name is a canonical category
func (v *Vocabulary) Known(name string) bool {
	for _, c := range v.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// cleanLabel turns "javascript.express.security.express-open-cors" into
// "Express Open Cors"
func cleanLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "Security Issue"
	}
	if !strings.Contains(s, " ") {
		if i := strings.LastIndexAny(s, "./"); i >= 0 && i < len(s)-1 {
			s = s[i+1:]
		}
	}
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)

	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
