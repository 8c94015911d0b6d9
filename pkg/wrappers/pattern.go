package wrappers

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/user/bugbounty-agent/pkg/engine"
)

// patternRule flags a single source line
type patternRule struct {
	match       func(line string) bool
	severity    engine.Severity
	category    string
	description string
	fix         string
}

var (
	weakHashRe     = regexp.MustCompile(`(?i)md5|sha1`)
	passwordRe     = regexp.MustCompile(`(?i)password|pwd|pass`)
	wildcardCorsRe = regexp.MustCompile(`cors.*origin.*\*`)
)

var patternRules = []patternRule{
	{
		match: func(line string) bool {
			return strings.Contains(line, "query(") &&
				(strings.Contains(line, "+") || strings.Contains(line, "${") || strings.Contains(line, "`"))
		},
		severity:    engine.SeverityCritical,
		category:    "SQL Injection",
		description: "Possible SQL injection - user input in query without parameterization",
		fix:         "Use parameterized queries or prepared statements",
	},
	{
		match: func(line string) bool {
			return weakHashRe.MatchString(line) && passwordRe.MatchString(line)
		},
		severity:    engine.SeverityCritical,
		category:    "Weak Password Hashing",
		description: "Weak hashing algorithm (MD5/SHA1) used for passwords",
		fix:         "Use bcrypt with salt rounds >= 12",
	},
	{
		match:       wildcardCorsRe.MatchString,
		severity:    engine.SeverityHigh,
		category:    "CORS Misconfiguration",
		description: "Wildcard CORS origin allows requests from any domain",
		fix:         "Specify allowed origins explicitly",
	},
}

// PatternAdapter runs the built-in line rules over collected source documents
type PatternAdapter struct{}

func (PatternAdapter) Name() string { return "pattern-analysis" }

func (PatternAdapter) Parse(raw []byte, root string) ([]engine.Finding, error) {
	var docs []SourceDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("invalid source documents: %w", err)
	}

	var findings []engine.Finding
	for _, doc := range docs {
		file := engine.RelativePath(root, doc.Path)
		for i, line := range strings.Split(doc.Content, "\n") {
			for _, r := range patternRules {
				if !r.match(line) {
					continue
				}
				findings = append(findings, engine.Finding{
					File:        file,
					Line:        i + 1,
					Severity:    r.severity,
					Category:    r.category,
					Description: r.description,
					Remediation: r.fix,
				})
			}
		}
	}
	return findings, nil
}
