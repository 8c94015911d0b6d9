package wrappers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/user/bugbounty-agent/pkg/engine"
)

// ESLintAdapter parses `eslint --format json` output. Only security plugin
// rules and the core eval-family rules are kept; style findings are not
// vulnerabilities.
type ESLintAdapter struct{}

// eslintCoreRules are core ESLint rules that flag dynamic code execution
var eslintCoreRules = map[string]bool{
	"no-eval":         true,
	"no-implied-eval": true,
	"no-new-func":     true,
	"no-script-url":   true,
}

func isSecurityRule(ruleID string) bool {
	return strings.HasPrefix(ruleID, "security/") ||
		strings.HasPrefix(ruleID, "security-node/") ||
		eslintCoreRules[ruleID]
}

type eslintFile struct {
	FilePath string `json:"filePath"`
	Messages []struct {
		RuleID   string     `json:"ruleId"`
		Severity int        `json:"severity"`
		Line     lineNumber `json:"line"`
		Message  string     `json:"message"`
	} `json:"messages"`
}

func (ESLintAdapter) Name() string { return "eslint" }

func (ESLintAdapter) Parse(raw []byte, root string) ([]engine.Finding, error) {
	var files []eslintFile
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, fmt.Errorf("invalid eslint report: %w", err)
	}

	var findings []engine.Finding
	for _, file := range files {
		path := engine.RelativePath(root, file.FilePath)
		for _, m := range file.Messages {
			if !isSecurityRule(m.RuleID) {
				continue
			}
			severity := engine.SeverityMedium
			if m.Severity == 2 {
				severity = engine.SeverityHigh
			}
			findings = append(findings, engine.Finding{
				File:        path,
				Line:        int(m.Line),
				Severity:    severity,
				Category:    engine.NormalizeCategory(m.RuleID, m.Message),
				Description: m.Message,
			})
		}
	}
	return findings, nil
}
