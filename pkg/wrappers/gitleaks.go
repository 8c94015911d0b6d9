package wrappers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/user/bugbounty-agent/pkg/engine"
)

// GitleaksAdapter parses a gitleaks JSON report. Every leak is critical.
type GitleaksAdapter struct{}

type gitleaksFinding struct {
	Description string     `json:"Description"`
	File        string     `json:"File"`
	StartLine   lineNumber `json:"StartLine"`
	RuleID      string     `json:"RuleID"`
	Match       string     `json:"Match"`
}

func (GitleaksAdapter) Name() string { return "gitleaks" }

func (GitleaksAdapter) Parse(raw []byte, root string) ([]engine.Finding, error) {
	// gitleaks writes an empty file when nothing leaked
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var leaks []gitleaksFinding
	if err := json.Unmarshal(raw, &leaks); err != nil {
		return nil, fmt.Errorf("invalid gitleaks report: %w", err)
	}

	findings := make([]engine.Finding, 0, len(leaks))
	for _, gl := range leaks {
		// the match holds the secret itself, so it stays out of the report
		findings = append(findings, engine.Finding{
			File:        engine.RelativePath(root, gl.File),
			Line:        int(gl.StartLine),
			Severity:    engine.SeverityCritical,
			Category:    "Hardcoded Secret",
			Description: fmt.Sprintf("%s (rule %s)", gl.Description, gl.RuleID),
			Remediation: "Revoke the secret immediately and remove it from git history.",
		})
	}
	return findings, nil
}

// gitleaksCommand runs `gitleaks detect` and reads the report it writes
func gitleaksCommand() *Command {
	return &Command{
		Binary:     "gitleaks",
		ReportFile: true,
		Empty:      "[]",
		Args: func(root, reportPath string) []string {
			return []string{"detect", "--source", root, "--report-format", "json", "--report-path", reportPath, "--no-banner"}
		},
	}
}
