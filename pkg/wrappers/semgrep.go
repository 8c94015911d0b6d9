package wrappers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/user/bugbounty-agent/pkg/engine"
)

// SemgrepAdapter parses `semgrep --json` output
type SemgrepAdapter struct{}

type semgrepReport struct {
	Results []struct {
		CheckID string `json:"check_id"`
		Path    string `json:"path"`
		Start   struct {
			Line lineNumber `json:"line"`
		} `json:"start"`
		Extra struct {
			Severity string `json:"severity"`
			Message  string `json:"message"`
			Fix      string `json:"fix"`
			Metadata struct {
				Fix string `json:"fix"`
			} `json:"metadata"`
		} `json:"extra"`
	} `json:"results"`
}

var semgrepSeverity = map[string]engine.Severity{
	"ERROR":    engine.SeverityHigh,
	"WARNING":  engine.SeverityMedium,
	"INFO":     engine.SeverityLow,
	"CRITICAL": engine.SeverityCritical,
	"HIGH":     engine.SeverityHigh,
	"MEDIUM":   engine.SeverityMedium,
	"LOW":      engine.SeverityLow,
}

func (SemgrepAdapter) Name() string { return "semgrep" }

func (SemgrepAdapter) Parse(raw []byte, root string) ([]engine.Finding, error) {
	var report semgrepReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("invalid semgrep report: %w", err)
	}

	findings := make([]engine.Finding, 0, len(report.Results))
	for _, r := range report.Results {
		fix := r.Extra.Metadata.Fix
		if fix == "" {
			fix = r.Extra.Fix
		}
		findings = append(findings, engine.Finding{
			File:        engine.RelativePath(root, r.Path),
			Line:        int(r.Start.Line),
			Severity:    lookupSeverity(semgrepSeverity, r.Extra.Severity),
			Category:    engine.NormalizeCategory(r.CheckID, r.Extra.Message),
			Description: r.Extra.Message,
			Remediation: fix,
		})
	}
	return findings, nil
}

// lookupSeverity applies an adapter's table; unknown values become medium
func lookupSeverity(table map[string]engine.Severity, native string) engine.Severity {
	if s, ok := table[strings.ToUpper(strings.TrimSpace(native))]; ok {
		return s
	}
	return engine.SeverityMedium
}
