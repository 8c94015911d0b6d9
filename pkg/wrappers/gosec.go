package wrappers

import (
	"encoding/json"
	"fmt"

	"github.com/user/bugbounty-agent/pkg/engine"
)

// GosecAdapter parses `gosec -fmt json` output
type GosecAdapter struct{}

type gosecReport struct {
	Issues []struct {
		RuleID   string     `json:"rule_id"`
		Details  string     `json:"details"`
		File     string     `json:"file"`
		Line     lineNumber `json:"line"`
		Severity string     `json:"severity"`
		CWE      struct {
			ID string `json:"id"`
		} `json:"cwe"`
	} `json:"Issues"`
}

var gosecSeverity = map[string]engine.Severity{
	"HIGH":   engine.SeverityHigh,
	"MEDIUM": engine.SeverityMedium,
	"LOW":    engine.SeverityLow,
}

func (GosecAdapter) Name() string { return "gosec" }

func (GosecAdapter) Parse(raw []byte, root string) ([]engine.Finding, error) {
	var report gosecReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("invalid gosec report: %w", err)
	}

	findings := make([]engine.Finding, 0, len(report.Issues))
	for _, is := range report.Issues {
		desc := is.Details
		if is.CWE.ID != "" {
			desc = fmt.Sprintf("%s (CWE-%s)", is.Details, is.CWE.ID)
		}
		findings = append(findings, engine.Finding{
			File:        engine.RelativePath(root, is.File),
			Line:        int(is.Line),
			Severity:    lookupSeverity(gosecSeverity, is.Severity),
			Category:    engine.NormalizeCategory(is.RuleID, is.Details),
			Description: desc,
		})
	}
	return findings, nil
}
