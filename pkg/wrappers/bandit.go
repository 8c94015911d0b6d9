package wrappers

import (
	"encoding/json"
	"fmt"

	"github.com/user/bugbounty-agent/pkg/engine"
)

// BanditAdapter parses `bandit -f json` output
type BanditAdapter struct{}

type banditReport struct {
	Results []struct {
		Filename      string     `json:"filename"`
		LineNumber    lineNumber `json:"line_number"`
		IssueSeverity string     `json:"issue_severity"`
		TestID        string     `json:"test_id"`
		TestName      string     `json:"test_name"`
		IssueText     string     `json:"issue_text"`
		MoreInfo      string     `json:"more_info"`
	} `json:"results"`
}

var banditSeverity = map[string]engine.Severity{
	"HIGH":   engine.SeverityHigh,
	"MEDIUM": engine.SeverityMedium,
	"LOW":    engine.SeverityLow,
}

func (BanditAdapter) Name() string { return "bandit" }

func (BanditAdapter) Parse(raw []byte, root string) ([]engine.Finding, error) {
	var report banditReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("invalid bandit report: %w", err)
	}

	findings := make([]engine.Finding, 0, len(report.Results))
	for _, r := range report.Results {
		fix := ""
		if r.MoreInfo != "" {
			fix = "See " + r.MoreInfo
		}
		findings = append(findings, engine.Finding{
			File:        engine.RelativePath(root, r.Filename),
			Line:        int(r.LineNumber),
			Severity:    lookupSeverity(banditSeverity, r.IssueSeverity),
			Category:    engine.NormalizeCategory(r.TestID, r.TestName),
			Description: r.IssueText,
			Remediation: fix,
		})
	}
	return findings, nil
}
