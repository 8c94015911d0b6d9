package engine

import (
	"strings"
	"testing"
	"time"
)

func TestBuildReportFromFindingsOnly(t *testing.T) {
	findings := withIDs([]Finding{
		finding(SeverityCritical, "SQL Injection", "a.js"),
		finding(SeverityHigh, "Cross-Site Scripting", "b.js"),
		finding(SeverityCritical, "Hardcoded Secret", "c.js"),
		finding(SeverityCritical, "SQL Injection", "d.js"),
		finding(SeverityCritical, "SQL Injection", "e.js"),
	}, "pattern-analysis")
	ts := time.Date(2026, 5, 6, 7, 8, 9, 0, time.FixedZone("CET", 3600))

	r := BuildReport(ReportInput{Target: "./demo", Timestamp: ts, Findings: findings})

	if r.Summary.Critical != 4 || r.Summary.RiskScore != 10 {
		t.Errorf("Unexpected summary: %+v", r.Summary)
	}
	if r.Analysis.Decision.Action != ActionBlock || r.Analysis.OverallRiskScore != 10 {
		t.Errorf("Unexpected analysis: %+v", r.Analysis)
	}
	if !r.Timestamp.Equal(ts) || r.Timestamp.Location() != time.UTC {
		t.Errorf("Expected UTC timestamp, got %v", r.Timestamp)
	}
	if len(r.Analysis.TopVulnerabilities) != 3 {
		t.Fatalf("Expected 3 top vulnerabilities, got %d", len(r.Analysis.TopVulnerabilities))
	}
	top := r.Analysis.TopVulnerabilities[1]
	if top.Title != "Hardcoded Secret in c.js" || top.Priority != "immediate" || !top.RequiresNotification {
		t.Errorf("Unexpected top vulnerability: %+v", top)
	}
	if !strings.HasPrefix(r.Analysis.ExecutiveSummary, "Found 5 security issues across 4 critical, 1 high") ||
		!strings.HasSuffix(r.Analysis.ExecutiveSummary, "Critical vulnerabilities require immediate attention.") {
		t.Errorf("Unexpected executive summary: %q", r.Analysis.ExecutiveSummary)
	}
}

func TestBuildReportCopiesInput(t *testing.T) {
	findings := withIDs([]Finding{finding(SeverityHigh, "XSS", "a.js")}, "eslint")
	findings[0].AI = &AIAnnotation{PriorityScore: 10}
	exploits := []Exploit{{ID: "exp-1", DemoSteps: []string{"one"}}}

	r := BuildReport(ReportInput{Target: "t", Timestamp: time.Now(), Findings: findings, Exploits: exploits})

	findings[0].File = "changed.js"
	findings[0].AI.PriorityScore = 99
	exploits[0].DemoSteps[0] = "changed"

	if r.Findings[0].File != "a.js" || r.Findings[0].AI.PriorityScore != 10 {
		t.Errorf("Report findings share memory with input: %+v", r.Findings[0])
	}
	if r.Exploits[0].DemoSteps[0] != "one" {
		t.Error("Report exploits share memory with input")
	}
}

func TestBuildReportEmpty(t *testing.T) {
	r := BuildReport(ReportInput{Target: "t", Timestamp: time.Now()})
	if r.Summary.RiskScore != 0 || r.Analysis.Decision.Action != ActionApprove || len(r.Exploits) != 0 {
		t.Errorf("Unexpected empty report: %+v", r)
	}
	if r.Findings == nil || r.Exploits == nil || r.Analysis.TopVulnerabilities == nil {
		t.Error("Empty slices must encode as [] not null")
	}
	if !strings.HasSuffix(r.Analysis.ExecutiveSummary, "No critical issues detected.") {
		t.Errorf("Unexpected summary: %q", r.Analysis.ExecutiveSummary)
	}
}
