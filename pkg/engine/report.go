package engine

import (
	"fmt"
	"time"
)

// topVulnerabilityCount is how many critical findings the summary highlights
const topVulnerabilityCount = 3

// TopVulnerability is a headline entry of the AI analysis block
type TopVulnerability struct {
	Title                string   `json:"title"`
	Severity             Severity `json:"severity"`
	Impact               string   `json:"impact"`
	Priority             string   `json:"priority"`
	RequiresNotification bool     `json:"requires_notification"`
}

// Analysis is the decision-oriented summary of a scan
type Analysis struct {
	OverallRiskScore   float64            `json:"overall_risk_score"`
	ExecutiveSummary   string             `json:"executive_summary"`
	Decision           Decision           `json:"decision"`
	TopVulnerabilities []TopVulnerability `json:"top_vulnerabilities"`
	RecommendedActions []string           `json:"recommended_actions"`
}

// Report is the final, immutable result of a scan
type Report struct {
	Timestamp  time.Time    `json:"timestamp"`
	ScanID     string       `json:"scan_id"`
	Target     string       `json:"target"`
	Summary    RiskSummary  `json:"summary"`
	Findings   []Finding    `json:"findings"`
	Exploits   []Exploit    `json:"exploits"`
	Analysis   Analysis     `json:"ai_analysis"`
	Tools      []ToolResult `json:"tools"`
	ScanOutput string       `json:"scan_output"`
}

// ReportInput carries everything the builder may use. Only Target, Timestamp
// and Findings are required; Summary and Decision are derived from Findings
// when nil.
type ReportInput struct {
	ScanID    string
	Target    string
	Timestamp time.Time
	Findings  []Finding
	Exploits  []Exploit
	Summary   *RiskSummary
	Decision  *Decision
	Tools     []ToolResult
	ScanLog   string
}

// BuildReport assembles a report. Every slice is copied so later changes to
// the input never leak into the report.
func BuildReport(in ReportInput) *Report {
	summary := Score(in.Findings)
	if in.Summary != nil {
		summary = *in.Summary
	}
	decision := Decide(summary)
	if in.Decision != nil {
		decision = *in.Decision
	}

	return &Report{
		Timestamp: in.Timestamp.UTC(),
		ScanID:    in.ScanID,
		Target:    in.Target,
		Summary:   summary,
		Findings:  copyFindings(in.Findings),
		Exploits:  copyExploits(in.Exploits),
		Analysis: Analysis{
			OverallRiskScore:   summary.RiskScore,
			ExecutiveSummary:   ExecutiveSummary(summary),
			Decision:           decision,
			TopVulnerabilities: topVulnerabilities(in.Findings),
			RecommendedActions: RecommendedActions(summary),
		},
		Tools:      append([]ToolResult{}, in.Tools...),
		ScanOutput: in.ScanLog,
	}
}

// ExecutiveSummary renders the one-paragraph overview of a summary
func ExecutiveSummary(s RiskSummary) string {
	text := fmt.Sprintf("Found %d security issues across %d critical, %d high, %d medium, and %d low severity findings.",
		s.Total, s.Critical, s.High, s.Medium, s.Low)
	if s.Critical > 0 {
		return text + " Critical vulnerabilities require immediate attention."
	}
	return text + " No critical issues detected."
}

func topVulnerabilities(findings []Finding) []TopVulnerability {
	top := make([]TopVulnerability, 0, topVulnerabilityCount)
	for _, f := range findings {
		if len(top) == topVulnerabilityCount {
			break
		}
		if f.Severity != SeverityCritical {
			continue
		}
		top = append(top, TopVulnerability{
			Title:                fmt.Sprintf("%s in %s", f.Category, f.File),
			Severity:             f.Severity,
			Impact:               f.Description,
			Priority:             "immediate",
			RequiresNotification: true,
		})
	}
	return top
}

func copyFindings(in []Finding) []Finding {
	out := make([]Finding, len(in))
	for i, f := range in {
		if f.AI != nil {
			ai := *f.AI
			f.AI = &ai
		}
		out[i] = f
	}
	return out
}

func copyExploits(in []Exploit) []Exploit {
	out := make([]Exploit, len(in))
	for i, e := range in {
		e.DemoSteps = append([]string{}, e.DemoSteps...)
		out[i] = e
	}
	return out
}
