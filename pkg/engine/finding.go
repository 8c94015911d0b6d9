package engine

import "strings"

// Severity is the normalized severity of a finding
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// DefaultRemediation is used when a tool supplies no fix text
const DefaultRemediation = "Review and fix based on security best practices"

// ParseSeverity lower-cases s and maps it onto the fixed enum.
// Anything unrecognized becomes medium so a single odd value cannot abort ingestion.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityCritical:
		return SeverityCritical
	case SeverityHigh:
		return SeverityHigh
	case SeverityMedium:
		return SeverityMedium
	case SeverityLow:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// Rank orders severities, higher is more severe
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// AIAnnotation is the enhancement attached by the prioritizer
type AIAnnotation struct {
	PriorityScore   int    `json:"priority_score"`
	Reasoning       string `json:"reasoning"`
	ImmediateAction string `json:"immediate_action,omitempty"`
	RiskNarrative   string `json:"risk_narrative,omitempty"`
}

// Finding represents a normalized security finding from any tool
type Finding struct {
	ID          string        `json:"id"`
	File        string        `json:"file"`
	Line        int           `json:"line"`
	Severity    Severity      `json:"severity"`
	Category    string        `json:"type"`
	Description string        `json:"description"`
	Source      string        `json:"tool"`
	Remediation string        `json:"fix"`
	AI          *AIAnnotation `json:"ai_analysis,omitempty"`
}

// Exploit is a proof-of-concept synthesized for one finding
type Exploit struct {
	ID             string   `json:"id"`
	FindingID      string   `json:"finding_id"`
	Title          string   `json:"title"`
	Severity       Severity `json:"severity"`
	ExploitCode    string   `json:"exploit_code"`
	ExpectedResult string   `json:"expected_result"`
	DemoSteps      []string `json:"demo_steps"`
	Origin         string   `json:"origin"`
}

// Exploit origins
const (
	OriginTemplate = "template"
	OriginAI       = "ai"
)
