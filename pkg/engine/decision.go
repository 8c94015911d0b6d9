package engine

import "fmt"

// Action is the policy verdict of a scan
type Action string

const (
	ActionBlock   Action = "BLOCK_DEPLOYMENT"
	ActionWarn    Action = "WARN_AND_CONTINUE"
	ActionApprove Action = "APPROVE"
)

// warnHighThreshold is the number of highs a scan tolerates before warning
const warnHighThreshold = 2

// Decision is the verdict plus a human-readable rationale
type Decision struct {
	Action    Action `json:"action"`
	Reasoning string `json:"reasoning"`
}

// Decide maps a summary onto an action. Rules are checked in order and the
// first match wins, so any critical finding blocks regardless of the highs.
func Decide(s RiskSummary) Decision {
	switch {
	case s.Critical > 0:
		return Decision{
			Action:    ActionBlock,
			Reasoning: fmt.Sprintf("Blocking deployment due to %d critical vulnerabilities that could lead to data breach or system compromise.", s.Critical),
		}
	case s.High > warnHighThreshold:
		return Decision{
			Action:    ActionWarn,
			Reasoning: fmt.Sprintf("Warning: %d high-severity issues detected. Review before production deployment.", s.High),
		}
	default:
		return Decision{
			Action:    ActionApprove,
			Reasoning: "No critical security issues detected. Safe to proceed with deployment.",
		}
	}
}

var standingRecommendations = []string{
	"Implement automated security testing in CI/CD pipeline",
	"Schedule regular security audits",
	"Enable real-time security monitoring",
}

// RecommendedActions lists what to do next. Finding-driven items come first;
// the process recommendations are always present.
func RecommendedActions(s RiskSummary) []string {
	actions := make([]string, 0, len(standingRecommendations)+2)
	if s.Critical > 0 {
		actions = append(actions, "IMMEDIATE: Address all critical vulnerabilities before deployment")
	}
	if s.High > 0 {
		actions = append(actions, "Review and fix high-severity issues within 48 hours")
	}
	return append(actions, standingRecommendations...)
}
