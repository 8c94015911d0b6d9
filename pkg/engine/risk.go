package engine

// MaxRiskScore caps the aggregate score
const MaxRiskScore = 10.0

// RiskSummary is the severity histogram of a scan plus its bounded score
type RiskSummary struct {
	Total     int     `json:"total_findings"`
	Critical  int     `json:"critical"`
	High      int     `json:"high"`
	Medium    int     `json:"medium"`
	Low       int     `json:"low"`
	RiskScore float64 `json:"risk_score"`
}

// Score counts findings per severity and derives the risk score:
// min(10, 3*critical + 2*high + medium + 0.5*low).
// Only the counts matter, so any reordering of findings yields the same summary.
func Score(findings []Finding) RiskSummary {
	var s RiskSummary
	for _, f := range findings {
		switch ParseSeverity(string(f.Severity)) {
		case SeverityCritical:
			s.Critical++
		case SeverityHigh:
			s.High++
		case SeverityMedium:
			s.Medium++
		case SeverityLow:
			s.Low++
		}
	}
	s.Total = s.Critical + s.High + s.Medium + s.Low
	s.RiskScore = riskScore(s.Critical, s.High, s.Medium, s.Low)
	return s
}

func riskScore(critical, high, medium, low int) float64 {
	score := 3*float64(critical) + 2*float64(high) + float64(medium) + 0.5*float64(low)
	if score > MaxRiskScore {
		return MaxRiskScore
	}
	return score
}
