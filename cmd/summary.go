package cmd

import (
	"fmt"
	"io"

	"github.com/user/bugbounty-agent/pkg/engine"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiGreen  = "\033[32m"
)

type painter bool

func (p painter) paint(code, s string) string {
	if !p {
		return s
	}
	return code + s + ansiReset
}

func actionColor(a engine.Action) string {
	switch a {
	case engine.ActionBlock:
		return ansiRed
	case engine.ActionWarn:
		return ansiYellow
	default:
		return ansiGreen
	}
}

func printSummary(w io.Writer, r *engine.Report, location string, color bool) {
	p := painter(color)
	s := r.Summary

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Scan %s of %s\n", r.ScanID, r.Target)
	fmt.Fprintln(w, "Tools:")
	for _, t := range r.Tools {
		line := fmt.Sprintf("  %-18s %-12s %d findings", t.Name, t.Status, t.Findings)
		if t.Status != engine.StatusOK {
			line = p.paint(ansiYellow, line)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Total findings: %d\n", s.Total)
	fmt.Fprintf(w, "  Critical: %s\n", p.paint(ansiRed, fmt.Sprint(s.Critical)))
	fmt.Fprintf(w, "  High:     %d\n", s.High)
	fmt.Fprintf(w, "  Medium:   %d\n", s.Medium)
	fmt.Fprintf(w, "  Low:      %d\n", s.Low)
	fmt.Fprintf(w, "  Risk Score: %.1f/10\n", s.RiskScore)
	fmt.Fprintf(w, "  Exploits generated: %d\n", len(r.Exploits))

	d := r.Analysis.Decision
	fmt.Fprintf(w, "\nDECISION: %s\n", p.paint(ansiBold+actionColor(d.Action), string(d.Action)))
	fmt.Fprintf(w, "  %s\n", d.Reasoning)
	if len(r.Analysis.RecommendedActions) > 0 {
		fmt.Fprintln(w, "\nRecommended actions:")
		for _, a := range r.Analysis.RecommendedActions {
			fmt.Fprintf(w, "  - %s\n", a)
		}
	}
	if location != "" {
		fmt.Fprintf(w, "\nReport saved to %s\n", location)
	}
}
