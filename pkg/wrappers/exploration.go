package wrappers

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/user/bugbounty-agent/pkg/adk"
	"github.com/user/bugbounty-agent/pkg/engine"
)

// ExplorationAdapter parses vulnerabilities reported by an AI reviewer,
// either a bare JSON array or the {"findings": [...]} envelope cline emits.
type ExplorationAdapter struct{}

type exploredVuln struct {
	File              string     `json:"file"`
	LineNumber        lineNumber `json:"line_number"`
	Line              lineNumber `json:"line"`
	VulnerabilityType string     `json:"vulnerability_type"`
	Type              string     `json:"type"`
	Severity          string     `json:"severity"`
	Description       string     `json:"description"`
	Fix               string     `json:"fix"`
}

func (ExplorationAdapter) Name() string { return "ai-exploration" }

func (ExplorationAdapter) Parse(raw []byte, root string) ([]engine.Finding, error) {
	doc := adk.ExtractJSON(string(raw))
	if doc == "" {
		return nil, fmt.Errorf("no JSON in exploration output")
	}

	var vulns []exploredVuln
	if strings.HasPrefix(doc, "{") {
		var envelope struct {
			Findings        []exploredVuln `json:"findings"`
			Vulnerabilities []exploredVuln `json:"vulnerabilities"`
		}
		if err := json.Unmarshal([]byte(doc), &envelope); err != nil {
			return nil, fmt.Errorf("invalid exploration output: %w", err)
		}
		vulns = append(envelope.Findings, envelope.Vulnerabilities...)
	} else if err := json.Unmarshal([]byte(doc), &vulns); err != nil {
		return nil, fmt.Errorf("invalid exploration output: %w", err)
	}

	findings := make([]engine.Finding, 0, len(vulns))
	for _, v := range vulns {
		line := v.LineNumber
		if line == 0 {
			line = v.Line
		}
		kind := v.VulnerabilityType
		if kind == "" {
			kind = v.Type
		}
		findings = append(findings, engine.Finding{
			File:        engine.RelativePath(root, v.File),
			Line:        int(line),
			Severity:    engine.ParseSeverity(v.Severity),
			Category:    engine.NormalizeCategory("", kind),
			Description: v.Description,
			Remediation: v.Fix,
		})
	}
	return findings, nil
}

const (
	defaultExploreFiles  = 10
	exploreSampleChars   = 2000
	explorePromptSamples = 3000
)

// sensitiveHints float likely attack surface to the front of the sample
var sensitiveHints = []string{
	"auth", "login", "password", "session", "token", "user", "admin",
	"db", "query", "sql", "api", "route", "crypto", "upload",
}

// Explorer asks an AI provider to review a sample of the repository
type Explorer struct {
	AI       adk.LLMProvider
	Timeout  time.Duration
	MaxFiles int
}

type explorationPrompt struct {
	Files   []string
	Samples string
}

func (e *Explorer) Collect(ctx context.Context, root string) ([]byte, error) {
	if e.AI == nil {
		return nil, fmt.Errorf("%w: no AI provider configured", engine.ErrToolUnavailable)
	}
	docs, err := CollectSources(ctx, root)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return []byte("[]"), nil
	}

	picked := pickSensitive(docs, e.maxFiles())
	files := make([]string, len(picked))
	samples := make(map[string]string, len(picked))
	for i, d := range picked {
		files[i] = d.Path
		samples[d.Path] = truncate(d.Content, exploreSampleChars)
	}
	sampleJSON, err := json.MarshalIndent(samples, "", "  ")
	if err != nil {
		return nil, err
	}

	prompt, err := adk.RenderPrompt(adk.PromptExploration, explorationPrompt{
		Files:   files,
		Samples: truncate(string(sampleJSON), explorePromptSamples),
	})
	if err != nil {
		return nil, err
	}

	out := adk.Ask(ctx, e.AI, e.Timeout, prompt)
	if !out.Available() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", engine.ErrToolUnavailable, out.Err)
	}
	return []byte(out.Text), nil
}

func (e *Explorer) maxFiles() int {
	if e.MaxFiles > 0 {
		return e.MaxFiles
	}
	return defaultExploreFiles
}

// pickSensitive keeps walk order but moves files with sensitive names first
func pickSensitive(docs []SourceDocument, n int) []SourceDocument {
	ranked := make([]SourceDocument, len(docs))
	copy(ranked, docs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return isSensitive(ranked[i].Path) && !isSensitive(ranked[j].Path)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func isSensitive(p string) bool {
	p = strings.ToLower(p)
	for _, h := range sensitiveHints {
		if strings.Contains(p, h) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// avoid splitting a multi-byte rune
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
