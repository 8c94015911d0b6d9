package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/user/bugbounty-agent/pkg/adk"
	"go.uber.org/zap"
)

// MaxExploits caps both the exploits in a report and the AI attempts per scan
const MaxExploits = 3

// Synthesizer turns the most severe findings into proof-of-concept exploits.
// With no AI provider it only renders templates for critical findings, which
// keeps its output a pure function of the findings.
type Synthesizer struct {
	Templates *TemplateSet
	AI        adk.LLMProvider
	Timeout   time.Duration // per AI call
	Logger    *zap.Logger
}

// NewSynthesizer returns a deterministic synthesizer over the embedded templates
func NewSynthesizer(logger *zap.Logger) *Synthesizer {
	return &Synthesizer{Templates: DefaultTemplates(), Logger: logger}
}

type aiExploit struct {
	ExploitCode    string   `json:"exploit_code"`
	ExpectedResult string   `json:"expected_result"`
	DemoSteps      []string `json:"demo_steps"`
}

// Synthesize walks findings in order and returns at most MaxExploits exploits
func (s *Synthesizer) Synthesize(ctx context.Context, findings []Finding) []Exploit {
	log := s.logger()
	templates := s.Templates
	if templates == nil {
		templates = DefaultTemplates()
	}

	exploits := make([]Exploit, 0, MaxExploits)
	aiLive := s.AI != nil
	aiAttempts := 0
	for _, f := range findings {
		if len(exploits) >= MaxExploits {
			break
		}
		if !s.eligible(f) {
			continue
		}

		if t, ok := templates.ForCategory(f.Category); ok {
			e, err := t.Render(f)
			if err != nil {
				log.Warn("exploit template failed", zap.String("finding", f.ID), zap.Error(err))
				continue
			}
			e.ID = fmt.Sprintf("exp-%d", len(exploits)+1)
			exploits = append(exploits, e)
			continue
		}

		if !aiLive || aiAttempts >= MaxExploits {
			continue
		}
		if ctx.Err() != nil {
			log.Warn("scan cancelled, skipping AI exploit generation")
			aiLive = false
			continue
		}
		aiAttempts++
		e, ok := s.generate(ctx, f)
		if !ok {
			continue
		}
		e.ID = fmt.Sprintf("exp-%d", len(exploits)+1)
		exploits = append(exploits, e)
	}

	log.Info("exploits synthesized", zap.Int("count", len(exploits)), zap.Int("ai_attempts", aiAttempts))
	return exploits
}

func (s *Synthesizer) eligible(f Finding) bool {
	if f.Severity == SeverityCritical {
		return true
	}
	return s.AI != nil && f.Severity == SeverityHigh
}

func (s *Synthesizer) generate(ctx context.Context, f Finding) (Exploit, bool) {
	log := s.logger().With(zap.String("finding", f.ID))

	prompt, err := adk.RenderPrompt(adk.PromptExploit, f)
	if err != nil {
		log.Warn("could not build exploit prompt", zap.Error(err))
		return Exploit{}, false
	}

	var answer aiExploit
	if err := adk.Ask(ctx, s.AI, s.Timeout, prompt).DecodeJSON(&answer); err != nil {
		log.Warn("AI exploit generation failed", zap.Error(err))
		return Exploit{}, false
	}
	if strings.TrimSpace(answer.ExploitCode) == "" || len(answer.DemoSteps) == 0 {
		log.Warn("AI exploit answer incomplete")
		return Exploit{}, false
	}

	return Exploit{
		FindingID:      f.ID,
		Title:          fmt.Sprintf("%s in %s", f.Category, f.File),
		Severity:       f.Severity,
		ExploitCode:    answer.ExploitCode,
		ExpectedResult: answer.ExpectedResult,
		DemoSteps:      append([]string(nil), answer.DemoSteps...),
		Origin:         OriginAI,
	}, true
}

func (s *Synthesizer) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
