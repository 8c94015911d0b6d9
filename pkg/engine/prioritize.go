package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/user/bugbounty-agent/pkg/adk"
	"go.uber.org/zap"
)

// DefaultPrioritizeLimit is how many findings are sent to the model
const DefaultPrioritizeLimit = 20

// Prioritizer asks an AI provider to rank findings. It only reorders and
// annotates; any failure returns the input untouched.
type Prioritizer struct {
	AI      adk.LLMProvider
	Timeout time.Duration
	Limit   int
	Logger  *zap.Logger
}

type ranking struct {
	ID              string `json:"id"`
	PriorityScore   int    `json:"priority_score"`
	Reasoning       string `json:"reasoning"`
	ImmediateAction string `json:"immediate_action"`
	RiskNarrative   string `json:"risk_narrative"`
}

// rankings accepts a bare array or an object wrapping one, since JSON-mode
// models often refuse to emit a top-level array.
type rankings []ranking

func (r *rankings) UnmarshalJSON(data []byte) error {
	var list []ranking
	if err := json.Unmarshal(data, &list); err == nil {
		*r = list
		return nil
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	for _, key := range []string{"findings", "priorities", "results", "rankings"} {
		if raw, ok := wrapped[key]; ok {
			if err := json.Unmarshal(raw, &list); err != nil {
				return err
			}
			*r = list
			return nil
		}
	}
	return fmt.Errorf("no ranking array in response")
}

type promptFinding struct {
	ID          string   `json:"id"`
	File        string   `json:"file"`
	Line        int      `json:"line"`
	Severity    Severity `json:"severity"`
	Category    string   `json:"type"`
	Description string   `json:"description"`
}

// Prioritize returns findings reordered by the model's priority score. The
// result is always a permutation of the input.
func (p *Prioritizer) Prioritize(ctx context.Context, findings []Finding) []Finding {
	out := make([]Finding, len(findings))
	copy(out, findings)
	if p == nil || p.AI == nil || len(findings) == 0 {
		return out
	}
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultPrioritizeLimit
	}
	sent := out
	if len(sent) > limit {
		sent = sent[:limit]
	}

	brief := make([]promptFinding, len(sent))
	for i, f := range sent {
		brief[i] = promptFinding{f.ID, f.File, f.Line, f.Severity, f.Category, f.Description}
	}
	doc, err := json.MarshalIndent(brief, "", "  ")
	if err != nil {
		log.Warn("could not encode findings for prioritization", zap.Error(err))
		return out
	}
	prompt, err := adk.RenderPrompt(adk.PromptPrioritize, struct{ Findings string }{string(doc)})
	if err != nil {
		log.Warn("could not build prioritization prompt", zap.Error(err))
		return out
	}

	var answer rankings
	if err := adk.Ask(ctx, p.AI, p.Timeout, prompt).DecodeJSON(&answer); err != nil {
		log.Warn("AI prioritization unavailable, keeping original order", zap.Error(err))
		return out
	}

	ranked, err := applyRankings(out, sent, answer)
	if err != nil {
		log.Warn("AI prioritization rejected, keeping original order", zap.Error(err))
		return out
	}
	log.Info("findings prioritized", zap.Int("ranked", len(answer)))
	return ranked
}

// applyRankings validates the answer against the findings that were sent and
// builds the permutation: ranked findings by descending score, then the rest
// in their original order.
func applyRankings(all, sent []Finding, answer rankings) ([]Finding, error) {
	if len(answer) == 0 {
		return nil, fmt.Errorf("empty ranking")
	}
	known := make(map[string]bool, len(sent))
	for _, f := range sent {
		known[f.ID] = true
	}
	byID := make(map[string]ranking, len(answer))
	for _, r := range answer {
		if !known[r.ID] {
			return nil, fmt.Errorf("unknown finding id %q", r.ID)
		}
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate finding id %q", r.ID)
		}
		if r.PriorityScore < 1 || r.PriorityScore > 100 {
			return nil, fmt.Errorf("priority score %d out of range for %q", r.PriorityScore, r.ID)
		}
		byID[r.ID] = r
	}

	ranked := make([]Finding, 0, len(byID))
	rest := make([]Finding, 0, len(all)-len(byID))
	for _, f := range all {
		r, ok := byID[f.ID]
		if !ok {
			rest = append(rest, f)
			continue
		}
		f.AI = &AIAnnotation{
			PriorityScore:   r.PriorityScore,
			Reasoning:       r.Reasoning,
			ImmediateAction: r.ImmediateAction,
			RiskNarrative:   r.RiskNarrative,
		}
		ranked = append(ranked, f)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AI.PriorityScore > ranked[j].AI.PriorityScore
	})
	return append(ranked, rest...), nil
}
