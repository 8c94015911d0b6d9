package engine

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func prioritizeInput() []Finding {
	return withIDs([]Finding{
		finding(SeverityHigh, "Cross-Site Scripting", "view.js"),
		finding(SeverityMedium, "Information Disclosure", "log.js"),
		finding(SeverityCritical, "SQL Injection", "db.js"),
	}, "semgrep")
}

func TestPrioritizeReorders(t *testing.T) {
	ai := &fakeAI{reply: func(prompt string) (string, error) {
		if !strings.Contains(prompt, "semgrep-3") {
			t.Errorf("Prompt does not list the findings: %s", prompt)
		}
		return `[{"id":"semgrep-3","priority_score":95,"reasoning":"direct data access","immediate_action":"parameterize"},
		         {"id":"semgrep-1","priority_score":60,"reasoning":"stored xss"}]`, nil
	}}
	in := prioritizeInput()

	out := (&Prioritizer{AI: ai}).Prioritize(context.Background(), in)

	var ids []string
	for _, f := range out {
		ids = append(ids, f.ID)
	}
	if !reflect.DeepEqual(ids, []string{"semgrep-3", "semgrep-1", "semgrep-2"}) {
		t.Fatalf("Unexpected order: %v", ids)
	}
	if out[0].AI == nil || out[0].AI.PriorityScore != 95 || out[0].AI.ImmediateAction != "parameterize" {
		t.Errorf("Missing annotation: %+v", out[0].AI)
	}
	if out[2].AI != nil {
		t.Errorf("Unranked finding was annotated: %+v", out[2].AI)
	}
	if in[0].AI != nil || in[0].ID != "semgrep-1" {
		t.Error("Prioritize must not modify its input")
	}
}

func TestPrioritizeAcceptsWrappedArray(t *testing.T) {
	ai := &fakeAI{reply: func(string) (string, error) {
		return `{"findings":[{"id":"semgrep-2","priority_score":70,"reasoning":"r"}]}`, nil
	}}
	out := (&Prioritizer{AI: ai}).Prioritize(context.Background(), prioritizeInput())
	if out[0].ID != "semgrep-2" {
		t.Errorf("Expected semgrep-2 first, got %s", out[0].ID)
	}
}

func TestPrioritizeRejectsInvalidAnswers(t *testing.T) {
	answers := map[string]string{
		"unknown id": `[{"id":"semgrep-9","priority_score":50}]`,
		"duplicate":  `[{"id":"semgrep-1","priority_score":50},{"id":"semgrep-1","priority_score":40}]`,
		"score zero": `[{"id":"semgrep-1","priority_score":0}]`,
		"score 101":  `[{"id":"semgrep-1","priority_score":101}]`,
		"empty":      `[]`,
		"prose":      `Sure! The SQL injection is the worst.`,
	}
	for name, answer := range answers {
		t.Run(name, func(t *testing.T) {
			answer := answer
			ai := &fakeAI{reply: func(string) (string, error) { return answer, nil }}
			in := prioritizeInput()
			if out := (&Prioritizer{AI: ai}).Prioritize(context.Background(), in); !reflect.DeepEqual(out, in) {
				t.Errorf("Expected input unchanged, got %+v", out)
			}
		})
	}
}

func TestPrioritizeUnavailableIsIdentity(t *testing.T) {
	in := prioritizeInput()
	providers := map[string]*Prioritizer{
		"disabled": {},
		"error":    {AI: &fakeAI{reply: func(string) (string, error) { return "", errors.New("connection refused") }}},
		"timeout":  {AI: &fakeAI{delay: time.Second, reply: func(string) (string, error) { return "[]", nil }}, Timeout: 20 * time.Millisecond},
	}
	for name, p := range providers {
		if out := p.Prioritize(context.Background(), in); !reflect.DeepEqual(out, in) {
			t.Errorf("%s: expected input unchanged", name)
		}
	}
}

func TestPrioritizeLimit(t *testing.T) {
	var findings []Finding
	for i := 0; i < 25; i++ {
		findings = append(findings, finding(SeverityLow, "Info", "a.js"))
	}
	findings = withIDs(findings, "eslint")

	ai := &fakeAI{reply: func(prompt string) (string, error) {
		if strings.Contains(prompt, "eslint-21") {
			t.Error("Prompt exceeded the finding limit")
		}
		return `[{"id":"eslint-25","priority_score":99}]`, nil
	}}
	out := (&Prioritizer{AI: ai}).Prioritize(context.Background(), findings)
	if !reflect.DeepEqual(out, findings) {
		t.Error("Ranking a finding that was never sent must be rejected")
	}
}
