package adk

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type scripted struct {
	text  string
	err   error
	block bool
}

func (s scripted) Complete(ctx context.Context, prompt string) (string, error) {
	if s.block {
		// ignores cancellation on purpose
		time.Sleep(time.Second)
	}
	return s.text, s.err
}

func (s scripted) ListModels(ctx context.Context) ([]string, error) { return nil, nil }

func TestAskUnavailableOutcomes(t *testing.T) {
	tests := map[string]LLMProvider{
		"nil provider": nil,
		"error":        scripted{err: errors.New("connection refused")},
		"empty":        scripted{text: "  \n"},
		"stuck":        scripted{text: "[]", block: true},
	}
	for name, p := range tests {
		t.Run(name, func(t *testing.T) {
			start := time.Now()
			out := Ask(context.Background(), p, 30*time.Millisecond, "prompt")
			if out.Available() {
				t.Fatalf("Expected unavailable outcome, got %q", out.Text)
			}
			if !errors.Is(out.Err, ErrUnavailable) {
				t.Errorf("Expected ErrUnavailable, got %v", out.Err)
			}
			if time.Since(start) > 500*time.Millisecond {
				t.Errorf("Ask exceeded its timeout")
			}
		})
	}
}

func TestAskDecodeJSON(t *testing.T) {
	out := Ask(context.Background(), scripted{text: "<think>let me see</think>\n```json\n{\"ok\": true}\n```"}, 0, "p")
	if !out.Available() {
		t.Fatalf("Expected available outcome: %v", out.Err)
	}
	var v struct{ OK bool }
	if err := out.DecodeJSON(&v); err != nil || !v.OK {
		t.Errorf("DecodeJSON failed: %v %+v", err, v)
	}

	bad := Outcome{Text: "no json here"}
	if err := bad.DecodeJSON(&v); err == nil {
		t.Error("Expected error for text without JSON")
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`[{"a":1}]`, `[{"a":1}]`},
		{"Here:\n```json\n[1,2]\n```\nDone", "[1,2]"},
		{`<think>{"draft":1}</think>{"final":2}`, `{"final":2}`},
		{"nothing", ""},
		{"[unclosed", ""},
	}
	for _, tt := range tests {
		if got := ExtractJSON(tt.in); got != tt.want {
			t.Errorf("ExtractJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProbe(t *testing.T) {
	if Probe(context.Background(), nil) {
		t.Error("nil provider must not probe as available")
	}
	if !Probe(context.Background(), scripted{}) {
		t.Error("Providers without a probe are assumed reachable")
	}
}

func TestRenderPrompt(t *testing.T) {
	out, err := RenderPrompt(PromptExploration, struct {
		Files   []string
		Samples string
	}{[]string{"a.js", "b.py"}, "{}"})
	if err != nil {
		t.Fatalf("RenderPrompt failed: %v", err)
	}
	if want := "Files examined: a.js, b.py"; !strings.Contains(out, want) {
		t.Errorf("Expected %q in prompt:\n%s", want, out)
	}
	if _, err := RenderPrompt("missing.tmpl", nil); err == nil {
		t.Error("Expected error for unknown prompt")
	}
}

