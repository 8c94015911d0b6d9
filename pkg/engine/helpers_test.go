package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// fakeAI answers every prompt with reply, optionally after a delay
type fakeAI struct {
	reply func(prompt string) (string, error)
	delay time.Duration
	calls int32
}

func (f *fakeAI) Complete(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.reply(prompt)
}

func (f *fakeAI) ListModels(ctx context.Context) ([]string, error) { return []string{"fake"}, nil }

func (f *fakeAI) Calls() int { return int(atomic.LoadInt32(&f.calls)) }

// stubAdapter ignores its input and returns fixed findings
type stubAdapter struct {
	name     string
	findings []Finding
	err      error
}

func (s stubAdapter) Name() string { return s.name }

func (s stubAdapter) Parse(raw []byte, root string) ([]Finding, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]Finding, len(s.findings))
	copy(out, s.findings)
	return out, nil
}

func staticCollector(raw string) Collector {
	return CollectorFunc(func(ctx context.Context, root string) ([]byte, error) {
		return []byte(raw), nil
	})
}

func finding(sev Severity, category, file string) Finding {
	return Finding{File: file, Line: 1, Severity: sev, Category: category, Description: category + " in " + file}
}

func withIDs(findings []Finding, source string) []Finding {
	out := make([]Finding, len(findings))
	for i, f := range findings {
		f.ID = fmt.Sprintf("%s-%d", source, i+1)
		f.Source = source
		out[i] = f
	}
	return out
}

func countsOf(critical, high, medium, low int) []Finding {
	var out []Finding
	add := func(n int, sev Severity) {
		for i := 0; i < n; i++ {
			out = append(out, finding(sev, "Security Issue", "app.js"))
		}
	}
	add(critical, SeverityCritical)
	add(high, SeverityHigh)
	add(medium, SeverityMedium)
	add(low, SeverityLow)
	return out
}
