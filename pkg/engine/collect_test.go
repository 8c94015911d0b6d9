package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCollectKeepsInvocationOrder(t *testing.T) {
	slow := CollectorFunc(func(ctx context.Context, root string) ([]byte, error) {
		time.Sleep(50 * time.Millisecond)
		return []byte("x"), nil
	})
	tools := []Tool{
		{Adapter: stubAdapter{name: "slow", findings: []Finding{finding(SeverityHigh, "XSS", "a.js")}}, Collector: slow},
		{Adapter: stubAdapter{name: "fast", findings: []Finding{finding(SeverityLow, "Info", "b.js")}}, Collector: staticCollector("x")},
	}

	batches, results := Collect(context.Background(), tools, CollectOptions{Root: "."}, nil)
	if len(batches) != 2 || len(batches[0]) != 1 || len(batches[1]) != 1 {
		t.Fatalf("Unexpected batches: %+v", batches)
	}
	if batches[0][0].Source != "slow" || batches[1][0].Source != "fast" {
		t.Errorf("Batches out of invocation order: %s, %s", batches[0][0].Source, batches[1][0].Source)
	}
	for _, r := range results {
		if r.Status != StatusOK || r.Findings != 1 {
			t.Errorf("Unexpected result: %+v", r)
		}
	}
}

func TestCollectIsolatesFailures(t *testing.T) {
	blocking := CollectorFunc(func(ctx context.Context, root string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	panicking := CollectorFunc(func(ctx context.Context, root string) ([]byte, error) {
		panic("boom")
	})
	missing := CollectorFunc(func(ctx context.Context, root string) ([]byte, error) {
		return nil, ErrToolUnavailable
	})
	one := []Finding{finding(SeverityHigh, "XSS", "a.js")}

	tools := []Tool{
		{Adapter: stubAdapter{name: "hangs", findings: one}, Collector: blocking},
		{Adapter: stubAdapter{name: "panics", findings: one}, Collector: panicking},
		{Adapter: stubAdapter{name: "missing", findings: one}, Collector: missing},
		{Adapter: stubAdapter{name: "nocollector", findings: one}},
		{Adapter: stubAdapter{name: "garbled", err: errors.New("unexpected token")}, Collector: staticCollector("{")},
		{Adapter: stubAdapter{name: "ok", findings: one}, Collector: staticCollector("[]")},
	}

	batches, results := Collect(context.Background(), tools, CollectOptions{Timeout: 30 * time.Millisecond, Concurrency: 2}, nil)

	want := []string{StatusTimeout, StatusFailed, StatusUnavailable, StatusUnavailable, StatusFailed, StatusOK}
	for i, r := range results {
		if r.Status != want[i] {
			t.Errorf("%s: expected status %s, got %s (%s)", r.Name, want[i], r.Status, r.Error)
		}
		if r.Status != StatusOK && len(batches[i]) != 0 {
			t.Errorf("%s: failed tool contributed findings", r.Name)
		}
	}
	if len(batches[5]) != 1 {
		t.Errorf("Expected the healthy tool to contribute, got %d findings", len(batches[5]))
	}
}

type panickingAdapter struct{}

func (panickingAdapter) Name() string { return "fragile" }
func (panickingAdapter) Parse(raw []byte, root string) ([]Finding, error) {
	var m map[string]int
	m["x"]++
	return nil, nil
}

func TestCollectRecoversAdapterPanic(t *testing.T) {
	_, results := Collect(context.Background(), []Tool{{Adapter: panickingAdapter{}, Collector: staticCollector("x")}}, CollectOptions{}, nil)
	if results[0].Status != StatusFailed {
		t.Errorf("Expected failed status, got %+v", results[0])
	}
}
