package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Adapter translates one tool's native output into findings.
// Parse must not panic on malformed input; it returns an error instead and
// the caller treats the contribution as empty.
type Adapter interface {
	Name() string
	Parse(raw []byte, root string) ([]Finding, error)
}

// Collector produces the raw output an adapter parses
type Collector interface {
	Collect(ctx context.Context, root string) ([]byte, error)
}

// CollectorFunc adapts a plain function to Collector
type CollectorFunc func(ctx context.Context, root string) ([]byte, error)

func (f CollectorFunc) Collect(ctx context.Context, root string) ([]byte, error) {
	return f(ctx, root)
}

// ErrToolUnavailable signals that a collector had nothing to run
var ErrToolUnavailable = errors.New("tool unavailable")

// Tool pairs an adapter with the collector feeding it
type Tool struct {
	Adapter   Adapter
	Collector Collector
}

// ToolStatus values
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
	StatusFailed      = "failed"
	StatusTimeout     = "timeout"
)

// ToolResult records how a single tool contributed to a scan
type ToolResult struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Findings   int    `json:"findings"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// CollectOptions bounds tool invocation
type CollectOptions struct {
	Root        string
	Timeout     time.Duration // per tool; zero means no extra bound
	Concurrency int           // zero means one goroutine per tool
}

// Collect runs every tool concurrently, waits for all of them to settle and
// returns their batches in invocation order together with per-tool results.
// A failing, missing or timed-out tool contributes an empty batch.
func Collect(ctx context.Context, tools []Tool, opts CollectOptions, logger *zap.Logger) ([][]Finding, []ToolResult) {
	if logger == nil {
		logger = zap.NewNop()
	}
	batches := make([][]Finding, len(tools))
	results := make([]ToolResult, len(tools))

	var g errgroup.Group
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, t := range tools {
		i, t := i, t
		g.Go(func() error {
			start := time.Now()
			batches[i], results[i] = runTool(ctx, t, opts, logger)
			results[i].DurationMS = time.Since(start).Milliseconds()
			return nil
		})
	}
	_ = g.Wait()

	return batches, results
}

func runTool(ctx context.Context, t Tool, opts CollectOptions, logger *zap.Logger) ([]Finding, ToolResult) {
	name := t.Adapter.Name()
	log := logger.With(zap.String("tool", name))
	res := ToolResult{Name: name}

	tctx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	raw, err := safeCollect(tctx, t.Collector, opts.Root)
	switch {
	case err == nil:
	case errors.Is(err, ErrToolUnavailable):
		res.Status = StatusUnavailable
		res.Error = err.Error()
		log.Warn("tool not available", zap.Error(err))
		return nil, res
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(tctx.Err(), context.DeadlineExceeded):
		res.Status = StatusTimeout
		res.Error = err.Error()
		log.Warn("tool timed out", zap.Duration("timeout", opts.Timeout))
		return nil, res
	default:
		res.Status = StatusFailed
		res.Error = err.Error()
		log.Warn("tool failed", zap.Error(err))
		return nil, res
	}

	findings, err := safeParse(t.Adapter, raw, opts.Root)
	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		log.Warn("could not parse tool output", zap.Error(err))
		return nil, res
	}
	for i := range findings {
		findings[i].Source = name
	}

	res.Status = StatusOK
	res.Findings = len(findings)
	log.Info("tool finished", zap.Int("findings", len(findings)))
	return findings, res
}

func safeCollect(ctx context.Context, c Collector, root string) (raw []byte, err error) {
	if c == nil {
		return nil, ErrToolUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			raw, err = nil, panicError{r}
		}
	}()
	return c.Collect(ctx, root)
}

func safeParse(a Adapter, raw []byte, root string) (findings []Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			findings, err = nil, panicError{r}
		}
	}()
	return a.Parse(raw, root)
}

type panicError struct{ v any }

func (p panicError) Error() string { return fmt.Sprintf("adapter panic: %v", p.v) }
