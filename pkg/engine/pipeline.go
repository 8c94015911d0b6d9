package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/user/bugbounty-agent/pkg/logging"
	"go.uber.org/zap"
)

// ErrNothingToReport is returned when no tool produced usable output
var ErrNothingToReport = errors.New("no tool produced output")

// Pipeline wires collection, scoring, exploit synthesis and prioritization
// into a single scan. Prioritizer may be nil; Synthesizer defaults to the
// deterministic template mode.
type Pipeline struct {
	Tools       []Tool
	Prioritizer *Prioritizer
	Synthesizer *Synthesizer
	ToolTimeout time.Duration
	Concurrency int
	Logger      *zap.Logger
	Now         func() time.Time
	NewID       func() string
}

// Run scans root and returns the report for target. The only error it
// surfaces is ErrNothingToReport; everything else degrades.
func (p *Pipeline) Run(ctx context.Context, target, root string) (*Report, error) {
	capture := logging.NewCapture(p.Logger)
	log := capture.Logger.Named("pipeline")

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	newID := uuid.NewString
	if p.NewID != nil {
		newID = p.NewID
	}
	started := now()
	scanID := newID()
	log.Info("scan started", zap.String("scan_id", scanID), zap.String("target", target), zap.Int("tools", len(p.Tools)))

	batches, results := Collect(ctx, p.Tools, CollectOptions{
		Root:        root,
		Timeout:     p.ToolTimeout,
		Concurrency: p.Concurrency,
	}, capture.Logger.Named("collect"))
	if !anySucceeded(results) {
		log.Error("every tool failed", zap.Int("tools", len(results)))
		return nil, ErrNothingToReport
	}

	findings := Aggregate(batches)
	summary := Score(findings)
	decision := Decide(summary)
	log.Info("risk scored",
		zap.Int("findings", summary.Total),
		zap.Int("critical", summary.Critical),
		zap.Int("high", summary.High),
		zap.Float64("risk_score", summary.RiskScore),
		zap.String("decision", string(decision.Action)))

	synth := p.Synthesizer
	if synth == nil {
		synth = NewSynthesizer(nil)
	}
	synth = synth.withLogger(capture.Logger.Named("exploit"))
	exploits := synth.Synthesize(ctx, findings)

	ordered := findings
	if p.Prioritizer != nil {
		prio := *p.Prioritizer
		prio.Logger = capture.Logger.Named("prioritize")
		ordered = prio.Prioritize(ctx, findings)
	}

	log.Info("scan complete", zap.Duration("elapsed", now().Sub(started)), zap.Int("exploits", len(exploits)))
	return BuildReport(ReportInput{
		ScanID:    scanID,
		Target:    target,
		Timestamp: started,
		Findings:  ordered,
		Exploits:  exploits,
		Summary:   &summary,
		Decision:  &decision,
		Tools:     results,
		ScanLog:   capture.String(),
	}), nil
}

func anySucceeded(results []ToolResult) bool {
	for _, r := range results {
		if r.Status == StatusOK {
			return true
		}
	}
	return false
}

// withLogger returns a shallow copy logging to l
func (s *Synthesizer) withLogger(l *zap.Logger) *Synthesizer {
	c := *s
	c.Logger = l
	return &c
}
