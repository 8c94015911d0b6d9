package engine

import (
	"fmt"
	"path"
	"strings"
)

// Sequence hands out finding ids for one scan run.
// A fresh Sequence is created per run; it is never shared between runs.
type Sequence struct {
	n int
}

// Next returns the id for the next finding produced by source
func (s *Sequence) Next(source string) string {
	s.n++
	return fmt.Sprintf("%s-%d", source, s.n)
}

// Aggregate concatenates per-adapter batches in invocation order.
// Order is preserved as first seen and nothing is deduplicated: two tools
// flagging the same line stay two findings. Every returned finding satisfies
// the model invariants and carries a run-scoped "<source>-<n>" id.
func Aggregate(batches [][]Finding) []Finding {
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	out := make([]Finding, 0, total)

	seq := &Sequence{}
	for _, b := range batches {
		for _, f := range b {
			f = sanitize(f)
			f.ID = seq.Next(f.Source)
			out = append(out, f)
		}
	}
	return out
}

// sanitize enforces the Finding invariants permissively
func sanitize(f Finding) Finding {
	f.Severity = ParseSeverity(string(f.Severity))
	if f.Line < 1 {
		f.Line = 1
	}
	f.File = strings.TrimSpace(f.File)
	if f.File == "" {
		f.File = "unknown"
	}
	if f.Source == "" {
		f.Source = "unknown"
	}
	if strings.TrimSpace(f.Category) == "" {
		f.Category = "Security Issue"
	}
	if strings.TrimSpace(f.Remediation) == "" {
		f.Remediation = DefaultRemediation
	}
	// annotations only come from the prioritizer
	f.AI = nil
	return f
}

// RelativePath normalizes a tool-reported path to be relative to root.
// Paths outside root are returned cleaned but otherwise untouched.
func RelativePath(root, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	root = strings.TrimSpace(root)
	if root != "" {
		r := path.Clean(strings.ReplaceAll(root, "\\", "/"))
		if r != "." {
			if p == r {
				return path.Base(p)
			}
			if strings.HasPrefix(p, r+"/") {
				p = strings.TrimPrefix(p, r+"/")
			}
		}
	}
	return strings.TrimPrefix(p, "./")
}
