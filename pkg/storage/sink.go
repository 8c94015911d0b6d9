package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/bugbounty-agent/pkg/engine"
)

// Sink persists a finished report and returns where it went
type Sink interface {
	Store(ctx context.Context, r *engine.Report) (string, error)
}

// Encode renders a report the way every sink stores it
func Encode(r *engine.Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return append(data, '\n'), nil
}

// FileSink writes the report as indented JSON to Path
type FileSink struct {
	Path string
}

func (s *FileSink) Store(_ context.Context, r *engine.Report) (string, error) {
	data, err := Encode(r)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return s.Path, nil
}

// Multi stores into every sink in order and stops at the first failure
type Multi []Sink

func (m Multi) Store(ctx context.Context, r *engine.Report) (string, error) {
	var last string
	for _, s := range m {
		loc, err := s.Store(ctx, r)
		if err != nil {
			return last, err
		}
		last = loc
	}
	return last, nil
}
