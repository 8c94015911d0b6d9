package wrappers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/user/bugbounty-agent/pkg/engine"
)

// ErrToolMissing is returned when an analyzer binary is not on PATH
var ErrToolMissing = fmt.Errorf("%w: binary not found", engine.ErrToolUnavailable)

// Command runs an external analyzer and returns its JSON report. Most
// analyzers exit 1 when they find something, so that code is accepted.
type Command struct {
	Binary string
	// Args builds the argument list; reportPath is empty unless ReportFile is set
	Args func(root, reportPath string) []string
	// ReportFile makes the tool write its report to a temp file instead of stdout
	ReportFile bool
	// Empty is returned when the tool succeeds but writes nothing
	Empty string
}

func (c *Command) Collect(ctx context.Context, root string) ([]byte, error) {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrToolMissing, c.Binary)
	}

	var reportPath string
	if c.ReportFile {
		f, err := os.CreateTemp("", c.Binary+"-report-*.json")
		if err != nil {
			return nil, fmt.Errorf("failed to create report file: %w", err)
		}
		reportPath = f.Name()
		f.Close()
		defer os.Remove(reportPath)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Binary, c.Args(root, reportPath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
			return nil, fmt.Errorf("%s failed: %w: %s", c.Binary, err, strings.TrimSpace(stderr.String()))
		}
	}

	out := stdout.Bytes()
	if c.ReportFile {
		data, err := os.ReadFile(reportPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s report: %w", c.Binary, err)
		}
		out = data
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return []byte(c.Empty), nil
	}
	return out, nil
}

// File replays output captured earlier, e.g. by a CI job
type File struct {
	Path string
}

func (f *File) Collect(_ context.Context, _ string) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", engine.ErrToolUnavailable, f.Path)
		}
		return nil, err
	}
	return data, nil
}
