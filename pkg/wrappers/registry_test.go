package wrappers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/bugbounty-agent/pkg/engine"
)

func TestToolsOrderAndCapturedOutput(t *testing.T) {
	dir := t.TempDir()
	captured := filepath.Join(dir, "semgrep.json")
	if err := os.WriteFile(captured, []byte(`{"results":[]}`), 0644); err != nil {
		t.Fatal(err)
	}

	tools, err := Tools(Options{Captured: map[string]string{"semgrep": captured}})
	if err != nil {
		t.Fatalf("Tools failed: %v", err)
	}
	if len(tools) != len(ToolNames) {
		t.Fatalf("Expected %d tools, got %d", len(ToolNames), len(tools))
	}
	for i, tool := range tools {
		if tool.Adapter.Name() != ToolNames[i] {
			t.Errorf("Tool %d: expected %s, got %s", i, ToolNames[i], tool.Adapter.Name())
		}
	}
	if _, ok := tools[0].Collector.(*File); !ok {
		t.Errorf("Expected captured semgrep output to use a file collector, got %T", tools[0].Collector)
	}
	if tools[len(tools)-1].Collector != nil {
		t.Error("Expected ai-exploration without explorer to have no collector")
	}
}

func TestToolsRejectsUnknownNames(t *testing.T) {
	if _, err := Tools(Options{Enabled: []string{"nmap"}}); err == nil {
		t.Error("Expected error for unknown enabled tool")
	}
	if _, err := Tools(Options{Captured: map[string]string{"nikto": "x"}}); err == nil {
		t.Error("Expected error for unknown captured tool")
	}
}

func TestCommandMissingBinary(t *testing.T) {
	c := &Command{Binary: "definitely-not-an-installed-analyzer", Args: func(string, string) []string { return nil }}
	_, err := c.Collect(context.Background(), ".")
	if !errors.Is(err, ErrToolMissing) || !errors.Is(err, engine.ErrToolUnavailable) {
		t.Errorf("Expected ErrToolMissing, got %v", err)
	}
}

func TestFileCollectorMissing(t *testing.T) {
	_, err := (&File{Path: filepath.Join(t.TempDir(), "nope.json")}).Collect(context.Background(), ".")
	if !errors.Is(err, engine.ErrToolUnavailable) {
		t.Errorf("Expected ErrToolUnavailable, got %v", err)
	}
}
