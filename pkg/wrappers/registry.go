package wrappers

import (
	"fmt"
	"path/filepath"

	"github.com/user/bugbounty-agent/pkg/engine"
)

// ToolNames lists every supported tool in invocation order
var ToolNames = []string{
	"semgrep",
	"bandit",
	"eslint",
	"gitleaks",
	"gosec",
	"pattern-analysis",
	"ai-exploration",
}

// NewAdapter returns the adapter for a tool name
func NewAdapter(name string) (engine.Adapter, error) {
	switch name {
	case "semgrep":
		return SemgrepAdapter{}, nil
	case "bandit":
		return BanditAdapter{}, nil
	case "eslint":
		return ESLintAdapter{}, nil
	case "gitleaks":
		return GitleaksAdapter{}, nil
	case "gosec":
		return GosecAdapter{}, nil
	case "pattern-analysis":
		return PatternAdapter{}, nil
	case "ai-exploration":
		return ExplorationAdapter{}, nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func defaultCollector(name string, explorer *Explorer) engine.Collector {
	switch name {
	case "semgrep":
		return &Command{
			Binary: "semgrep",
			Empty:  `{"results":[]}`,
			Args: func(root, _ string) []string {
				return []string{"--config=auto", "--json", "--quiet", root}
			},
		}
	case "bandit":
		return &Command{
			Binary: "bandit",
			Empty:  `{"results":[]}`,
			Args: func(root, _ string) []string {
				return []string{"-r", root, "-f", "json", "-q"}
			},
		}
	case "eslint":
		return &Command{
			Binary: "eslint",
			Empty:  "[]",
			Args: func(root, _ string) []string {
				return []string{root, "--format", "json"}
			},
		}
	case "gitleaks":
		return gitleaksCommand()
	case "gosec":
		return &Command{
			Binary: "gosec",
			Empty:  `{"Issues":[]}`,
			Args: func(root, _ string) []string {
				return []string{"-fmt=json", "-quiet", "-no-fail", filepath.Join(root, "...")}
			},
		}
	case "pattern-analysis":
		return Sources{}
	case "ai-exploration":
		if explorer == nil {
			return nil
		}
		return explorer
	}
	return nil
}

// Options selects and feeds the tools of a scan
type Options struct {
	// Enabled restricts the run to these tools; empty means all of them
	Enabled []string
	// Captured replays pre-recorded output instead of invoking the tool
	Captured map[string]string
	// Explorer backs ai-exploration; nil leaves it unavailable
	Explorer *Explorer
}

// Tools builds the ordered tool list for a scan
func Tools(opts Options) ([]engine.Tool, error) {
	for name := range opts.Captured {
		if _, err := NewAdapter(name); err != nil {
			return nil, err
		}
	}

	names := ToolNames
	if len(opts.Enabled) > 0 {
		names = opts.Enabled
	}

	tools := make([]engine.Tool, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		adapter, err := NewAdapter(name)
		if err != nil {
			return nil, err
		}
		var collector engine.Collector
		if path, ok := opts.Captured[name]; ok {
			collector = &File{Path: path}
		} else {
			collector = defaultCollector(name, opts.Explorer)
		}
		tools = append(tools, engine.Tool{Adapter: adapter, Collector: collector})
	}
	return tools, nil
}
