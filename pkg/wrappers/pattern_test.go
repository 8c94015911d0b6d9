package wrappers

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/bugbounty-agent/pkg/engine"
)

func TestPatternAdapterRules(t *testing.T) {
	docs := []SourceDocument{
		{Path: "api/search.js", Content: "const ok = 1;\ndb.query(\"SELECT * FROM users WHERE name = '\" + name + \"'\");\n"},
		{Path: "auth.py", Content: "hashed = hashlib.md5(password.encode()).hexdigest()\n"},
		{Path: "server.js", Content: "app.use(cors({ origin: '*' }));\n"},
		{Path: "clean.js", Content: "db.query('SELECT 1', [id]);\n"},
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		t.Fatalf("Failed to marshal docs: %v", err)
	}

	findings, err := PatternAdapter{}.Parse(raw, ".")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(findings) != 3 {
		t.Fatalf("Expected 3 findings, got %d: %+v", len(findings), findings)
	}

	expected := []struct {
		file     string
		line     int
		severity engine.Severity
		category string
	}{
		{"api/search.js", 2, engine.SeverityCritical, "SQL Injection"},
		{"auth.py", 1, engine.SeverityCritical, "Weak Password Hashing"},
		{"server.js", 1, engine.SeverityHigh, "CORS Misconfiguration"},
	}
	for i, e := range expected {
		f := findings[i]
		if f.File != e.file || f.Line != e.line || f.Severity != e.severity || f.Category != e.category {
			t.Errorf("Finding %d: expected %+v, got %+v", i, e, f)
		}
	}
	if findings[1].Remediation != "Use bcrypt with salt rounds >= 12" {
		t.Errorf("Unexpected fix: %q", findings[1].Remediation)
	}
}

func TestCollectSourcesSkipsVendoredDirs(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"index.js":                  "x",
		"src/app.tsx":               "x",
		"lib/tool.py":               "x",
		"README.md":                 "x",
		"node_modules/dep/index.js": "x",
		"dist/bundle.js":            "x",
		".git/hooks/pre-commit.py":  "x",
	}
	for name, content := range files {
		p := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := CollectSources(context.Background(), root)
	if err != nil {
		t.Fatalf("CollectSources failed: %v", err)
	}
	got := map[string]bool{}
	for _, d := range docs {
		got[d.Path] = true
	}
	if len(got) != 3 || !got["index.js"] || !got["src/app.tsx"] || !got["lib/tool.py"] {
		t.Errorf("Unexpected documents: %v", got)
	}
}

func TestSourcesMissingRoot(t *testing.T) {
	_, err := Sources{}.Collect(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("Expected error for missing scan root")
	}
}
