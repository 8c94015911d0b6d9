package wrappers

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SourceDocument is one source file handed to the pattern and AI analyzers
type SourceDocument struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

var sourceExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true, ".py": true,
}

var skippedDirs = map[string]bool{
	"node_modules": true, ".git": true, "vendor": true, "dist": true, "build": true,
}

// maxSourceSize skips minified bundles and generated blobs
const maxSourceSize = 1 << 20

// CollectSources walks root and reads every analyzable source file. Paths in
// the result are slash-separated and relative to root.
func CollectSources(ctx context.Context, root string) ([]SourceDocument, error) {
	var docs []SourceDocument
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			// unreadable entries are skipped, not fatal
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if p != root && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !sourceExtensions[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() > maxSourceSize {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		docs = append(docs, SourceDocument{Path: filepath.ToSlash(rel), Content: string(data)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Sources is the collector behind pattern analysis; it needs no external tool
type Sources struct{}

func (Sources) Collect(ctx context.Context, root string) ([]byte, error) {
	docs, err := CollectSources(ctx, root)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []SourceDocument{}
	}
	return json.Marshal(docs)
}
