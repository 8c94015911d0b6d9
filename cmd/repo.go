package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
)

const cloneTimeout = 30 * time.Second

func isRemote(target string) bool {
	return strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "git@") ||
		strings.HasSuffix(target, ".git")
}

// acquireRepo resolves target to a local directory. Remote repositories are
// shallow-cloned into a temp dir that cleanup removes.
func acquireRepo(ctx context.Context, target string) (root string, cleanup func(), err error) {
	if !isRemote(target) {
		info, err := os.Stat(target)
		if err != nil {
			return "", nil, err
		}
		if !info.IsDir() {
			return "", nil, fmt.Errorf("%s is not a directory", target)
		}
		return target, func() {}, nil
	}

	dir, err := os.MkdirTemp("", "bugbounty-scan-*")
	if err != nil {
		return "", nil, err
	}
	cleanup = func() { os.RemoveAll(dir) }

	cctx, cancel := context.WithTimeout(ctx, cloneTimeout)
	defer cancel()
	_, err = git.PlainCloneContext(cctx, dir, false, &git.CloneOptions{
		URL:          target,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	})
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("clone %s: %w", target, err)
	}
	return dir, cleanup, nil
}

// parseToolOutputs turns name=path pairs into a map
func parseToolOutputs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, path, ok := strings.Cut(p, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid --tool-output %q, want name=path", p)
		}
		out[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(path)
	}
	return out, nil
}
