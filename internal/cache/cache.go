// Package cache manages the on-disk artifact directory shared by the
// review-loop agents. All paths flow through an explicit Paths value so
// components can be tested with injected directories.
package cache

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DirName is the cache directory name under the repository root.
const DirName = ".cache"

// Paths holds the resolved repository root and cache directory.
type Paths struct {
	RepoRoot string
	Dir      string
}

// Detect resolves Paths from the current git repository, falling back to
// the working directory when not inside a repo.
func Detect() Paths {
	root := ""
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	if out, err := cmd.Output(); err == nil {
		root = strings.TrimSpace(string(out))
	}
	if root == "" {
		if wd, err := os.Getwd(); err == nil {
			root = wd
		} else {
			root = "."
		}
	}
	return New(root)
}

// New builds Paths rooted at the given repository directory.
func New(repoRoot string) Paths {
	abs, err := filepath.Abs(repoRoot)
	if err != nil {
		abs = repoRoot
	}
	return Paths{
		RepoRoot: abs,
		Dir:      filepath.Join(abs, DirName),
	}
}

// Resolve maps a caller-supplied cache reference to an absolute path.
// Accepted forms:
//   - repo-relative paths like ./.cache/foo.md
//   - absolute paths, only when under the cache directory
//   - bare basenames (backward compat), resolved inside the cache directory
//
// Returns "" for anything else (traversal, absolute paths outside the
// cache, empty input).
func (p Paths) Resolve(ref string) string {
	s := strings.TrimSpace(ref)
	if s == "" {
		return ""
	}

	looksLikePath := strings.ContainsAny(s, `/\`) || strings.HasPrefix(s, ".")
	if looksLikePath {
		if filepath.IsAbs(s) {
			abs := filepath.Clean(s)
			if !p.underCacheDir(abs) {
				return ""
			}
			return abs
		}
		if !isSafeRelPath(s) {
			return ""
		}
		return filepath.Join(p.RepoRoot, filepath.FromSlash(s))
	}

	base := safeBasename(s)
	if base == "" {
		return ""
	}
	return filepath.Join(p.Dir, base)
}

// underCacheDir reports whether abs is inside the cache directory.
func (p Paths) underCacheDir(abs string) bool {
	rel, err := filepath.Rel(p.Dir, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// isSafeRelPath rejects relative paths that escape the repo root.
func isSafeRelPath(s string) bool {
	for _, part := range strings.Split(filepath.ToSlash(s), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

// safeBasename returns name if it is a plain basename, otherwise "".
func safeBasename(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	base := filepath.Base(s)
	if base != s || base == "." || base == ".." {
		return ""
	}
	return base
}

// ReadText reads a cache artifact identified by ref.
func (p Paths) ReadText(ref string) (string, error) {
	abs := p.Resolve(ref)
	if abs == "" {
		return "", fmt.Errorf("invalid cache ref %q", ref)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteText writes a cache artifact identified by ref, creating the cache
// directory as needed. Content is written with LF newlines as given.
func (p Paths) WriteText(ref, content string) error {
	abs := p.Resolve(ref)
	if abs == "" {
		return fmt.Errorf("invalid cache ref %q", ref)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// Exists reports whether a cache artifact identified by ref exists.
func (p Paths) Exists(ref string) bool {
	abs := p.Resolve(ref)
	if abs == "" {
		return false
	}
	_, err := os.Stat(abs)
	return err == nil
}

// RelPath converts an absolute path under the repo root to the ./-prefixed
// repo-relative form used in handoff objects. Falls back to the basename
// for paths outside the repo.
func (p Paths) RelPath(abs string) string {
	rel, err := filepath.Rel(p.RepoRoot, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(abs)
	}
	return "./" + filepath.ToSlash(rel)
}

// File returns the absolute path of a basename inside the cache directory.
func (p Paths) File(basename string) string {
	return filepath.Join(p.Dir, basename)
}
