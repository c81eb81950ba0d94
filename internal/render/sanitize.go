// Package render builds the markdown comment bodies posted to a pull
// request and scrubs local filesystem paths out of them.
package render

import (
	"path/filepath"
	"strings"
)

// Sanitizer rewrites local absolute paths before text is published in a
// PR comment. Cache paths become "[cache]/" and repository paths become
// repo-relative.
type Sanitizer struct {
	cacheAbs string
	repoAbs  string
}

// NewSanitizer builds a Sanitizer for the given repository root and cache
// directory. Both are resolved to absolute paths; resolution failures
// leave the corresponding rewrite disabled.
func NewSanitizer(repoRoot, cacheDir string) *Sanitizer {
	s := &Sanitizer{}
	if abs, err := filepath.Abs(cacheDir); err == nil {
		s.cacheAbs = abs
	}
	if abs, err := filepath.Abs(repoRoot); err == nil {
		s.repoAbs = abs
	}
	return s
}

// Clean scrubs local absolute paths from text. Cache paths are replaced
// first so they do not degrade into bare cache-relative paths.
func (s *Sanitizer) Clean(text string) string {
	if s.cacheAbs != "" {
		text = strings.ReplaceAll(text, s.cacheAbs+"/", "[cache]/")
	}
	if s.repoAbs != "" {
		text = strings.ReplaceAll(text, s.repoAbs+"/", "")
	}
	return text
}
