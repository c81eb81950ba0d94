package git

import (
	"context"
	"os/exec"
	"strings"
)

// NumstatRow is one file's diff stats. Added and Deleted are kept as
// strings because git emits "-" for binary files.
type NumstatRow struct {
	Added   string
	Deleted string
	Path    string
}

// Numstat returns the per-file diff stats between the base branch and
// HEAD. Prefers origin/<base>...HEAD, falling back to <base>...HEAD for
// repositories without the remote-tracking ref. Returns "" when neither
// range resolves.
func Numstat(ctx context.Context, baseRef string) string {
	for _, lhs := range []string{"origin/" + baseRef + "...HEAD", baseRef + "...HEAD"} {
		cmd := exec.CommandContext(ctx, "git", "diff", "--numstat", lhs)
		out, err := cmd.Output()
		if err == nil {
			return string(out)
		}
	}
	return ""
}

// ParseNumstat parses `git diff --numstat` output. Lines with fewer
// than three tab-separated fields or an empty path are skipped.
func ParseNumstat(text string) []NumstatRow {
	var rows []NumstatRow
	for _, line := range strings.Split(text, "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			continue
		}
		path := strings.TrimSpace(parts[2])
		if path == "" {
			continue
		}
		rows = append(rows, NumstatRow{
			Added:   strings.TrimSpace(parts[0]),
			Deleted: strings.TrimSpace(parts[1]),
			Path:    path,
		})
	}
	return rows
}
