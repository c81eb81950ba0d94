// Package git wraps the git CLI for the repository queries the review
// loop needs: root discovery, remote host detection, and branch-diff
// stats.
package git

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"regexp"
	"strings"
)

// Root returns the top-level directory of the current git repository.
func Root(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsWorkTree reports whether the current directory is inside a git work
// tree.
func IsWorkTree(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when
// detached.
func CurrentBranch(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to resolve current branch: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

var scpLikeRe = regexp.MustCompile(`^git@([^:]+):`)

// RemoteHost returns the hostname of the origin remote, or "" when no
// remote is configured or the URL shape is unrecognized. Used to pick
// the hostname for gh auth checks against GitHub Enterprise remotes.
func RemoteHost(ctx context.Context) string {
	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	out, err := cmd.Output()
	if err != nil {
		cmd = exec.CommandContext(ctx, "git", "config", "--get", "remote.origin.url")
		out, err = cmd.Output()
		if err != nil {
			return ""
		}
	}
	return ParseRemoteHost(strings.TrimSpace(string(out)))
}

// ParseRemoteHost extracts the hostname from a git remote URL. Handles
// SCP-like syntax (git@host:owner/repo.git), ssh://, and http(s)://
// forms; anything else yields "".
func ParseRemoteHost(remoteURL string) string {
	remoteURL = strings.TrimSpace(remoteURL)
	if remoteURL == "" {
		return ""
	}
	if strings.HasPrefix(remoteURL, "git@") {
		if m := scpLikeRe.FindStringSubmatch(remoteURL); m != nil {
			return m[1]
		}
		return ""
	}
	if strings.HasPrefix(remoteURL, "ssh://") || strings.HasPrefix(remoteURL, "https://") || strings.HasPrefix(remoteURL, "http://") {
		u, err := url.Parse(remoteURL)
		if err != nil {
			return ""
		}
		return u.Hostname()
	}
	return ""
}

// FetchOrigin fetches a ref from origin.
func FetchOrigin(ctx context.Context, ref string) error {
	cmd := exec.CommandContext(ctx, "git", "fetch", "origin", ref)
	if out, err := cmd.CombinedOutput(); err != nil {
		output := strings.TrimSpace(string(out))
		if output != "" {
			return fmt.Errorf("failed to fetch '%s' from origin: %s", ref, output)
		}
		return fmt.Errorf("failed to fetch '%s' from origin: %w", ref, err)
	}
	return nil
}
