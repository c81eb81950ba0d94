// Package contextfile renders the per-round PR context markdown handed
// to the review agents.
package contextfile

import (
	"fmt"
	"strings"

	"github.com/richhaase/pr-review-loop/internal/cache"
	"github.com/richhaase/pr-review-loop/internal/git"
	"github.com/richhaase/pr-review-loop/internal/github"
)

// Excerpt limits keep the context file bounded on large PRs.
const (
	maxTitleChars   = 200
	maxBodyChars    = 2000
	maxCommentChars = 300
	recentComments  = 10
)

// Basename is the cache filename for one round's context file.
func Basename(prNumber, round int, runID string) string {
	return fmt.Sprintf("pr-context-pr%d-r%d-%s.md", prNumber, round, runID)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// MarkerCount counts loop-marker comments among the most recent PR
// comments considered for the excerpt.
func MarkerCount(details github.PRDetails) int {
	count := 0
	for _, c := range recent(details) {
		if strings.Contains(c.Body, github.MarkerSubstr) {
			count++
		}
	}
	return count
}

func recent(details github.PRDetails) []github.PRComment {
	comments := details.Comments
	if len(comments) > recentComments {
		comments = comments[len(comments)-recentComments:]
	}
	return comments
}

// Render builds the context markdown for one round.
func Render(ownerRepo string, prNumber, round int, runID string, details github.PRDetails, files []git.NumstatRow) string {
	var b strings.Builder

	baseRef := details.BaseRef
	if baseRef == "" {
		baseRef = "main"
	}

	b.WriteString("# PR Context\n\n")
	fmt.Fprintf(&b, "- Repo: %s\n", ownerRepo)
	fmt.Fprintf(&b, "- PR: #%d %s\n", prNumber, details.URL)
	fmt.Fprintf(&b, "- Round: %d\n", round)
	fmt.Fprintf(&b, "- RunId: %s\n", runID)
	fmt.Fprintf(&b, "- Base: %s\n", baseRef)
	fmt.Fprintf(&b, "- Head: %s\n", details.HeadRef)
	fmt.Fprintf(&b, "- HeadOid: %s\n", details.HeadRefOid)
	fmt.Fprintf(&b, "- Draft: %t\n", details.IsDraft)

	labels := details.LabelNames()
	if len(labels) > 0 {
		fmt.Fprintf(&b, "- Labels: %s\n", strings.Join(labels, ", "))
	} else {
		b.WriteString("- Labels: (none)\n")
	}
	fmt.Fprintf(&b, "- ExistingLoopMarkers: %d\n\n", MarkerCount(details))

	b.WriteString("## Title\n\n")
	b.WriteString(clip(details.Title, maxTitleChars) + "\n\n")

	b.WriteString("## Body (excerpt)\n\n")
	body := clip(details.Body, maxBodyChars)
	if body == "" {
		body = "(empty)"
	}
	b.WriteString(body + "\n\n")

	fmt.Fprintf(&b, "## Changed Files (%d)\n\n", len(files))
	if len(files) > 0 {
		for _, row := range files {
			fmt.Fprintf(&b, "- +%s -%s %s\n", row.Added, row.Deleted, row.Path)
		}
	} else {
		b.WriteString("(none)\n")
	}
	b.WriteString("\n")

	b.WriteString("## Recent Comments (excerpt)\n\n")
	comments := recent(details)
	if len(comments) > 0 {
		for _, c := range comments {
			author := c.Author.Login
			if author == "" {
				author = "unknown"
			}
			fmt.Fprintf(&b, "- %s: %s\n", author, clip(c.Body, maxCommentChars))
		}
	} else {
		b.WriteString("(none)\n")
	}

	return b.String()
}

// Write persists the context markdown to the cache and returns its
// repo-relative path.
func Write(paths cache.Paths, prNumber, round int, runID, content string) (string, error) {
	basename := Basename(prNumber, round, runID)
	if err := paths.WriteText(basename, content); err != nil {
		return "", err
	}
	return paths.RelPath(paths.File(basename)), nil
}
