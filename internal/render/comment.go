package render

import (
	"fmt"
	"strings"

	"github.com/richhaase/pr-review-loop/internal/domain"
)

// Marker identifies every comment the loop posts. Harvesting skips
// comments carrying it so the loop never reviews its own output.
const Marker = "<!-- pr-review-loop-marker -->"

// CommentKind selects the comment template and the header used by the
// idempotency check before posting.
type CommentKind string

const (
	KindReviewSummary CommentKind = "review-summary"
	KindFixReport     CommentKind = "fix-report"
	KindFinalReport   CommentKind = "final-report"
)

// Header returns the H2 line the rendered comment opens with.
func (k CommentKind) Header(round int) string {
	switch k {
	case KindReviewSummary:
		return fmt.Sprintf("## Review Summary (Round %d)", round)
	case KindFixReport:
		return fmt.Sprintf("## Fix Report (Round %d)", round)
	default:
		return "## Final Report"
	}
}

// RawReview is one reviewer's unprocessed output, embedded verbatim in
// the review-summary comment for audit.
type RawReview struct {
	Name    string
	Content string
}

// ReviewSummary renders the round's review-summary comment: counts,
// the mandatory findings with their locations and merge provenance, and
// the raw reviewer outputs folded into a details block.
func ReviewSummary(pr, round int, runID string, counts domain.Counts, mustFix []domain.Finding, mergedMap map[string][]string, raw []RawReview, s *Sanitizer) string {
	var b strings.Builder
	b.WriteString(Marker + "\n\n")
	b.WriteString(KindReviewSummary.Header(round) + "\n\n")
	fmt.Fprintf(&b, "- PR: #%d\n", pr)
	fmt.Fprintf(&b, "- RunId: %s\n", runID)
	fmt.Fprintf(&b, "- P0: %d  P1: %d  P2: %d  P3: %d\n\n", counts.P0, counts.P1, counts.P2, counts.P3)

	if len(mustFix) > 0 {
		b.WriteString("## Must Fix (P0/P1)\n\n")
		for _, f := range mustFix {
			fmt.Fprintf(&b, "- %s (%s) %s\n", f.ID, strings.TrimSpace(f.Priority), f.Title)
			fmt.Fprintf(&b, "  - %s:%s\n", f.File, f.Line)
			if merged, ok := mergedMap[f.ID]; ok {
				fmt.Fprintf(&b, "  - merged: %s\n", strings.Join(merged, ", "))
			}
			if f.Suggestion != "" {
				fmt.Fprintf(&b, "  - suggestion: %s\n", s.Clean(f.Suggestion))
			}
		}
		b.WriteString("\n")
	} else {
		b.WriteString("## Result\n\nNo P0/P1 issues found.\n\n")
	}

	b.WriteString("<details>\n<summary>Raw Reviews</summary>\n\n")
	for _, r := range raw {
		fmt.Fprintf(&b, "### %s\n\n", r.Name)
		b.WriteString("```md\n")
		b.WriteString(s.Clean(r.Content))
		b.WriteString("\n```\n\n")
	}
	b.WriteString("</details>\n")
	return b.String()
}

// FixReport wraps the fix agent's markdown report in the marked comment
// frame for posting after a fix round.
func FixReport(pr, round int, runID, report string, s *Sanitizer) string {
	var b strings.Builder
	b.WriteString(Marker + "\n\n")
	b.WriteString(KindFixReport.Header(round) + "\n\n")
	fmt.Fprintf(&b, "- PR: #%d\n", pr)
	fmt.Fprintf(&b, "- RunId: %s\n\n", runID)
	b.WriteString(s.Clean(report))
	b.WriteString("\n")
	return b.String()
}

// FinalStatus is the terminal outcome reported when the loop ends.
type FinalStatus string

const (
	FinalResolved  FinalStatus = "RESOLVED"
	FinalMaxRounds FinalStatus = "MAX_ROUNDS"
)

// FinalReport renders the closing comment posted when the loop
// terminates, either because the mandatory tier emptied or because the
// round cap was hit.
func FinalReport(pr, rounds int, runID string, status FinalStatus) string {
	var b strings.Builder
	b.WriteString(Marker + "\n\n")
	b.WriteString(KindFinalReport.Header(rounds) + "\n\n")
	fmt.Fprintf(&b, "- PR: #%d\n", pr)
	fmt.Fprintf(&b, "- Total Rounds: %d\n", rounds)
	fmt.Fprintf(&b, "- RunId: %s\n\n", runID)

	if status == FinalResolved {
		b.WriteString("### Status: ✅ All issues resolved\n\n")
		b.WriteString("All P0/P1 issues from the automated review have been addressed.\n")
		b.WriteString("The PR is ready for human review and merge.\n")
	} else {
		b.WriteString("### Status: ⚠️ Max rounds reached\n\n")
		b.WriteString("The automated review loop has completed the maximum number of rounds (3).\n")
		b.WriteString("Some issues may still remain. Please review the PR comments above for details.\n")
	}
	return b.String()
}
