package render

import (
	"strings"
	"testing"

	"github.com/richhaase/pr-review-loop/internal/domain"
)

func testSanitizer(t *testing.T) *Sanitizer {
	t.Helper()
	return NewSanitizer(t.TempDir(), t.TempDir())
}

func TestReviewSummary(t *testing.T) {
	mustFix := []domain.Finding{
		{ID: "SEC-001", Priority: "P0", Title: "SQL injection", File: "db/query.go", Line: "42", Suggestion: "use parameterized queries"},
		{ID: "ERR-002", Priority: "P1", Title: "ignored error", File: "<unknown>", Line: "null"},
	}
	mergedMap := map[string][]string{"SEC-001": {"GMN-004"}}
	raw := []RawReview{{Name: "claude", Content: "review body"}}

	body := ReviewSummary(123, 2, "abc123def456", domain.Counts{P0: 1, P1: 1, P2: 3}, mustFix, mergedMap, raw, testSanitizer(t))

	for _, want := range []string{
		Marker,
		"## Review Summary (Round 2)",
		"- PR: #123",
		"- RunId: abc123def456",
		"- P0: 1  P1: 1  P2: 3  P3: 0",
		"## Must Fix (P0/P1)",
		"- SEC-001 (P0) SQL injection",
		"  - db/query.go:42",
		"  - merged: GMN-004",
		"  - suggestion: use parameterized queries",
		"- ERR-002 (P1) ignored error",
		"  - <unknown>:null",
		"<details>",
		"<summary>Raw Reviews</summary>",
		"### claude",
		"```md\nreview body\n```",
		"</details>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q\n%s", want, body)
		}
	}
	if !strings.HasPrefix(body, Marker+"\n") {
		t.Errorf("body does not open with marker")
	}
}

func TestReviewSummary_NoMandatoryFindings(t *testing.T) {
	body := ReviewSummary(7, 1, "run", domain.Counts{P3: 2}, nil, nil, nil, testSanitizer(t))
	if !strings.Contains(body, "## Result\n\nNo P0/P1 issues found.") {
		t.Errorf("missing empty-tier result section:\n%s", body)
	}
	if strings.Contains(body, "## Must Fix") {
		t.Errorf("unexpected Must Fix section:\n%s", body)
	}
}

func TestFixReport(t *testing.T) {
	body := FixReport(55, 3, "run-id", "### Changes\n\n- fixed SEC-001", testSanitizer(t))
	for _, want := range []string{
		Marker,
		"## Fix Report (Round 3)",
		"- PR: #55",
		"- RunId: run-id",
		"### Changes\n\n- fixed SEC-001",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q\n%s", want, body)
		}
	}
}

func TestFinalReport(t *testing.T) {
	tests := []struct {
		name   string
		status FinalStatus
		want   string
		absent string
	}{
		{"resolved", FinalResolved, "### Status: ✅ All issues resolved", "Max rounds"},
		{"max rounds", FinalMaxRounds, "### Status: ⚠️ Max rounds reached", "All issues resolved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := FinalReport(88, 3, "run-id", tt.status)
			if !strings.Contains(body, tt.want) {
				t.Errorf("body missing %q\n%s", tt.want, body)
			}
			if strings.Contains(body, tt.absent) {
				t.Errorf("body contains %q unexpectedly", tt.absent)
			}
			for _, line := range []string{"## Final Report", "- PR: #88", "- Total Rounds: 3", "- RunId: run-id"} {
				if !strings.Contains(body, line) {
					t.Errorf("body missing %q", line)
				}
			}
		})
	}
}

func TestCommentKindHeader(t *testing.T) {
	if got := KindReviewSummary.Header(4); got != "## Review Summary (Round 4)" {
		t.Errorf("Header = %q", got)
	}
	if got := KindFixReport.Header(1); got != "## Fix Report (Round 1)" {
		t.Errorf("Header = %q", got)
	}
	if got := KindFinalReport.Header(9); got != "## Final Report" {
		t.Errorf("Header = %q", got)
	}
}
