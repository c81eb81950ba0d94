package github

import (
	"testing"
)

func TestParsePRViewJSON(t *testing.T) {
	data := []byte(`{"headRefName":" feature/x ","baseRefName":"main","mergeable":"MERGEABLE","headRefOid":"0123456789abcdef"}`)
	info, err := parsePRViewJSON(data)
	if err != nil {
		t.Fatalf("parsePRViewJSON() error = %v", err)
	}
	if info.HeadRefName != "feature/x" {
		t.Errorf("HeadRefName = %q, want trimmed %q", info.HeadRefName, "feature/x")
	}
	if info.BaseRefName != "main" || info.Mergeable != "MERGEABLE" {
		t.Errorf("unexpected info: %+v", info)
	}
	if got := info.HeadShort(); got != "0123456" {
		t.Errorf("HeadShort() = %q, want %q", got, "0123456")
	}
}

func TestParsePRViewJSON_Invalid(t *testing.T) {
	if _, err := parsePRViewJSON([]byte("not json")); err == nil {
		t.Error("parsePRViewJSON() should fail on malformed input")
	}
}

func TestPRInfoHeadShort_ShortOid(t *testing.T) {
	info := PRInfo{HeadRefOid: "abc"}
	if got := info.HeadShort(); got != "abc" {
		t.Errorf("HeadShort() = %q, want %q", got, "abc")
	}
}

func TestHasMatchingComment(t *testing.T) {
	marker := "<!-- pr-review-loop-marker -->"
	body := marker + "\n\n## Review Summary (Round 2)\n\n- PR: #12\n- RunId: abc123\n"

	tests := []struct {
		name   string
		bodies []string
		header string
		runID  string
		want   bool
	}{
		{"exact match", []string{body}, "## Review Summary (Round 2)", "abc123", true},
		{"wrong round header", []string{body}, "## Review Summary (Round 3)", "abc123", false},
		{"wrong run id", []string{body}, "## Review Summary (Round 2)", "zzz999", false},
		{"missing marker", []string{"## Review Summary (Round 2)\nRunId: abc123"}, "## Review Summary (Round 2)", "abc123", false},
		{"no comments", nil, "## Review Summary (Round 2)", "abc123", false},
		{"match among others", []string{"hello", body, "bye"}, "## Review Summary (Round 2)", "abc123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comments := make([]IssueComment, len(tt.bodies))
			for i, b := range tt.bodies {
				comments[i] = IssueComment{Body: b}
			}
			if got := hasMatchingComment(comments, marker, tt.header, tt.runID); got != tt.want {
				t.Errorf("hasMatchingComment() = %v, want %v", got, tt.want)
			}
		})
	}
}
