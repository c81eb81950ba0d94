package findings

import (
	"strings"
	"testing"

	"github.com/richhaase/pr-review-loop/internal/domain"
)

func TestParse_ListForm(t *testing.T) {
	text := `# Review

- id: SEC-001
  priority: P1
  category: security
  file: src/auth.go
  line: 42
  title: Missing error check
  description: The error return is discarded.
  suggestion: Handle the error.
- id: STY-002
  priority: P3
  title: Naming nit
`

	got := Parse(text)
	if len(got) != 2 {
		t.Fatalf("Parse returned %d findings, want 2", len(got))
	}

	first := got[0]
	if first.ID != "SEC-001" || first.Priority != "P1" || first.Category != "security" {
		t.Errorf("first finding = %+v", first)
	}
	if first.File != "src/auth.go" || first.Line != "42" {
		t.Errorf("first finding location = %s:%s", first.File, first.Line)
	}

	second := got[1]
	if second.ID != "STY-002" {
		t.Errorf("second finding id = %q", second.ID)
	}
	// Defaults applied for missing fields.
	if second.Category != domain.DefaultCategory {
		t.Errorf("second category = %q, want default", second.Category)
	}
	if second.File != domain.DefaultFile || second.Line != domain.DefaultLine {
		t.Errorf("second location = %s:%s, want defaults", second.File, second.Line)
	}
	if second.Suggestion != domain.DefaultSuggestion {
		t.Errorf("second suggestion = %q, want placeholder", second.Suggestion)
	}
}

func TestParse_FlatForm(t *testing.T) {
	text := `id: CDX-101
priority: P0
category: security
file: cmd/main.go
line: 7
title: Injection risk
description: Unsanitized input reaches exec.
suggestion: Quote the argument.

id: CDX-102
priority: P2
title: Minor cleanup
`

	got := Parse(text)
	if len(got) != 2 {
		t.Fatalf("Parse returned %d findings, want 2", len(got))
	}
	if got[0].ID != "CDX-101" || got[0].Priority != "P0" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].ID != "CDX-102" || got[1].Priority != "P2" {
		t.Errorf("second = %+v", got[1])
	}
}

func TestParse_MixedGrammars(t *testing.T) {
	text := "- id: A-001\n  priority: P1\nid: B-002\npriority: P2\n"
	got := Parse(text)
	if len(got) != 2 {
		t.Fatalf("Parse returned %d findings, want 2", len(got))
	}
	if got[0].ID != "A-001" || got[1].ID != "B-002" {
		t.Errorf("ids = %q, %q", got[0].ID, got[1].ID)
	}
}

func TestParse_DropsEmptyID(t *testing.T) {
	text := "- id:   \n  priority: P0\n- id: OK-001\n  priority: P1\n"
	got := Parse(text)
	if len(got) != 1 || got[0].ID != "OK-001" {
		t.Errorf("Parse = %+v, want only OK-001", got)
	}
}

func TestParse_IgnoresNoise(t *testing.T) {
	text := `random prose line
## A header
- id: X-001
  priority: P1
  this line has no colon key
  12bad: not a valid key
  title: Valid title
`
	got := Parse(text)
	if len(got) != 1 {
		t.Fatalf("Parse returned %d findings, want 1", len(got))
	}
	if got[0].Title != "Valid title" {
		t.Errorf("title = %q", got[0].Title)
	}
}

func TestParse_RepeatedIDKeyInsideRecord(t *testing.T) {
	// A second "id:" line opens a new record; it never mutates the open one.
	text := "id: A-001\npriority: P1\nid: A-002\npriority: P2\n"
	got := Parse(text)
	if len(got) != 2 {
		t.Fatalf("Parse returned %d findings, want 2", len(got))
	}
	if got[0].ID != "A-001" || got[0].Priority != "P1" {
		t.Errorf("first = %+v", got[0])
	}
}

func TestParse_Empty(t *testing.T) {
	if got := Parse(""); len(got) != 0 {
		t.Errorf("Parse(\"\") = %+v, want empty", got)
	}
	if got := Parse("no findings here\n"); len(got) != 0 {
		t.Errorf("Parse(prose) = %+v, want empty", got)
	}
}

func TestRenderFixFile(t *testing.T) {
	mustFix := []domain.Finding{
		{
			ID:          "SEC-001",
			Priority:    "P0",
			Category:    "security",
			File:        "a.go",
			Line:        "10",
			Title:       "Bad",
			Description: "line one\nline two",
			Suggestion:  "fix\nit",
		},
	}
	optional := []domain.Finding{
		{ID: "STY-002", Priority: "P3", Title: "Nit"},
	}

	out := RenderFixFile(42, 2, mustFix, optional)

	for _, want := range []string{
		"# Fix File",
		"PR: 42",
		"Round: 2",
		"## IssuesToFix",
		"## OptionalIssues",
		"- id: SEC-001",
		`  description: line one\nline two`,
		`  suggestion: fix\nit`,
		"- id: STY-002",
		"  suggestion: " + domain.DefaultSuggestion,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("fix file missing %q:\n%s", want, out)
		}
	}

	// The mandatory section must precede the optional section.
	if strings.Index(out, "SEC-001") > strings.Index(out, "STY-002") {
		t.Error("mandatory finding rendered after optional finding")
	}
}

func TestRenderFixFile_RoundTripsThroughParser(t *testing.T) {
	in := []domain.Finding{
		{ID: "GHR-003", Priority: "P1", Category: "logic", File: "x.go", Line: "3", Title: "T", Description: "D", Suggestion: "S"},
	}
	out := RenderFixFile(1, 1, in, nil)
	parsed := Parse(out)
	if len(parsed) != 1 {
		t.Fatalf("round trip produced %d findings, want 1", len(parsed))
	}
	if parsed[0].ID != "GHR-003" || parsed[0].Priority != "P1" || parsed[0].Description != "D" {
		t.Errorf("round trip = %+v", parsed[0])
	}
}

func TestRenderIssueBlocks(t *testing.T) {
	out := RenderIssueBlocks([]domain.Finding{{ID: "PRE-001", Priority: "P1", Title: "lint failed"}})
	if !strings.HasPrefix(out, "## IssuesToFix\n") {
		t.Errorf("unexpected prefix: %q", out[:20])
	}
	if strings.Contains(out, "# Fix File") {
		t.Error("precheck form must not include the fix-file header")
	}
	if !strings.Contains(out, "- id: PRE-001") {
		t.Errorf("missing finding block:\n%s", out)
	}
}
