package decision

import (
	"strings"
	"testing"

	"github.com/richhaase/pr-review-loop/internal/cache"
	"github.com/richhaase/pr-review-loop/internal/domain"
)

func TestAppendRound_CreatesLog(t *testing.T) {
	paths := cache.New(t.TempDir())

	ref, err := AppendRound(paths, 77, 1, []domain.Decision{
		{ID: "SEC-001", Status: domain.StatusFixed, Fields: map[string]string{"commit": "abc123", "essence": "input validation"}},
		{ID: "STY-002", Status: domain.StatusRejected, Fields: map[string]string{"priority": "P3", "reason": "style only"}},
	})
	if err != nil {
		t.Fatalf("AppendRound: %v", err)
	}

	text, err := paths.ReadText(ref)
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}

	for _, want := range []string{
		"# Decision Log",
		"PR: 77",
		"## Round 1",
		"### Fixed",
		"- id: SEC-001",
		"  commit: abc123",
		"### Rejected",
		"- id: STY-002",
		"  reason: style only",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("log missing %q:\n%s", want, text)
		}
	}
}

func TestAppendRound_AppendsToExisting(t *testing.T) {
	paths := cache.New(t.TempDir())

	if _, err := AppendRound(paths, 5, 1, []domain.Decision{{ID: "A-1", Status: domain.StatusFixed}}); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	if _, err := AppendRound(paths, 5, 2, []domain.Decision{{ID: "B-1", Status: domain.StatusRejected}}); err != nil {
		t.Fatalf("round 2: %v", err)
	}

	text, err := paths.ReadText(LogBasename(5))
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if strings.Count(text, "# Decision Log") != 1 {
		t.Errorf("header duplicated:\n%s", text)
	}
	if !strings.Contains(text, "## Round 1") || !strings.Contains(text, "## Round 2") {
		t.Errorf("missing round sections:\n%s", text)
	}
}

func TestAppendRound_RoundTripsThroughParser(t *testing.T) {
	paths := cache.New(t.TempDir())

	in := []domain.Decision{
		{ID: "F-1", Status: domain.StatusFixed, Fields: map[string]string{"commit": "c1"}},
		{ID: "R-1", Status: domain.StatusRejected, Fields: map[string]string{"reason": "wontfix"}},
	}
	ref, err := AppendRound(paths, 9, 3, in)
	if err != nil {
		t.Fatalf("AppendRound: %v", err)
	}

	text, _ := paths.ReadText(ref)
	parsed := ParseLog(text)
	if len(parsed) != 2 {
		t.Fatalf("round trip produced %d decisions, want 2", len(parsed))
	}
	if parsed[0].ID != "F-1" || parsed[0].Status != domain.StatusFixed || parsed[0].Field("commit") != "c1" {
		t.Errorf("first = %+v", parsed[0])
	}
	if parsed[1].ID != "R-1" || parsed[1].Field("reason") != "wontfix" {
		t.Errorf("second = %+v", parsed[1])
	}
}

func TestAppendRound_SkipsEmptyIDs(t *testing.T) {
	paths := cache.New(t.TempDir())
	ref, err := AppendRound(paths, 2, 1, []domain.Decision{
		{ID: "", Status: domain.StatusFixed},
		{ID: "OK-1", Status: domain.StatusFixed},
	})
	if err != nil {
		t.Fatalf("AppendRound: %v", err)
	}
	text, _ := paths.ReadText(ref)
	if strings.Contains(text, "- id: \n") {
		t.Errorf("empty id written:\n%s", text)
	}
	if !strings.Contains(text, "- id: OK-1") {
		t.Errorf("missing OK-1:\n%s", text)
	}
}
