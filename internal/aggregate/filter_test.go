package aggregate

import (
	"reflect"
	"testing"

	"github.com/richhaase/pr-review-loop/internal/domain"
)

func fixed(id string) domain.Decision {
	return domain.Decision{ID: id, Status: domain.StatusFixed}
}

func rejected(id string) domain.Decision {
	return domain.Decision{ID: id, Status: domain.StatusRejected}
}

func TestFilterByDecisions_NoDecisionsIsIdentity(t *testing.T) {
	findings := []domain.Finding{f("A-1", "P1"), f("", "P0")}
	got := FilterByDecisions(findings, nil, [][]string{{"A-1", "B-2"}})
	if !reflect.DeepEqual(got, findings) {
		t.Errorf("got %v, want input unchanged", ids(got))
	}
}

func TestFilterByDecisions(t *testing.T) {
	tests := []struct {
		name       string
		findings   []domain.Finding
		decisions  []domain.Decision
		escalation [][]string
		want       []string
	}{
		{
			name:      "fixed id dropped",
			findings:  []domain.Finding{f("SEC-010", "P1"), f("NEW-100", "P2")},
			decisions: []domain.Decision{fixed("SEC-010")},
			want:      []string{"NEW-100"},
		},
		{
			name:       "escalation from fixed decision still dropped",
			findings:   []domain.Finding{f("RE-200", "P0")},
			decisions:  []domain.Decision{fixed("SEC-010")},
			escalation: [][]string{{"SEC-010", "RE-200"}},
			want:       []string{},
		},
		{
			name:      "rejected id dropped",
			findings:  []domain.Finding{f("STY-020", "P3"), f("NEW-100", "P2")},
			decisions: []domain.Decision{rejected("STY-020")},
			want:      []string{"NEW-100"},
		},
		{
			name:       "escalation of rejected decision retained",
			findings:   []domain.Finding{f("LOG-030", "P1")},
			decisions:  []domain.Decision{rejected("STY-020")},
			escalation: [][]string{{"STY-020", "LOG-030"}},
			want:       []string{"LOG-030"},
		},
		{
			name:       "rejected and escalated under same id retains",
			findings:   []domain.Finding{f("STY-020", "P1")},
			decisions:  []domain.Decision{rejected("STY-020"), rejected("OLD-001")},
			escalation: [][]string{{"OLD-001", "STY-020"}},
			want:       []string{"STY-020"},
		},
		{
			name: "fixed and rejected combined with escalation",
			findings: []domain.Finding{
				f("SEC-010", "P1"), f("STY-020", "P3"),
				f("LOG-030", "P1"), f("NEW-100", "P2"),
			},
			decisions:  []domain.Decision{fixed("SEC-010"), rejected("STY-020")},
			escalation: [][]string{{"STY-020", "LOG-030"}},
			want:       []string{"LOG-030", "NEW-100"},
		},
		{
			name:      "empty id dropped",
			findings:  []domain.Finding{f("", "P0"), f("A-1", "P1")},
			decisions: []domain.Decision{fixed("Z-9")},
			want:      []string{"A-1"},
		},
		{
			name:       "singleton escalation group ignored",
			findings:   []domain.Finding{f("LOG-030", "P1")},
			decisions:  []domain.Decision{rejected("LOG-030")},
			escalation: [][]string{{"LOG-030"}},
			want:       []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByDecisions(tt.findings, tt.decisions, tt.escalation)
			gotIDs := ids(got)
			if len(gotIDs) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(gotIDs, tt.want) {
				t.Errorf("filtered = %v, want %v", gotIDs, tt.want)
			}
		})
	}
}
