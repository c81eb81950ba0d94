package aggregate

import (
	"strings"

	"github.com/richhaase/pr-review-loop/internal/decision"
	"github.com/richhaase/pr-review-loop/internal/domain"
)

// FilterByDecisions drops findings already resolved or rejected in prior
// rounds while admitting legitimately escalated re-reports.
//
// Escalation groups link a prior decision's id (first element) to the
// new-round findings that re-report it (remaining elements). Per finding,
// in order:
//
//  1. id in the fixed set -> dropped
//  2. id linked from a fixed decision via escalation -> dropped
//  3. id in the rejected set -> dropped, unless it is also linked from a
//     rejected decision via escalation, in which case the escalation wins
//     and the finding is retained
//  4. otherwise retained
//
// With no prior decisions this is the identity. Findings with an empty id
// are dropped.
func FilterByDecisions(findings []domain.Finding, priorDecisions []domain.Decision, escalationGroups [][]string) []domain.Finding {
	if len(priorDecisions) == 0 {
		return findings
	}

	escalation := make(map[string]map[string]bool)
	for _, group := range escalationGroups {
		if len(group) < 2 {
			continue
		}
		priorID := group[0]
		successors := escalation[priorID]
		if successors == nil {
			successors = make(map[string]bool)
			escalation[priorID] = successors
		}
		for _, id := range group[1:] {
			successors[id] = true
		}
	}

	fixedIDs, rejectedIDs := decision.SplitByStatus(priorDecisions)

	filtered := make([]domain.Finding, 0, len(findings))
	for _, f := range findings {
		id := strings.TrimSpace(f.ID)
		if id == "" {
			continue
		}

		drop := fixedIDs[id]

		if !drop {
			for fixedID := range fixedIDs {
				if escalation[fixedID][id] {
					drop = true
					break
				}
			}
		}

		if !drop {
			if rejectedIDs[id] {
				drop = true
			}
			for rejectedID := range rejectedIDs {
				if escalation[rejectedID][id] {
					drop = false
					break
				}
			}
		}

		if !drop {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
