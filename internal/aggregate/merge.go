// Package aggregate merges, filters, and tiers review findings for a round.
package aggregate

import (
	"sort"
	"strings"

	"github.com/richhaase/pr-review-loop/internal/domain"
)

// MergeDuplicates collapses duplicate groups down to one canonical finding
// each. The canonical member is the most severe finding in the group, ties
// broken by lexicographically smallest id. Absorbed members disappear from
// the output and their ids are appended to the canonical description as an
// "Also reported as" note; the canonical id and content are otherwise
// untouched.
//
// Groups referencing unknown ids are restricted to the ids actually
// present; groups reduced below two members are ignored. The returned map
// records canonical id -> absorbed ids. Output is sorted by
// (priority rank, id).
func MergeDuplicates(findings []domain.Finding, duplicateGroups [][]string) ([]domain.Finding, map[string][]string) {
	byID := make(map[string]domain.Finding, len(findings))
	order := make([]string, 0, len(findings))
	for _, f := range findings {
		if _, ok := byID[f.ID]; !ok {
			order = append(order, f.ID)
		}
		byID[f.ID] = f
	}

	mergedMap := make(map[string][]string)
	absorbed := make(map[string]bool)

	for _, group := range duplicateGroups {
		ids := make([]string, 0, len(group))
		seen := make(map[string]bool, len(group))
		for _, id := range group {
			if _, present := byID[id]; present && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		if len(ids) < 2 {
			continue
		}

		canonical := ids[0]
		for _, id := range ids[1:] {
			if less(byID[id], byID[canonical]) {
				canonical = id
			}
		}

		for _, id := range ids {
			if id == canonical {
				continue
			}
			mergedMap[canonical] = append(mergedMap[canonical], id)
			absorbed[id] = true
		}
	}

	out := make([]domain.Finding, 0, len(order))
	for _, id := range order {
		if absorbed[id] {
			continue
		}
		f := byID[id]
		if also, ok := mergedMap[id]; ok {
			note := "Also reported as: " + strings.Join(also, ", ")
			if f.Description == "" {
				f.Description = note
			} else {
				f.Description = f.Description + "\n" + note
			}
		}
		out = append(out, f)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out, mergedMap
}

// less orders findings by (priority rank, id).
func less(a, b domain.Finding) bool {
	ra, rb := domain.PriorityRank(a.Priority), domain.PriorityRank(b.Priority)
	if ra != rb {
		return ra < rb
	}
	return a.ID < b.ID
}

// Partition splits findings into the mandatory tier (P0/P1) and the
// optional tier (everything else). The round stops when the mandatory
// tier is empty.
func Partition(findings []domain.Finding) (mustFix, optional []domain.Finding) {
	for _, f := range findings {
		if f.Mandatory() {
			mustFix = append(mustFix, f)
		} else {
			optional = append(optional, f)
		}
	}
	return mustFix, optional
}
