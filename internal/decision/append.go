package decision

import (
	"fmt"
	"strings"

	"github.com/richhaase/pr-review-loop/internal/cache"
	"github.com/richhaase/pr-review-loop/internal/domain"
)

// LogBasename returns the decision-log cache basename for a PR.
func LogBasename(prNumber int) string {
	return fmt.Sprintf("decision-log-pr%d.md", prNumber)
}

// AppendRound appends a round section with the given decisions to the
// PR's decision log, creating the log (with its header) when absent.
// Decisions keep their optional fields in a stable order.
func AppendRound(paths cache.Paths, prNumber, round int, decisions []domain.Decision) (string, error) {
	ref := LogBasename(prNumber)

	existing, err := paths.ReadText(ref)
	if err != nil {
		existing = fmt.Sprintf("# Decision Log\n\nPR: %d\n", prNumber)
	}
	if !strings.HasSuffix(existing, "\n") {
		existing += "\n"
	}

	var b strings.Builder
	b.WriteString(existing)
	fmt.Fprintf(&b, "\n## Round %d\n", round)

	writeSection := func(header, status string) {
		wrote := false
		for _, d := range decisions {
			if !strings.EqualFold(d.Status, status) || strings.TrimSpace(d.ID) == "" {
				continue
			}
			if !wrote {
				fmt.Fprintf(&b, "\n### %s\n", header)
				wrote = true
			}
			fmt.Fprintf(&b, "- id: %s\n", strings.TrimSpace(d.ID))
			for _, key := range fieldOrder(status) {
				if v := strings.TrimSpace(d.Fields[key]); v != "" {
					fmt.Fprintf(&b, "  %s: %s\n", key, v)
				}
			}
		}
	}

	writeSection("Fixed", domain.StatusFixed)
	writeSection("Rejected", domain.StatusRejected)

	if err := paths.WriteText(ref, b.String()); err != nil {
		return "", err
	}
	return ref, nil
}

func fieldOrder(status string) []string {
	if status == domain.StatusFixed {
		return []string{"commit", "essence"}
	}
	return []string{"priority", "reason", "essence"}
}
