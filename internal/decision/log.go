// Package decision reads and writes the cumulative decision log that
// tracks which findings were fixed or rejected in prior review rounds.
//
// Log format:
//
//	# Decision Log
//	PR: 123
//	## Round 1
//	### Fixed
//	- id: SEC-001
//	  commit: abc123
//	  essence: JSON.parse error handling
//	### Rejected
//	- id: STY-004
//	  priority: P2
//	  reason: needs product decision
package decision

import (
	"regexp"
	"strings"

	"github.com/richhaase/pr-review-loop/internal/domain"
)

var entryFieldRe = regexp.MustCompile(`^\s{2}([a-zA-Z][a-zA-Z0-9]*):\s*(.*)$`)

// ParseLog extracts decisions from decision-log markdown in order of
// appearance. Empty input yields an empty slice. Malformed lines are
// skipped; only id and status are guaranteed on each decision, so legacy
// logs with missing optional fields parse without error.
func ParseLog(text string) []domain.Decision {
	if text == "" {
		return nil
	}

	var decisions []domain.Decision
	status := ""
	var cur *domain.Decision

	flush := func() {
		if cur != nil {
			decisions = append(decisions, *cur)
			cur = nil
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "### fixed":
			status = domain.StatusFixed
			flush()
			continue
		case "### rejected":
			status = domain.StatusRejected
			flush()
			continue
		}

		if strings.HasPrefix(line, "## Round ") {
			flush()
			continue
		}

		if strings.HasPrefix(line, "- id:") && status != "" {
			flush()
			cur = &domain.Decision{
				ID:     strings.TrimSpace(strings.SplitN(line, ":", 2)[1]),
				Status: status,
				Fields: map[string]string{},
			}
			continue
		}

		if cur != nil && strings.HasPrefix(line, "  ") {
			if m := entryFieldRe.FindStringSubmatch(line); m != nil {
				cur.Fields[m[1]] = strings.TrimSpace(m[2])
			}
		}
	}
	flush()

	return decisions
}

// SplitByStatus partitions decision IDs into fixed and rejected sets.
// Decisions with an empty id are ignored.
func SplitByStatus(decisions []domain.Decision) (fixed, rejected map[string]bool) {
	fixed = make(map[string]bool)
	rejected = make(map[string]bool)
	for _, d := range decisions {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			continue
		}
		switch strings.ToLower(d.Status) {
		case domain.StatusFixed:
			fixed[id] = true
		case domain.StatusRejected:
			rejected[id] = true
		}
	}
	return fixed, rejected
}
