// Package findings parses reviewer finding blocks and writes fix files.
//
// Two block grammars coexist because reviewer sources emit either:
//
//	- id: SEC-001          id: SEC-001
//	  priority: P1         priority: P1
//	  title: ...           title: ...
//
// The list form opens records with "- id:" and indents fields by two
// spaces; the flat form opens with a bare "id:" line and allows any field
// indentation. A single pass handles both: any line whose first key is
// "id" (with optional list prefix) opens a record, and every following
// "key: value" line populates the open record.
package findings

import (
	"regexp"
	"strings"

	"github.com/richhaase/pr-review-loop/internal/domain"
)

var (
	idLineRe    = regexp.MustCompile(`^\s*(?:-\s*)?id:\s*(.+)$`)
	fieldLineRe = regexp.MustCompile(`^\s*([a-zA-Z][a-zA-Z0-9]*):\s*(.*)$`)
)

// Parse extracts findings from raw reviewer markdown. Unparseable lines
// are skipped and records with an empty id are dropped; parsing never
// fails. Input order is preserved.
func Parse(text string) []domain.Finding {
	var records []map[string]string
	var cur map[string]string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")

		if m := idLineRe.FindStringSubmatch(line); m != nil {
			if cur != nil {
				records = append(records, cur)
			}
			cur = map[string]string{"id": strings.TrimSpace(m[1])}
			continue
		}
		if cur == nil {
			continue
		}
		m := fieldLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := m[1]
		if key == "id" {
			// Repeated id keys inside a record never overwrite the opener.
			continue
		}
		cur[key] = strings.TrimSpace(m[2])
	}
	if cur != nil {
		records = append(records, cur)
	}

	out := make([]domain.Finding, 0, len(records))
	for _, rec := range records {
		id := strings.TrimSpace(rec["id"])
		if id == "" {
			continue
		}
		out = append(out, normalize(id, rec))
	}
	return out
}

// normalize applies documented defaults for missing fields.
func normalize(id string, rec map[string]string) domain.Finding {
	return domain.Finding{
		ID:          id,
		Priority:    fieldOr(rec, "priority", domain.DefaultPriority),
		Category:    fieldOr(rec, "category", domain.DefaultCategory),
		File:        fieldOr(rec, "file", domain.DefaultFile),
		Line:        fieldOr(rec, "line", domain.DefaultLine),
		Title:       fieldOr(rec, "title", ""),
		Description: fieldOr(rec, "description", ""),
		Suggestion:  fieldOr(rec, "suggestion", domain.DefaultSuggestion),
	}
}

func fieldOr(rec map[string]string, key, fallback string) string {
	v := strings.TrimSpace(rec[key])
	if v == "" {
		return fallback
	}
	return v
}
