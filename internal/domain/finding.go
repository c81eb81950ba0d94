// Package domain provides core types for the review loop agents.
package domain

import "strings"

// Default field values applied when a reviewer omits them.
const (
	DefaultPriority   = "P3"
	DefaultCategory   = "quality"
	DefaultFile       = "<unknown>"
	DefaultLine       = "null"
	DefaultSuggestion = "(no suggestion provided)"
)

// Finding represents a single reviewer-reported issue.
// The ID is assigned by the reviewer (e.g. "SEC-001") and is never rewritten;
// its prefix is an opaque provenance marker for downstream tooling.
type Finding struct {
	ID          string
	Priority    string
	Category    string
	File        string
	Line        string
	Title       string
	Description string
	Suggestion  string
}

// PriorityRank maps a priority string to its numeric rank.
// P0 is most severe. Unrecognized or empty priorities rank last.
func PriorityRank(p string) int {
	switch normalizePriority(p) {
	case "P0":
		return 0
	case "P1":
		return 1
	case "P2":
		return 2
	case "P3":
		return 3
	default:
		return 99
	}
}

// Mandatory returns true if the finding is in the must-fix tier (P0/P1).
func (f Finding) Mandatory() bool {
	return PriorityRank(f.Priority) <= 1
}

// Counts holds per-priority finding counts.
type Counts struct {
	P0 int
	P1 int
	P2 int
	P3 int
}

func normalizePriority(p string) string {
	return strings.ToUpper(strings.TrimSpace(p))
}

// CountByPriority tallies findings per priority level.
// Unrecognized priorities are not counted.
func CountByPriority(findings []Finding) Counts {
	var c Counts
	for _, f := range findings {
		switch normalizePriority(f.Priority) {
		case "P0":
			c.P0++
		case "P1":
			c.P1++
		case "P2":
			c.P2++
		case "P3":
			c.P3++
		}
	}
	return c
}
