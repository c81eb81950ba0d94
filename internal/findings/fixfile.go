package findings

import (
	"fmt"
	"strings"

	"github.com/richhaase/pr-review-loop/internal/domain"
)

// RenderFixFile serializes the mandatory/optional finding partitions into
// the fix-file artifact consumed by the fixer. Multi-line description and
// suggestion text is flattened with escaped newlines so each finding stays
// one block of single-line fields.
func RenderFixFile(prNumber, round int, mustFix, optional []domain.Finding) string {
	var b strings.Builder
	b.WriteString("# Fix File\n\n")
	fmt.Fprintf(&b, "PR: %d\n", prNumber)
	fmt.Fprintf(&b, "Round: %d\n", round)
	b.WriteString("\n## IssuesToFix\n\n")
	writeBlocks(&b, mustFix)
	b.WriteString("\n## OptionalIssues\n\n")
	writeBlocks(&b, optional)
	return b.String()
}

// RenderIssueBlocks serializes findings as a bare "## IssuesToFix" section,
// the reduced form emitted by precheck fix files.
func RenderIssueBlocks(issues []domain.Finding) string {
	var b strings.Builder
	b.WriteString("## IssuesToFix\n\n")
	writeBlocks(&b, issues)
	return b.String()
}

func writeBlocks(b *strings.Builder, fs []domain.Finding) {
	for _, f := range fs {
		fmt.Fprintf(b, "- id: %s\n", f.ID)
		fmt.Fprintf(b, "  priority: %s\n", orDefault(f.Priority, domain.DefaultPriority))
		fmt.Fprintf(b, "  category: %s\n", orDefault(f.Category, domain.DefaultCategory))
		fmt.Fprintf(b, "  file: %s\n", orDefault(f.File, domain.DefaultFile))
		fmt.Fprintf(b, "  line: %s\n", orDefault(f.Line, domain.DefaultLine))
		fmt.Fprintf(b, "  title: %s\n", strings.TrimSpace(f.Title))
		fmt.Fprintf(b, "  description: %s\n", flatten(f.Description))
		fmt.Fprintf(b, "  suggestion: %s\n", orDefault(flatten(f.Suggestion), domain.DefaultSuggestion))
	}
}

// flatten replaces real newlines with literal \n escapes.
func flatten(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", `\n`))
}

func orDefault(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}
