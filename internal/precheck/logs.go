package precheck

import (
	"os"
	"regexp"
	"strings"
)

const (
	tailMaxLines = 200
	tailMaxChars = 12000
)

// tailText returns the last lines of a command log, bounded by line and
// character limits so a fix file stays readable.
func tailText(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "(failed to read log)"
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > tailMaxLines {
		lines = lines[len(lines)-tailMaxLines:]
	}
	tail := strings.Join(lines, "\n")
	if len(tail) > tailMaxChars {
		tail = tail[len(tail)-tailMaxChars:]
	}
	return tail
}

var fileLineRe = regexp.MustCompile(`(?m)^([^\s:]+\.[a-zA-Z0-9]+):(\d+)(?::\d+)?\b`)

// firstFileLine extracts the first file:line reference from tool output,
// giving the fix file a concrete location for the failure.
func firstFileLine(text string) (file, line string) {
	m := fileLineRe.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}
