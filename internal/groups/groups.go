// Package groups decodes caller-supplied finding groupings.
//
// Grouping data links finding IDs together, either as same-round
// duplicates or as cross-round escalations. It arrives as an argument
// (inline JSON or base64-encoded JSON), never via disk, and is advisory:
// any decode failure degrades to "no grouping information" rather than
// an error, so callers cannot accidentally treat it as required input.
package groups

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Property names for the wrapping-object payload form.
const (
	DuplicateProperty  = "duplicateGroups"
	EscalationProperty = "escalationGroups"
)

// ParseJSON decodes a group list from JSON text. Accepted shapes:
//
//	{"<property>": [["ID-1","ID-2"], ...]}
//	[["ID-1","ID-2"], ...]
//
// Entries are trimmed; empty strings and non-strings are dropped;
// duplicates within a group collapse preserving first-seen order; groups
// resolving to fewer than two distinct IDs are discarded. Any parse
// failure or unexpected shape yields nil.
func ParseJSON(property, text string) [][]string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var data any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil
	}

	var raw []any
	switch v := data.(type) {
	case map[string]any:
		arr, ok := v[property].([]any)
		if !ok {
			return nil
		}
		raw = arr
	case []any:
		raw = v
	default:
		return nil
	}

	var out [][]string
	for _, g := range raw {
		members, ok := g.([]any)
		if !ok {
			continue
		}
		ids := make([]string, 0, len(members))
		seen := make(map[string]bool, len(members))
		for _, m := range members {
			s, ok := m.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			ids = append(ids, s)
		}
		if len(ids) >= 2 {
			out = append(out, ids)
		}
	}
	return out
}

// ParseB64 decodes a base64-encoded JSON group list. Invalid base64
// yields nil; the decoded text goes through ParseJSON.
func ParseB64(property, encoded string) [][]string {
	if strings.TrimSpace(encoded) == "" {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	return ParseJSON(property, string(raw))
}

// Resolve decodes grouping data preferring inline JSON over base64,
// matching the argument precedence of the aggregate agent.
func Resolve(property, jsonText, b64Text string) [][]string {
	if out := ParseJSON(property, jsonText); len(out) > 0 {
		return out
	}
	return ParseB64(property, b64Text)
}
