package sheet

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gridchat/internal/relevance"
)

// FormatForPrompt renders a (usually filtered) table as plain text for the
// prompt, one record per line. Keys are sorted so identical input always
// yields identical text.
func FormatForPrompt(table interface{}) string {
	view := relevance.ParseTable(table)
	if view.Shape == relevance.ShapeOpaque {
		raw, err := json.Marshal(table)
		if err != nil {
			return fmt.Sprint(table)
		}
		return string(raw)
	}

	lines := make([]string, 0, len(view.Records))
	for i, rec := range view.Records {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, formatRecord(rec)))
	}
	if len(lines) == 0 {
		return "(no matching rows)"
	}
	return strings.Join(lines, "\n")
}

func formatRecord(rec interface{}) string {
	fields, ok := rec.(map[string]interface{})
	if !ok {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Sprint(rec)
		}
		return string(raw)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, fields[k]))
	}
	return strings.Join(parts, " | ")
}
