// Package relevance selects the bounded subset of table records worth
// placing into the prompt for a given user message.
package relevance

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Graduated result caps. Exact phrase lookups get the most generous
// allowance: a deep match on a file name means the user wants that entity's
// complete history, and silently dropping one of its rows is the most
// visible failure this component can produce.
const (
	deepMatchLimit = 200
	keywordLimit   = 70
	genericLimit   = 50
	recencyLimit   = 20

	genericQueryMaxLen = 20
)

// genericVocabulary means "all/another/more" in either supported language.
// Short messages built from these carry no filter criterion at all.
var genericVocabulary = []string{
	"all", "everything", "more", "another", "other",
	"semua", "lagi", "lainnya", "lain",
}

// stopWords are search verbs and filler nouns discarded by the keyword stage.
var stopWords = map[string]bool{
	"cari": true, "tolong": true, "minta": true, "data": true, "file": true,
	"versi": true, "semua": true, "search": true, "find": true, "show": true,
	"please": true, "give": true, "list": true, "untuk": true, "yang": true,
	"berikan": true, "with": true, "from": true, "about": true,
}

var tokenSplit = regexp.MustCompile(`[\s_\-.]+`)

// Normalize lowercases, decodes %20 to a space, then strips everything that
// is not a lowercase letter or digit. Applying it to both sides of the
// substring test is what makes matching survive the decorative separators
// and URL-encoded fragments that table cells carry around the substrings
// users actually type.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "%20", " ")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Filter returns the subset of records relevant to the user message,
// preserving the container shape of the input. Unrecognized shapes pass
// through unmodified.
func Filter(table interface{}, userMessage string) interface{} {
	view := ParseTable(table)
	if view.Shape == ShapeOpaque {
		return table
	}

	query := strings.TrimSpace(strings.ToLower(userMessage))

	// Short generic requests carry no criterion; skip the scan entirely.
	if len(query) < genericQueryMaxLen && containsGeneric(query) {
		return view.Rewrap(head(view.Records, genericLimit))
	}

	// Deep phrase match: normalized query against normalized serialization.
	if normQuery := Normalize(userMessage); normQuery != "" {
		var matches []interface{}
		for _, rec := range view.Records {
			if strings.Contains(Normalize(serialize(rec)), normQuery) {
				matches = append(matches, rec)
				if len(matches) == deepMatchLimit {
					break
				}
			}
		}
		if len(matches) > 0 {
			return view.Rewrap(matches)
		}
	}

	// Keyword fallback over the raw query tokens.
	keywords := Keywords(userMessage)
	if len(keywords) == 0 {
		return view.Rewrap(head(view.Records, recencyLimit))
	}
	var matches []interface{}
	for _, rec := range view.Records {
		low := strings.ToLower(serialize(rec))
		for _, kw := range keywords {
			if strings.Contains(low, kw) {
				matches = append(matches, rec)
				break
			}
		}
		if len(matches) == keywordLimit {
			break
		}
	}
	return view.Rewrap(matches)
}

// Keywords splits the raw query on whitespace, underscores, hyphens and
// periods, keeping tokens longer than three characters that are not
// stop-words.
func Keywords(query string) []string {
	var out []string
	for _, tok := range tokenSplit.Split(strings.ToLower(query), -1) {
		if len(tok) <= 3 || stopWords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func serialize(record interface{}) string {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Sprint(record)
	}
	return string(raw)
}

func containsGeneric(query string) bool {
	for _, term := range genericVocabulary {
		if strings.Contains(query, term) {
			return true
		}
	}
	return false
}

func head(records []interface{}, n int) []interface{} {
	if len(records) <= n {
		return records
	}
	return records[:n]
}
