// Package query decides whether a user message needs external data grounding.
package query

import "strings"

// Language tags a vocabulary entry. The deployed user base mixes English and
// Indonesian, so both are matched; the table can grow without touching the
// classification logic.
type Language string

const (
	English    Language = "en"
	Indonesian Language = "id"
)

type keyword struct {
	Lang Language
	Text string
}

// visualVocabulary marks "show me" style requests. Combined with the word
// "dashboard" these are routed to the asset lookup instead of the data path.
var visualVocabulary = []keyword{
	{English, "dashboard"},
	{English, "image"},
	{English, "screenshot"},
	{English, "show"},
	{English, "visual"},
	{Indonesian, "gambar"},
	{Indonesian, "foto"},
	{Indonesian, "tampilkan"},
	{Indonesian, "lihat"},
}

// dataVocabulary lists task verbs and nouns that imply the answer should be
// grounded in the tracking sheet or documents. False positives are cheap
// (extra context); false negatives lose the grounding entirely.
var dataVocabulary = []keyword{
	{English, "list"},
	{English, "search"},
	{English, "project"},
	{English, "status"},
	{English, "progress"},
	{English, "summary"},
	{English, "data"},
	{English, "total"},
	{English, "version"},
	{English, "latest"},
	{English, "revision"},
	{English, "document"},
	{English, "file"},
	{English, "tracking"},
	{English, "update"},
	{English, "history"},
	{English, "log"},
	{Indonesian, "berikan"},
	{Indonesian, "cari"},
	{Indonesian, "daftar"},
	{Indonesian, "semua"},
	{Indonesian, "analisa"},
	{Indonesian, "berapa"},
	{Indonesian, "mana"},
	{Indonesian, "versi"},
	{Indonesian, "terbaru"},
	{Indonesian, "revisi"},
	{Indonesian, "dokumen"},
	{Indonesian, "riwayat"},
}

// IsDataQuery reports whether the message should trigger a tabular data
// fetch. Pure and deterministic: no I/O, no state.
func IsDataQuery(message string) bool {
	lower := strings.ToLower(message)

	if strings.Contains(lower, "dashboard") && containsAny(lower, visualVocabulary) {
		return false
	}
	if containsAny(lower, dataVocabulary) {
		return true
	}
	// underscores and periods usually mean the user pasted a file name
	return strings.ContainsAny(message, "_.")
}

// WantsRefresh reports whether the message asks for a fresh table fetch,
// bypassing the cache.
func WantsRefresh(message string) bool {
	return strings.Contains(strings.ToLower(message), "refresh")
}

func containsAny(lower string, vocab []keyword) bool {
	for _, kw := range vocab {
		if strings.Contains(lower, kw.Text) {
			return true
		}
	}
	return false
}
