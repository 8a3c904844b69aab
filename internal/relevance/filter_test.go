package relevance

import (
	"fmt"
	"testing"
)

func record(fields map[string]interface{}) interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func TestNormalizeStripsDecorations(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Garubeka01_BD_Main_Rev2_20260103", "garubeka01bdmainrev220260103"},
		{"garubeka01 bd main rev1", "garubeka01bdmainrev1"},
		{"path%20with%20spaces", "pathwithspaces"},
		{"UPPER-case.file", "uppercasefile"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDeepMatchSurvivesPunctuationDifferences(t *testing.T) {
	table := []interface{}{
		record(map[string]interface{}{"file": "docs/Garubeka01_BD_Main_Rev2_20260103.pdf", "rev": 2}),
		record(map[string]interface{}{"file": "garubeka01 bd main rev1", "rev": 1}),
		record(map[string]interface{}{"file": "Other01_Project_Rev5", "rev": 5}),
	}

	result := Filter(table, "Garubeka01_BD_Main")
	records, ok := result.([]interface{})
	if !ok {
		t.Fatalf("expected bare sequence back, got %T", result)
	}
	if len(records) != 2 {
		t.Fatalf("expected both revisions of the file, got %d records", len(records))
	}
}

func TestGenericShortQueryReturnsFirstFifty(t *testing.T) {
	table := make([]interface{}, 0, 5000)
	for i := 0; i < 5000; i++ {
		table = append(table, record(map[string]interface{}{"row": i}))
	}

	result := Filter(table, "show me everything")
	records := result.([]interface{})
	if len(records) != 50 {
		t.Fatalf("expected exactly 50 records, got %d", len(records))
	}
	first, ok := records[0].(map[string]interface{})
	if !ok || first["row"] != 0 {
		t.Fatalf("expected unfiltered head of the table, got %v", records[0])
	}
}

func TestKeywordFallback(t *testing.T) {
	keywords := Keywords("cari laporan progress minggu ini")
	want := map[string]bool{"laporan": true, "progress": true, "minggu": true}
	if len(keywords) != len(want) {
		t.Fatalf("expected %d keywords, got %v", len(want), keywords)
	}
	for _, kw := range keywords {
		if !want[kw] {
			t.Errorf("unexpected keyword %q", kw)
		}
	}

	table := []interface{}{
		record(map[string]interface{}{"name": "Laporan Progress Mingguan", "week": 34}),
		record(map[string]interface{}{"name": "budget plan", "week": 12}),
	}
	result := Filter(table, "cari laporan progress minggu ini")
	records := result.([]interface{})
	if len(records) != 1 {
		t.Fatalf("expected one keyword match, got %d", len(records))
	}
}

func TestKeywordCapAtSeventy(t *testing.T) {
	table := make([]interface{}, 0, 200)
	for i := 0; i < 200; i++ {
		table = append(table, record(map[string]interface{}{"name": fmt.Sprintf("weekly laporan %d", i)}))
	}
	result := Filter(table, "find the latest laporan please with numbers")
	records := result.([]interface{})
	if len(records) != 70 {
		t.Fatalf("expected keyword cap of 70, got %d", len(records))
	}
}

func TestEmptyKeywordsFallBackToRecentSample(t *testing.T) {
	table := make([]interface{}, 0, 100)
	for i := 0; i < 100; i++ {
		table = append(table, record(map[string]interface{}{"row": i}))
	}
	// every token is short or a stop-word, and nothing deep-matches
	result := Filter(table, "zzq cari data file")
	records := result.([]interface{})
	if len(records) != 20 {
		t.Fatalf("expected recency sample of 20, got %d", len(records))
	}
}

func TestWrappedContainerShapePreserved(t *testing.T) {
	table := map[string]interface{}{
		"sheetName": "tracking",
		"fetchedAt": "2026-01-03",
		"rows": []interface{}{
			record(map[string]interface{}{"file": "alpha_report_v1"}),
			record(map[string]interface{}{"file": "beta_summary_v2"}),
		},
	}

	result := Filter(table, "alpha_report")
	wrapped, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("expected wrapped object back, got %T", result)
	}
	if wrapped["sheetName"] != "tracking" || wrapped["fetchedAt"] != "2026-01-03" {
		t.Fatalf("sibling fields were not preserved: %v", wrapped)
	}
	rows, ok := wrapped["rows"].([]interface{})
	if !ok || len(rows) != 1 {
		t.Fatalf("expected one filtered row under the original key, got %v", wrapped["rows"])
	}
	// the input container must not be mutated
	if len(table["rows"].([]interface{})) != 2 {
		t.Fatal("input container was mutated")
	}
}

func TestProjectsWrapperKeyRecognized(t *testing.T) {
	table := map[string]interface{}{
		"projects": []interface{}{
			record(map[string]interface{}{"name": "bridge_design_rev3"}),
		},
	}
	result := Filter(table, "bridge_design")
	wrapped := result.(map[string]interface{})
	if _, ok := wrapped["projects"]; !ok {
		t.Fatal("projects wrapper key not preserved")
	}
}

func TestMalformedContainerPassesThrough(t *testing.T) {
	table := map[string]interface{}{"unexpected": "shape"}
	result := Filter(table, "anything at all here")
	got, ok := result.(map[string]interface{})
	if !ok || got["unexpected"] != "shape" {
		t.Fatalf("malformed container should pass through unmodified, got %v", result)
	}

	if got := Filter("not a table", "query"); got != "not a table" {
		t.Fatalf("scalar input should pass through, got %v", got)
	}
}

func TestDeepMatchCapAtTwoHundred(t *testing.T) {
	table := make([]interface{}, 0, 400)
	for i := 0; i < 400; i++ {
		table = append(table, record(map[string]interface{}{"file": fmt.Sprintf("alpha_report %d", i)}))
	}
	result := Filter(table, "alpha_report")
	records := result.([]interface{})
	if len(records) != 200 {
		t.Fatalf("expected deep-match cap of 200, got %d", len(records))
	}
}
