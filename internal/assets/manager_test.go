package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func seedAssets(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	files := []string{
		"august_dashboard.png",
		"reports/progress_overview.pdf",
		"notes.txt", // not an asset type
	}
	for _, name := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return NewManager(dir)
}

func TestIsAssetRequest(t *testing.T) {
	m := seedAssets(t)
	cases := []struct {
		message string
		want    bool
	}{
		{"show me the dashboard for august", true},
		{"tampilkan dashboard proyek", true},
		{"what is the dashboard refresh interval", false},
		{"show me the latest revision", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := m.IsAssetRequest(tc.message); got != tc.want {
			t.Errorf("IsAssetRequest(%q) = %v, want %v", tc.message, got, tc.want)
		}
	}
}

func TestIsAssetRequestDisabledWithoutDirectory(t *testing.T) {
	m := NewManager("")
	if m.IsAssetRequest("show me the dashboard") {
		t.Fatal("manager without a base directory must never claim requests")
	}
}

func TestExtractAssetQuery(t *testing.T) {
	m := seedAssets(t)
	got := m.ExtractAssetQuery("Show me the dashboard for august, please!")
	if got != "for august" {
		t.Fatalf("ExtractAssetQuery = %q", got)
	}
}

func TestSearchAssetsMatchesByName(t *testing.T) {
	m := seedAssets(t)
	found, err := m.SearchAssets("august")
	if err != nil {
		t.Fatalf("SearchAssets: %v", err)
	}
	if len(found) != 1 || found[0].Name != "august_dashboard.png" {
		t.Fatalf("unexpected matches: %v", found)
	}
	if found[0].Type != "image" {
		t.Fatalf("expected image type, got %q", found[0].Type)
	}
}

func TestSearchAssetsEmptyQueryReturnsAllAssets(t *testing.T) {
	m := seedAssets(t)
	found, err := m.SearchAssets("")
	if err != nil {
		t.Fatalf("SearchAssets: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected both asset files, got %v", found)
	}
	for _, a := range found {
		if strings.HasSuffix(a.Name, ".txt") {
			t.Fatalf("non-asset file leaked into results: %v", a)
		}
	}
}

func TestSearchAssetsMissingDirectory(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "nope"))
	found, err := m.SearchAssets("anything")
	if err != nil {
		t.Fatalf("missing directory should not be an error: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("expected no matches, got %v", found)
	}
}

func TestDescribeAssets(t *testing.T) {
	m := seedAssets(t)
	found, err := m.SearchAssets("august")
	if err != nil {
		t.Fatalf("SearchAssets: %v", err)
	}
	desc := m.DescribeAssets(found, "august")
	if !strings.Contains(desc, "august_dashboard.png") {
		t.Fatalf("description missing file name: %q", desc)
	}
	if !strings.Contains(desc, "attached") {
		t.Fatalf("description missing attachment note: %q", desc)
	}

	empty := m.DescribeAssets(nil, "missing thing")
	if !strings.Contains(empty, "No dashboard files found") {
		t.Fatalf("empty description wrong: %q", empty)
	}
}
