// Package assets serves "show me the dashboard" style requests from a local
// directory of exported visuals, bypassing the LLM entirely.
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Asset is one matched file reference.
type Asset struct {
	Name         string `json:"name"`
	RelativePath string `json:"relative_path"`
	Type         string `json:"type"`
	SizeKB       string `json:"size_kb"`
}

var assetExtensions = map[string]string{
	".png": "image", ".jpg": "image", ".jpeg": "image", ".gif": "image",
	".svg": "image", ".webp": "image", ".pdf": "file",
}

// requestVocabulary mirrors the classifier's visual vocabulary: these words
// next to "dashboard" mean the user wants a stored visual, not an answer.
var requestVocabulary = []string{
	"show", "image", "screenshot", "visual",
	"tampilkan", "lihat", "gambar", "foto",
}

// filler words stripped when deriving the search query from the message.
var fillerWords = map[string]bool{
	"show": true, "me": true, "the": true, "a": true, "an": true,
	"dashboard": true, "image": true, "screenshot": true, "visual": true,
	"please": true, "tampilkan": true, "lihat": true, "gambar": true,
	"foto": true, "dari": true, "untuk": true,
}

// Manager looks up assets beneath one base directory.
type Manager struct {
	baseDir string
}

func NewManager(baseDir string) *Manager {
	return &Manager{baseDir: baseDir}
}

// IsAssetRequest reports whether the message asks for a stored visual.
func (m *Manager) IsAssetRequest(message string) bool {
	if m == nil || m.baseDir == "" {
		return false
	}
	lower := strings.ToLower(message)
	if !strings.Contains(lower, "dashboard") {
		return false
	}
	for _, word := range requestVocabulary {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// ExtractAssetQuery strips request filler from the message, leaving the
// terms worth matching against file names.
func (m *Manager) ExtractAssetQuery(message string) string {
	var kept []string
	for _, tok := range strings.Fields(strings.ToLower(message)) {
		tok = strings.Trim(tok, ".,!?")
		if tok == "" || fillerWords[tok] {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// SearchAssets walks the asset directory for files whose names contain any
// query term. An empty query matches every known asset type.
func (m *Manager) SearchAssets(query string) ([]Asset, error) {
	if m == nil || m.baseDir == "" {
		return nil, nil
	}
	terms := strings.Fields(strings.ToLower(query))

	var found []Asset
	err := filepath.WalkDir(m.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		kind, ok := assetExtensions[strings.ToLower(filepath.Ext(d.Name()))]
		if !ok {
			return nil
		}
		if !nameMatches(strings.ToLower(d.Name()), terms) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(m.baseDir, path)
		if err != nil {
			rel = d.Name()
		}
		found = append(found, Asset{
			Name:         d.Name(),
			RelativePath: rel,
			Type:         kind,
			SizeKB:       fmt.Sprintf("%.1f", float64(info.Size())/1024),
		})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("search assets: %w", err)
	}
	return found, nil
}

// DescribeAssets builds the assistant reply for the matched assets.
func (m *Manager) DescribeAssets(assets []Asset, query string) string {
	if len(assets) == 0 {
		return fmt.Sprintf("No dashboard files found for %q.", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d dashboard file(s)", len(assets))
	if query != "" {
		fmt.Fprintf(&b, " matching %q", query)
	}
	b.WriteString(":\n")
	for _, a := range assets {
		fmt.Fprintf(&b, "- %s (%s, %s KB)\n", a.Name, a.Type, a.SizeKB)
	}
	b.WriteString("The files are attached to this reply.")
	return b.String()
}

func nameMatches(name string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	for _, t := range terms {
		if strings.Contains(name, t) {
			return true
		}
	}
	return false
}
