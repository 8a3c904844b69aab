package extract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ooxmlText is the generic office-document fallback. OOXML files are zip
// archives of XML parts; the visible text lives in <w:t>/<a:t> nodes of the
// document and slide parts. This covers docx bodies that the primary parser
// rejects as well as pptx slides.
func ooxmlText(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open office archive: %w", err)
	}
	defer zr.Close()

	var parts []string
	for _, entry := range zr.File {
		if !textBearingEntry(entry.Name) {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			continue
		}
		text := collectTextNodes(rc)
		rc.Close()
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", errors.New("no readable text in office document")
	}
	return strings.Join(parts, "\n"), nil
}

func textBearingEntry(name string) bool {
	if name == "word/document.xml" {
		return true
	}
	return strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml")
}

// collectTextNodes walks the XML stream and concatenates character data
// found inside <t> elements, one line per paragraph/row boundary.
func collectTextNodes(r io.Reader) string {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				depth++
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				if depth > 0 {
					depth--
				}
			case "p", "tr":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if depth > 0 {
				b.Write(t)
			}
		}
	}
	return b.String()
}
